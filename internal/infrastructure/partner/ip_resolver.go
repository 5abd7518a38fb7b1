package partner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// PublicIPResolver looks up the public address through an ipify-style JSON endpoint
type PublicIPResolver struct {
	url        string
	httpClient *http.Client
}

func NewPublicIPResolver(url string, timeout time.Duration) *PublicIPResolver {
	return &PublicIPResolver{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *PublicIPResolver) Resolve(ctx context.Context) (string, error) {
	if r.url == "" {
		return "", fmt.Errorf("ip resolver not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ip lookup request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip lookup failed: http=%d", resp.StatusCode)
	}

	var res struct {
		IP string `json:"ip"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("ip lookup decode: %w", err)
	}
	if net.ParseIP(res.IP) == nil {
		return "", fmt.Errorf("ip lookup returned invalid address %q", res.IP)
	}
	return res.IP, nil
}
