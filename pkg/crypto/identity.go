package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var randomRead = rand.Read

// Fingerprinter derives keyed, non-reversible fingerprints of customer identifiers
// so audit rows can be correlated without storing the raw value
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter creates a fingerprinter. blake2b accepts keys up to 64 bytes.
func NewFingerprinter(key string) (*Fingerprinter, error) {
	if key == "" {
		return nil, errors.New("fingerprint key is required")
	}
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("fingerprint key must be at most %d bytes", blake2b.Size)
	}
	return &Fingerprinter{key: []byte(key)}, nil
}

// Fingerprint returns the hex keyed BLAKE2b-256 digest of value
func (f *Fingerprinter) Fingerprint(value string) string {
	if value == "" {
		return ""
	}
	h, err := blake2b.New256(f.key)
	if err != nil {
		// only reachable with an oversized key, which NewFingerprinter rejects
		return ""
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

// MaskAadhaar keeps the last four digits
func MaskAadhaar(aadhaar string) string {
	return maskTail(aadhaar, 4)
}

// MaskMobile keeps the last four digits
func MaskMobile(mobile string) string {
	return maskTail(mobile, 4)
}

func maskTail(value string, keep int) string {
	if value == "" {
		return ""
	}
	if len(value) <= keep {
		return strings.Repeat("X", len(value))
	}
	return strings.Repeat("X", len(value)-keep) + value[len(value)-keep:]
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
