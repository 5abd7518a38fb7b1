package partner

import (
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/go-jose/go-jose/v3"
)

// envelope seals request bodies as compact JWE (dir + A256GCM) when the
// partner has issued a shared key. Without a key bodies pass through as JSON.
type envelope struct {
	key       []byte
	encrypter jose.Encrypter
}

type sealedBody struct {
	Payload string `json:"payload"`
}

func newEnvelope(keyHex string) (*envelope, error) {
	if keyHex == "" {
		return &envelope{}, nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, errors.New("invalid partner encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("partner encryption key must be 32 bytes (64 hex chars)")
	}
	enc, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.DIRECT, Key: key}, nil)
	if err != nil {
		return nil, err
	}
	return &envelope{key: key, encrypter: enc}, nil
}

func (e *envelope) enabled() bool {
	return e.encrypter != nil
}

func (e *envelope) seal(v interface{}) ([]byte, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !e.enabled() {
		return plain, nil
	}

	obj, err := e.encrypter.Encrypt(plain)
	if err != nil {
		return nil, err
	}
	compact, err := obj.CompactSerialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(sealedBody{Payload: compact})
}

// open returns the plaintext of a sealed response, or raw unchanged if it is not sealed
func (e *envelope) open(raw []byte) ([]byte, error) {
	if !e.enabled() {
		return raw, nil
	}

	var sealed sealedBody
	if err := json.Unmarshal(raw, &sealed); err != nil || sealed.Payload == "" {
		return raw, nil
	}
	obj, err := jose.ParseEncrypted(sealed.Payload)
	if err != nil {
		return nil, err
	}
	return obj.Decrypt(e.key)
}
