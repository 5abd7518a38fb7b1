package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// EncryptedStore keeps JSON values in Redis sealed with AES-256-GCM
type EncryptedStore struct {
	encryptionKey []byte
	prefix        string
}

var (
	setEncryptedValue = Set
	getEncryptedValue = Get
	delEncryptedValue = Del
)

// NewEncryptedStore creates a store whose keys are namespaced by prefix
func NewEncryptedStore(encryptionKeyHex, prefix string) (*EncryptedStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &EncryptedStore{encryptionKey: key, prefix: prefix}, nil
}

// Put encrypts value and stores it under id
func (s *EncryptedStore) Put(ctx context.Context, id string, value interface{}, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	encryptedData, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}

	return setEncryptedValue(ctx, s.prefix+id, encryptedData, expiration)
}

// Load decrypts the value stored under id into out
func (s *EncryptedStore) Load(ctx context.Context, id string, out interface{}) error {
	encryptedDataStr, err := getEncryptedValue(ctx, s.prefix+id)
	if err != nil {
		return err
	}

	decryptedData, err := s.decrypt(encryptedDataStr)
	if err != nil {
		return err
	}

	return json.Unmarshal(decryptedData, out)
}

// Delete removes the value stored under id
func (s *EncryptedStore) Delete(ctx context.Context, id string) error {
	return delEncryptedValue(ctx, s.prefix+id)
}

func (s *EncryptedStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *EncryptedStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
