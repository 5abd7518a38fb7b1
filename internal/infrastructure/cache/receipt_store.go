package cache

import (
	"context"
	"time"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	"aeps-agent.backend/pkg/redis"
)

const receiptKeyPrefix = "aeps:receipt:"

// EncryptedReceiptStore keeps receipts sealed in Redis for a short time.
// Keys are scoped by agent so one agent cannot read another's receipt.
type EncryptedReceiptStore struct {
	store *redis.EncryptedStore
	ttl   time.Duration
}

func NewEncryptedReceiptStore(encryptionKeyHex string, ttl time.Duration) (*EncryptedReceiptStore, error) {
	store, err := redis.NewEncryptedStore(encryptionKeyHex, receiptKeyPrefix)
	if err != nil {
		return nil, err
	}
	return &EncryptedReceiptStore{store: store, ttl: ttl}, nil
}

func receiptKey(agentID, receiptID string) string {
	return agentID + ":" + receiptID
}

func (s *EncryptedReceiptStore) Save(ctx context.Context, receipt *entities.Receipt) error {
	return s.store.Put(ctx, receiptKey(receipt.AgentID, receipt.ID), receipt, s.ttl)
}

func (s *EncryptedReceiptStore) Get(ctx context.Context, agentID, receiptID string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := s.store.Load(ctx, receiptKey(agentID, receiptID), &receipt); err != nil {
		if redis.IsNil(err) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}
