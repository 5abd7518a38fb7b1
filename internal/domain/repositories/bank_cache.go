package repositories

import (
	"context"
	"time"

	"aeps-agent.backend/internal/domain/entities"
)

// BankCache stores the partner bank list
type BankCache interface {
	Get(ctx context.Context, key string) ([]entities.Bank, bool, error)
	Set(ctx context.Context, key string, banks []entities.Bank, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
