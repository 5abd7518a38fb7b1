package repositories

import (
	"context"

	"github.com/google/uuid"

	"aeps-agent.backend/internal/domain/entities"
)

// TransactionLogRepository defines audit log operations
type TransactionLogRepository interface {
	Create(ctx context.Context, log *entities.TransactionLog) error
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*entities.TransactionLog, int64, error)
}

// ReceiptStore keeps short-lived encrypted receipts
type ReceiptStore interface {
	Save(ctx context.Context, receipt *entities.Receipt) error
	Get(ctx context.Context, agentID, receiptID string) (*entities.Receipt, error)
}
