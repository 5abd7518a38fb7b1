package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aeps-agent.backend/internal/domain/entities"
	"aeps-agent.backend/internal/infrastructure/models"
)

// TransactionLogRepositoryImpl implements TransactionLogRepository
type TransactionLogRepositoryImpl struct {
	db *gorm.DB
}

func NewTransactionLogRepository(db *gorm.DB) *TransactionLogRepositoryImpl {
	return &TransactionLogRepositoryImpl{db: db}
}

func (r *TransactionLogRepositoryImpl) Create(ctx context.Context, log *entities.TransactionLog) error {
	m := &models.TransactionLog{
		ID:                 log.ID,
		AgentID:            log.AgentID,
		ReferenceID:        log.ReferenceID,
		Operation:          string(log.Operation),
		BankCode:           log.BankCode,
		MaskedMobile:       log.MaskedMobile,
		MaskedAadhaar:      log.MaskedAadhaar,
		AadhaarFingerprint: log.AadhaarFingerprint,
		Amount:             log.Amount,
		Outcome:            string(log.Outcome),
		PartnerMessage:     log.PartnerMessage,
		PartnerReference:   log.PartnerReference,
		CreatedAt:          log.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *TransactionLogRepositoryImpl) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*entities.TransactionLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.TransactionLog{}).
		Where("agent_id = ?", agentID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.TransactionLog
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]*entities.TransactionLog, 0, len(ms))
	for i := range ms {
		logs = append(logs, r.toEntity(&ms[i]))
	}
	return logs, total, nil
}

func (r *TransactionLogRepositoryImpl) toEntity(m *models.TransactionLog) *entities.TransactionLog {
	return &entities.TransactionLog{
		ID:                 m.ID,
		AgentID:            m.AgentID,
		ReferenceID:        m.ReferenceID,
		Operation:          entities.Operation(m.Operation),
		BankCode:           m.BankCode,
		MaskedMobile:       m.MaskedMobile,
		MaskedAadhaar:      m.MaskedAadhaar,
		AadhaarFingerprint: m.AadhaarFingerprint,
		Amount:             m.Amount,
		Outcome:            entities.AttemptOutcome(m.Outcome),
		PartnerMessage:     m.PartnerMessage,
		PartnerReference:   m.PartnerReference,
		CreatedAt:          m.CreatedAt,
	}
}
