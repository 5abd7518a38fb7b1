package usecases

import (
	"context"
	"time"

	"go.uber.org/zap"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	domainRepos "aeps-agent.backend/internal/domain/repositories"
	"aeps-agent.backend/pkg/logger"
)

const bankListCacheKey = "aeps:banks"

// BankUsecase serves the partner bank list through a short-lived cache
type BankUsecase struct {
	partner domainRepos.AepsPartner
	cache   domainRepos.BankCache
	ttl     time.Duration
}

func NewBankUsecase(partner domainRepos.AepsPartner, cache domainRepos.BankCache, ttl time.Duration) *BankUsecase {
	return &BankUsecase{partner: partner, cache: cache, ttl: ttl}
}

// ListBanks returns the bank list. refresh bypasses the cache.
func (uc *BankUsecase) ListBanks(ctx context.Context, cc entities.CallContext, refresh bool) ([]entities.Bank, error) {
	if uc.cache != nil && !refresh {
		banks, ok, err := uc.cache.Get(ctx, bankListCacheKey)
		if err != nil {
			logger.Warn(ctx, "Bank list cache read failed", zap.Error(err))
		} else if ok {
			return banks, nil
		}
	}

	banks, err := uc.partner.ListBanks(ctx, cc)
	if err != nil {
		return nil, &domainerrors.UpstreamStatusError{Op: "fetch bank list", Err: err}
	}

	if uc.cache != nil && len(banks) > 0 {
		if err := uc.cache.Set(ctx, bankListCacheKey, banks, uc.ttl); err != nil {
			logger.Warn(ctx, "Bank list cache write failed", zap.Error(err))
		}
	}
	return banks, nil
}

// Lookup finds a bank by IIN in the current list
func (uc *BankUsecase) Lookup(ctx context.Context, cc entities.CallContext, bankCode string) (entities.BankSelection, error) {
	banks, err := uc.ListBanks(ctx, cc, false)
	if err != nil {
		return entities.BankSelection{}, err
	}
	for _, b := range banks {
		if b.IIN == bankCode {
			return entities.BankSelection{BankCode: b.IIN, BankName: b.Name}, nil
		}
	}
	return entities.BankSelection{}, domainerrors.ErrBankNotListed
}
