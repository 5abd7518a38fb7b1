package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	"aeps-agent.backend/internal/usecases"
)

var sampleBanks = []entities.Bank{
	{IIN: "607094", Name: "State Bank of India"},
	{IIN: "508505", Name: "Bank of India"},
}

func TestBankUsecase_ListBanks_CacheHit(t *testing.T) {
	partner := new(MockAepsPartner)
	cache := new(MockBankCache)
	uc := usecases.NewBankUsecase(partner, cache, time.Hour)

	cache.On("Get", mock.Anything, "aeps:banks").Return(sampleBanks, true, nil).Once()

	banks, err := uc.ListBanks(context.Background(), entities.CallContext{}, false)
	require.NoError(t, err)
	assert.Equal(t, sampleBanks, banks)
	partner.AssertNotCalled(t, "ListBanks", mock.Anything, mock.Anything)
}

func TestBankUsecase_ListBanks_MissFetchesAndCaches(t *testing.T) {
	partner := new(MockAepsPartner)
	cache := new(MockBankCache)
	uc := usecases.NewBankUsecase(partner, cache, time.Hour)

	cache.On("Get", mock.Anything, "aeps:banks").Return(nil, false, nil).Once()
	partner.On("ListBanks", mock.Anything, mock.Anything).Return(sampleBanks, nil).Once()
	cache.On("Set", mock.Anything, "aeps:banks", sampleBanks, time.Hour).Return(nil).Once()

	banks, err := uc.ListBanks(context.Background(), entities.CallContext{}, false)
	require.NoError(t, err)
	assert.Len(t, banks, 2)
	cache.AssertExpectations(t)
}

func TestBankUsecase_ListBanks_RefreshAndCacheErrors(t *testing.T) {
	partner := new(MockAepsPartner)
	cache := new(MockBankCache)
	uc := usecases.NewBankUsecase(partner, cache, time.Hour)

	partner.On("ListBanks", mock.Anything, mock.Anything).Return(sampleBanks, nil).Once()
	cache.On("Set", mock.Anything, "aeps:banks", sampleBanks, time.Hour).Return(errors.New("redis down")).Once()

	banks, err := uc.ListBanks(context.Background(), entities.CallContext{}, true)
	require.NoError(t, err)
	assert.Len(t, banks, 2)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestBankUsecase_ListBanks_PartnerFailure(t *testing.T) {
	partner := new(MockAepsPartner)
	uc := usecases.NewBankUsecase(partner, nil, time.Hour)

	partner.On("ListBanks", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	_, err := uc.ListBanks(context.Background(), entities.CallContext{}, false)
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}

func TestBankUsecase_Lookup(t *testing.T) {
	partner := new(MockAepsPartner)
	uc := usecases.NewBankUsecase(partner, nil, time.Hour)
	partner.On("ListBanks", mock.Anything, mock.Anything).Return(sampleBanks, nil)

	sel, err := uc.Lookup(context.Background(), entities.CallContext{}, "508505")
	require.NoError(t, err)
	assert.Equal(t, entities.BankSelection{BankCode: "508505", BankName: "Bank of India"}, sel)

	_, err = uc.Lookup(context.Background(), entities.CallContext{}, "000000")
	assert.ErrorIs(t, err, domainerrors.ErrBankNotListed)
}
