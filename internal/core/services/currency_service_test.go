package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExchangeRateRepository
	service  portssvc.CurrencySvc
	date     time.Time
}

func (s *CurrencyServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockExchangeRateRepository)
	s.service = services.NewCurrencyService(s.mockRepo)
	s.date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (s *CurrencyServiceTestSuite) TestConversionRate_Identity() {
	rate, err := s.service.ConversionRate(context.Background(), "eur", "EUR", s.date)

	assert.NoError(s.T(), err)
	assert.True(s.T(), decimal.NewFromInt(1).Equal(rate))
	s.mockRepo.AssertNotCalled(s.T(), "FindRateAtDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CurrencyServiceTestSuite) TestConversionRate_InvalidCode() {
	_, err := s.service.ConversionRate(context.Background(), "EURO", "USD", s.date)

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *CurrencyServiceTestSuite) TestConversionRate_DirectPair() {
	s.mockRepo.On("FindRateAtDate", mock.Anything, "USD", "EUR", s.date).Return(&domain.ExchangeRate{
		Rate: decimal.NewFromFloat(0.876543),
	}, nil)

	rate, err := s.service.ConversionRate(context.Background(), "USD", "EUR", s.date)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "0.87654", rate.String())
}

func (s *CurrencyServiceTestSuite) TestConversionRate_InversePairFallback() {
	s.mockRepo.On("FindRateAtDate", mock.Anything, "USD", "EUR", s.date).Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("FindRateAtDate", mock.Anything, "EUR", "USD", s.date).Return(&domain.ExchangeRate{
		Rate: decimal.NewFromInt(2),
	}, nil)

	rate, err := s.service.ConversionRate(context.Background(), "USD", "EUR", s.date)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "0.5", rate.String())
}

func (s *CurrencyServiceTestSuite) TestConversionRate_NoRateAnywhere() {
	s.mockRepo.On("FindRateAtDate", mock.Anything, "USD", "EUR", s.date).Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("FindRateAtDate", mock.Anything, "EUR", "USD", s.date).Return(nil, apperrors.ErrNotFound)

	_, err := s.service.ConversionRate(context.Background(), "USD", "EUR", s.date)

	assert.ErrorIs(s.T(), err, apperrors.ErrConfiguration)
}

func (s *CurrencyServiceTestSuite) TestConvert_RoundsToCents() {
	amount := s.service.Convert(decimal.NewFromFloat(33.33), decimal.NewFromFloat(0.5))

	assert.Equal(s.T(), "16.67", amount.String())
}

func (s *CurrencyServiceTestSuite) TestSaveRate_RejectsNonPositive() {
	err := s.service.SaveRate(context.Background(), domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.Zero,
		DateEffective:    s.date,
	}, "actor-1")

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (s *CurrencyServiceTestSuite) TestSaveRate_StampsAuditFields() {
	var saved domain.ExchangeRate
	s.mockRepo.On("SaveExchangeRate", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.ExchangeRate)
	}).Return(nil)

	err := s.service.SaveRate(context.Background(), domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.9),
		DateEffective:    s.date,
	}, "actor-1")

	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), saved.ExchangeRateID)
	assert.Equal(s.T(), "actor-1", saved.CreatedBy)
	assert.Equal(s.T(), "actor-1", saved.LastUpdatedBy)
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
