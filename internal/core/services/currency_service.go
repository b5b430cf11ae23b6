package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateScale is the stored precision of currency conversion rates.
const RateScale = 5

// AmountScale is the stored precision of company-currency amounts.
const AmountScale = 2

// currencyService resolves conversion rates from the exchange-rate
// repository and applies them. Rates are date-effective: the most recent
// rate on or before the requested date wins.
type currencyService struct {
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewCurrencyService creates the currency conversion service.
func NewCurrencyService(rateRepo portsrepo.ExchangeRateRepositoryFacade) portssvc.CurrencySvc {
	return &currencyService{rateRepo: rateRepo}
}

var _ portssvc.CurrencySvc = (*currencyService)(nil)

// ConversionRate returns the conversion rate between two currencies at a
// date, rounded half-up to RateScale digits.
func (s *currencyService) ConversionRate(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindRateAtDate(ctx, fromCode, toCode, date)
	if err == nil {
		return rate.Rate.Round(RateScale), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to look up conversion rate %s/%s: %w", fromCode, toCode, err)
	}

	// Fall back to the inverse pair before giving up.
	inverse, invErr := s.rateRepo.FindRateAtDate(ctx, toCode, fromCode, date)
	if invErr != nil {
		return decimal.Zero, fmt.Errorf("%w: no conversion rate for %s/%s at %s", apperrors.ErrConfiguration, fromCode, toCode, date.Format("2006-01-02"))
	}
	if inverse.Rate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero conversion rate stored for %s/%s", apperrors.ErrConfiguration, toCode, fromCode)
	}
	return decimal.NewFromInt(1).DivRound(inverse.Rate, RateScale), nil
}

// Convert applies a known rate to an amount, at AmountScale digits half-up.
func (s *currencyService) Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(AmountScale)
}

// ConvertAtDate converts an amount using the rate effective at the date.
func (s *currencyService) ConvertAtDate(ctx context.Context, fromCode, toCode string, amount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	rate, err := s.ConversionRate(ctx, fromCode, toCode, date)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Convert(amount, rate), nil
}

// SaveRate stores a date-effective rate, stamping the actor on the audit
// fields.
func (s *currencyService) SaveRate(ctx context.Context, rate domain.ExchangeRate, actorID string) error {
	if rate.Rate.Sign() <= 0 {
		return fmt.Errorf("%w: conversion rate must be positive", apperrors.ErrValidation)
	}
	if rate.ExchangeRateID == "" {
		rate.ExchangeRateID = uuid.NewString()
	}
	now := time.Now()
	rate.CreatedAt = now
	rate.CreatedBy = actorID
	rate.LastUpdatedAt = now
	rate.LastUpdatedBy = actorID
	return s.rateRepo.SaveExchangeRate(ctx, rate)
}

// RateAt returns the stored rate record effective at the date.
func (s *currencyService) RateAt(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindRateAtDate(ctx, strings.ToUpper(fromCode), strings.ToUpper(toCode), date)
}
