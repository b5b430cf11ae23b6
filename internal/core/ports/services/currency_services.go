package services

import (
	"context"
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencySvc converts between the move currency and the company currency.
// Rates are date-effective; conversion results are company-currency amounts
// at 2 decimal digits, rates at 5.
type CurrencySvc interface {
	// ConversionRate returns the rate from one currency to another effective
	// at the given date. Identity currencies yield 1.
	ConversionRate(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error)

	// Convert applies an already-known rate to an amount.
	Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal

	// ConvertAtDate converts an amount using the rate effective at the date.
	ConvertAtDate(ctx context.Context, fromCode, toCode string, amount decimal.Decimal, date time.Time) (decimal.Decimal, error)

	// SaveRate stores a date-effective rate.
	SaveRate(ctx context.Context, rate domain.ExchangeRate, actorID string) error

	// RateAt returns the stored rate record effective at the date.
	RateAt(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)
}
