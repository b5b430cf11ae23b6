package repositories

import (
	"context"
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
)

// ExchangeRateReader finds conversion rates. FindRateAtDate returns the most
// recent rate effective on or before the given date.
type ExchangeRateReader interface {
	FindRateAtDate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter stores rates.
type ExchangeRateWriter interface {
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines exchange-rate persistence operations.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
