package repositories

import (
	"context"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
)

// AccountReader provides chart-of-accounts lookups. The chart is maintained
// outside this engine; reads only.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountRepositoryFacade combines account persistence operations.
type AccountRepositoryFacade interface {
	AccountReader
}
