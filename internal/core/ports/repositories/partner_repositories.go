package repositories

import (
	"context"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartnerReader provides partner lookups and accounted-balance recomputation
// from posted lines.
type PartnerReader interface {
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)
	// ComputeAccountedBalances sums debit minus credit over accounted lines
	// on partner-balance accounts for each partner within the company.
	ComputeAccountedBalances(ctx context.Context, partnerIDs []string, companyID string) (map[string]decimal.Decimal, error)
}

// PartnerWriter persists refreshed balances.
type PartnerWriter interface {
	SavePartnerBalances(ctx context.Context, balances []domain.PartnerBalance) error
}

// PartnerRepositoryFacade combines partner persistence operations.
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
}
