package services

import (
	"context"
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SequenceSvc stamps document numbers onto moves. Implementations must be
// idempotent: a move that already carries a reference keeps it.
type SequenceSvc interface {
	AssignReference(ctx context.Context, move *domain.Move) error
}

// FiscalPositionSvc substitutes accounts according to a fiscal position.
// Resolution is identity when the position is nil or has no mapping.
type FiscalPositionSvc interface {
	ResolveAccount(fiscalPosition *domain.FiscalPosition, account *domain.Account) *domain.Account
}

// TaxAccountSvc resolves the posting account of a tax for a company and
// direction. A nil account means no configuration exists for the combination.
type TaxAccountSvc interface {
	ResolveTaxAccount(tax *domain.Tax, company *domain.Company, isPurchase, isFixedAsset bool) *domain.Account
}

// AnalyticSvc generates and recomputes analytic allocations on move lines.
type AnalyticSvc interface {
	// GenerateLines builds allocations for a line from its account's
	// distribution template. No template, no allocations.
	GenerateLines(line *domain.MoveLine) []domain.AnalyticMoveLine

	// RecomputeLine rescales a copied allocation against a new base amount
	// and date.
	RecomputeLine(allocation domain.AnalyticMoveLine, amount decimal.Decimal, date time.Time) domain.AnalyticMoveLine
}

// CustomerBalanceSvc refreshes partner accounted balances after posting.
type CustomerBalanceSvc interface {
	UpdateBalances(ctx context.Context, move *domain.Move) error
	UpdateBalancesForPartners(ctx context.Context, partnerIDs []string, company *domain.Company) error
}

// FixedAssetSvc generates fixed-asset records from qualifying move lines.
type FixedAssetSvc interface {
	GenerateFromLine(ctx context.Context, move *domain.Move, line *domain.MoveLine) error
}

// PeriodAuthSvc decides whether an actor may still account on a period whose
// status restricts posting.
type PeriodAuthSvc interface {
	IsPeriodOpenFor(period *domain.Period, actorID string) bool
}
