package services

import (
	"context"
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoveLineInput carries everything the ledger line factory needs for one
// line. CompanyAmount and Rate may be left zero/nil to have the factory
// convert and derive them.
type MoveLineInput struct {
	Partner        *domain.Partner
	Account        *domain.Account
	CurrencyAmount decimal.Decimal
	CompanyAmount  decimal.Decimal
	Rate           *decimal.Decimal
	IsDebit        bool
	Date           time.Time
	DueDate        *time.Time
	OriginDate     *time.Time
	Counter        int
	Origin         string
	Description    string
}

// MoveLineCreateSvc materializes balanced ledger lines from amounts and from
// commercial documents.
type MoveLineCreateSvc interface {
	// CreateMoveLine builds one line, converting the currency amount when no
	// company amount is supplied.
	CreateMoveLine(ctx context.Context, move *domain.Move, in MoveLineInput) (domain.MoveLine, error)

	// CreateMoveLines turns an invoice into the full balanced line set:
	// product lines, tax split lines and term lines, reconciled to the cent.
	CreateMoveLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move) ([]domain.MoveLine, error)

	// CreateTaxSplitLines expands the invoice's aggregate taxes into posting
	// lines, split by fixed-asset vs other sub-totals.
	CreateTaxSplitLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move, counter int) ([]domain.MoveLine, error)

	// CreateInvoiceTermLines expands payment terms into partner-facing
	// lines and reconciles them against the target total.
	CreateInvoiceTermLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move, counter int, totalToMatch decimal.Decimal) ([]domain.MoveLine, error)
}

// MoveLineTaxSvc derives tax lines from taxed base lines and checks tax
// coherence across a move.
type MoveLineTaxSvc interface {
	// GenerateTaxLines creates or merges auto-tax lines for every taxed base
	// line of the move, in first-seen order.
	GenerateTaxLines(ctx context.Context, move *domain.Move) error

	// CheckTaxMoveLines verifies tax coherence between base and tax lines.
	CheckTaxMoveLines(move *domain.Move) error

	// VatSystemFor resolves the VAT system a tax line generated from the
	// given base line must carry.
	VatSystemFor(move *domain.Move, line *domain.MoveLine) domain.VatSystem
}
