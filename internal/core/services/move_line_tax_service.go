package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/google/uuid"
)

// taxAccumKey identifies one auto-tax accumulation bucket: the resolved tax
// account together with the rate snapshot being applied.
type taxAccumKey struct {
	accountID string
	taxLineID string
}

type moveLineTaxService struct {
	taxAccountSvc portssvc.TaxAccountSvc
}

// NewMoveLineTaxService creates the auto-tax generator.
func NewMoveLineTaxService(taxAccountSvc portssvc.TaxAccountSvc) portssvc.MoveLineTaxSvc {
	return &moveLineTaxService{taxAccountSvc: taxAccountSvc}
}

var _ portssvc.MoveLineTaxSvc = (*moveLineTaxService)(nil)

// GenerateTaxLines derives tax lines from every taxed base line of the move.
// Amounts accumulate per (tax account, rate snapshot) bucket; buckets are
// emitted in first-seen order. Existing tax lines of the move are reused as
// buckets so regeneration merges instead of duplicating.
func (s *moveLineTaxService) GenerateTaxLines(ctx context.Context, move *domain.Move) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	buckets := make(map[taxAccumKey]*domain.MoveLine)
	var created []*domain.MoveLine
	maxCounter := 0

	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Counter > maxCounter {
			maxCounter = line.Counter
		}
		if line.Account != nil && line.Account.IsTaxType() && line.SourceTaxLine != nil {
			buckets[taxAccumKey{line.Account.AccountID, line.SourceTaxLine.TaxLineID}] = line
		}
	}

	for i := range move.Lines {
		base := &move.Lines[i]
		if base.TaxLine == nil || base.Account == nil || base.Account.IsTaxType() || !base.HasEffect() {
			continue
		}

		var isPurchase, isFixedAsset bool
		switch base.Account.AccountType {
		case domain.AccountTypeCharge, domain.AccountTypeDebt:
			isPurchase = true
		case domain.AccountTypeImmobilisation:
			isPurchase = true
			isFixedAsset = true
		case domain.AccountTypeIncome:
			isPurchase = false
		default:
			continue
		}

		tax := base.TaxLine.Tax
		taxAccount := s.taxAccountSvc.ResolveTaxAccount(tax, move.Company, isPurchase, isFixedAsset)
		if taxAccount == nil {
			return fmt.Errorf("%w: no tax account for tax %s (company %s, purchase=%t, fixedAsset=%t)",
				apperrors.ErrConfiguration, tax.Name, move.Company.Name, isPurchase, isFixedAsset)
		}

		rate := base.TaxLine.Value
		taxAmount := base.Debit.Add(base.Credit).Mul(rate).Round(AmountScale)
		taxCurrencyAmount := base.CurrencyAmount.Mul(rate).Round(AmountScale)
		isDebit := base.Debit.Sign() > 0

		key := taxAccumKey{taxAccount.AccountID, base.TaxLine.TaxLineID}
		if existing, ok := buckets[key]; ok {
			if isDebit {
				existing.Debit = existing.Debit.Add(taxAmount)
			} else {
				existing.Credit = existing.Credit.Add(taxAmount)
			}
			existing.CurrencyAmount = existing.CurrencyAmount.Add(taxCurrencyAmount)
			continue
		}

		maxCounter++
		taxMoveLine := &domain.MoveLine{
			MoveLineID:     uuid.NewString(),
			MoveID:         move.MoveID,
			Counter:        maxCounter,
			Date:           base.Date,
			OriginDate:     base.OriginDate,
			CurrencyAmount: taxCurrencyAmount,
			CurrencyRate:   base.CurrencyRate,
			Account:        taxAccount,
			SourceTaxLine:  base.TaxLine,
			VatSystem:      s.VatSystemFor(move, base),
			TaxRate:        rate,
			TaxCode:        tax.Code,
			Origin:         base.Origin,
			Description:    base.TaxLine.Name,
		}
		if isDebit {
			taxMoveLine.Debit = taxAmount
		} else {
			taxMoveLine.Credit = taxAmount
		}
		buckets[key] = taxMoveLine
		created = append(created, taxMoveLine)
	}

	for _, line := range created {
		move.Lines = append(move.Lines, *line)
	}
	if len(created) > 0 {
		logger.Debug("Generated tax lines",
			slog.String("move", move.Reference),
			slog.Int("count", len(created)))
	}
	return nil
}

// CheckTaxMoveLines verifies tax coherence across the move: every tax on a
// taxed base line must be represented by a tax-account line, and no
// tax-account line may carry a tax no base line references. Amount coherence
// is the balance validator's job.
func (s *moveLineTaxService) CheckTaxMoveLines(move *domain.Move) error {
	baseTaxes := make(map[string]string) // taxLineID -> tax name
	taxLineTaxes := make(map[string]string)

	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Account == nil {
			continue
		}
		if line.Account.IsTaxType() {
			if line.SourceTaxLine != nil {
				taxLineTaxes[line.SourceTaxLine.TaxLineID] = line.SourceTaxLine.Name
			}
			continue
		}
		if line.TaxLine != nil && line.HasEffect() {
			baseTaxes[line.TaxLine.TaxLineID] = line.TaxLine.Name
		}
	}

	for id, name := range baseTaxes {
		if _, ok := taxLineTaxes[id]; !ok {
			return fmt.Errorf("%w: tax %s has no tax line on move %s",
				apperrors.ErrInconsistency, name, move.Reference)
		}
	}
	for id, name := range taxLineTaxes {
		if _, ok := baseTaxes[id]; !ok {
			return fmt.Errorf("%w: tax line %s matches no taxed base line on move %s",
				apperrors.ErrInconsistency, name, move.Reference)
		}
	}
	return nil
}

// VatSystemFor resolves the VAT system a generated tax line carries: the
// account's own selection when set, otherwise on-debit.
func (s *moveLineTaxService) VatSystemFor(move *domain.Move, line *domain.MoveLine) domain.VatSystem {
	if line.Account != nil && line.Account.VatSystem != domain.VatSystemDefault &&
		line.Account.VatSystem != "" {
		return line.Account.VatSystem
	}
	return domain.VatSystemOnDebit
}
