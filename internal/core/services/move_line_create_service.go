package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/acctcore/move_accounting_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// moveLineCreateService is the ledger line factory and the invoice
// materialization pipeline: product lines, tax split lines, invoice term
// lines, reconciled to the cent.
type moveLineCreateService struct {
	currencySvc       portssvc.CurrencySvc
	fiscalPositionSvc portssvc.FiscalPositionSvc
	taxAccountSvc     portssvc.TaxAccountSvc
	analyticSvc       portssvc.AnalyticSvc
}

// NewMoveLineCreateService creates the move line factory.
func NewMoveLineCreateService(
	currencySvc portssvc.CurrencySvc,
	fiscalPositionSvc portssvc.FiscalPositionSvc,
	taxAccountSvc portssvc.TaxAccountSvc,
	analyticSvc portssvc.AnalyticSvc,
) portssvc.MoveLineCreateSvc {
	return &moveLineCreateService{
		currencySvc:       currencySvc,
		fiscalPositionSvc: fiscalPositionSvc,
		taxAccountSvc:     taxAccountSvc,
		analyticSvc:       analyticSvc,
	}
}

var _ portssvc.MoveLineCreateSvc = (*moveLineCreateService)(nil)

// CreateMoveLine builds one balanced line. When no company amount is given
// the currency amount is converted at the line date; when no rate is given
// it is derived as companyAmount/currencyAmount at 5 digits half-up.
func (s *moveLineCreateService) CreateMoveLine(ctx context.Context, move *domain.Move, in portssvc.MoveLineInput) (domain.MoveLine, error) {
	account := in.Account
	if in.Partner != nil {
		fiscalPosition := move.FiscalPositionInEffect(in.Partner)
		account = s.fiscalPositionSvc.ResolveAccount(fiscalPosition, account)
	}

	currencyAmount := in.CurrencyAmount.Abs()
	companyAmount := in.CompanyAmount
	rate := in.Rate

	if rate == nil && companyAmount.IsZero() && !currencyAmount.IsZero() {
		companyCurrency := move.Company.CurrencyCode
		r, err := s.currencySvc.ConversionRate(ctx, move.CurrencyCode, companyCurrency, in.Date)
		if err != nil {
			return domain.MoveLine{}, err
		}
		companyAmount = s.currencySvc.Convert(in.CurrencyAmount, r)
		rate = &r
	}

	isDebit := in.IsDebit
	if companyAmount.Sign() < 0 {
		isDebit = !isDebit
		companyAmount = companyAmount.Neg()
	}

	debit := decimal.Zero
	credit := decimal.Zero
	if isDebit {
		debit = companyAmount
	} else {
		credit = companyAmount
	}

	var currencyRate decimal.Decimal
	if rate != nil {
		currencyRate = rate.Round(RateScale)
	} else if currencyAmount.IsZero() {
		currencyRate = decimal.NewFromInt(1)
	} else {
		currencyRate = companyAmount.DivRound(currencyAmount, RateScale)
	}

	originDate := in.OriginDate
	if originDate == nil {
		d := in.Date
		originDate = &d
	}

	// A partner entry on an account that does not track partner balances
	// would corrupt the partner ledger; drop the reference.
	partner := in.Partner
	if account == nil || !account.UseForPartnerBalance {
		partner = nil
	}

	line := domain.MoveLine{
		MoveLineID:     uuid.NewString(),
		MoveID:         move.MoveID,
		Counter:        in.Counter,
		Date:           in.Date,
		DueDate:        in.DueDate,
		OriginDate:     originDate,
		Debit:          debit,
		Credit:         credit,
		CurrencyAmount: currencyAmount,
		CurrencyRate:   currencyRate,
		Account:        account,
		Partner:        partner,
		VatSystem:      domain.VatSystemDefault,
		Description:    utils.CutTooLongString(lineDescription(in.Origin, in.Description)),
		Origin:         in.Origin,
	}
	return line, nil
}

// CreateMoveLines materializes the full balanced line set of an invoice.
func (s *moveLineCreateService) CreateMoveLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move) ([]domain.MoveLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Debug("Creating move lines from invoice", slog.String("invoice", invoice.InvoiceNumber))

	if invoice.Partner == nil {
		return nil, fmt.Errorf("%w: invoice %s has no partner", apperrors.ErrMissingField, invoice.InvoiceNumber)
	}
	if invoice.PartnerAccount == nil {
		return nil, fmt.Errorf("%w: invoice %s has no partner account", apperrors.ErrMissingField, invoice.InvoiceNumber)
	}

	origin := invoice.Origin()
	isDebitCustomer := !invoice.IsPurchase()
	counter := 1
	var lines []domain.MoveLine

	for i := range invoice.Lines {
		invoiceLine := &invoice.Lines[i]
		if invoiceLine.CompanyExTaxTotal.IsZero() {
			continue
		}

		account := invoiceLine.Account
		if account == nil {
			return nil, fmt.Errorf("%w: no account on invoice line %q (company %s)",
				apperrors.ErrConfiguration, invoiceLine.ProductName, move.Company.Name)
		}
		if account.AnalyticDistributionAuthorized && account.AnalyticDistributionRequired &&
			invoiceLine.DistributionTemplate == nil && len(invoiceLine.AnalyticLines) == 0 {
			return nil, fmt.Errorf("%w: analytic distribution on invoice line %q (company %s)",
				apperrors.ErrMissingField, invoiceLine.ProductName, move.Company.Name)
		}

		line, err := s.CreateMoveLine(ctx, move, portssvc.MoveLineInput{
			Partner:        invoice.Partner,
			Account:        account,
			CurrencyAmount: invoiceLine.ExTaxTotal,
			CompanyAmount:  invoiceLine.CompanyExTaxTotal,
			IsDebit:        !isDebitCustomer,
			Date:           invoice.Date,
			OriginDate:     invoice.OriginDate,
			Counter:        counter,
			Origin:         origin,
			Description:    invoiceLine.ProductName,
		})
		if err != nil {
			return nil, err
		}
		counter++

		line.DistributionTemplate = invoiceLine.DistributionTemplate
		if len(invoiceLine.AnalyticLines) > 0 {
			base := line.Debit.Add(line.Credit)
			for _, allocation := range invoiceLine.AnalyticLines {
				line.AnalyticLines = append(line.AnalyticLines,
					s.analyticSvc.RecomputeLine(allocation, base, line.Date))
			}
		} else {
			line.AnalyticLines = s.analyticSvc.GenerateLines(&line)
		}

		if taxLine := invoiceLine.TaxLine; taxLine != nil {
			line.TaxLine = taxLine
			line.TaxRate = taxLine.Value
			if taxLine.Tax != nil {
				line.TaxCode = taxLine.Tax.Code
			}
		}

		if account.ManageCutOffPeriod {
			line.CutOffStartDate = invoiceLine.CutOffStartDate
			line.CutOffEndDate = invoiceLine.CutOffEndDate
		}

		lines = append(lines, line)
	}

	taxLines, err := s.CreateTaxSplitLines(ctx, invoice, move, counter)
	if err != nil {
		return nil, err
	}
	lines = append(lines, taxLines...)
	counter += len(taxLines)

	// The target the term lines must settle: the dominant-side total of what
	// has been generated so far.
	total := decimal.Zero
	for i := range lines {
		if lines[i].Credit.Sign() > 0 {
			total = total.Add(lines[i].Credit)
		} else {
			total = total.Add(lines[i].Debit)
		}
	}

	termLines, err := s.CreateInvoiceTermLines(ctx, invoice, move, counter, total)
	if err != nil {
		return nil, err
	}
	lines = append(lines, termLines...)

	return lines, nil
}

// CreateTaxSplitLines expands each non-zero aggregate tax into posting
// lines, one per non-zero sub-total (fixed-asset vs other).
func (s *moveLineCreateService) CreateTaxSplitLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move, counter int) ([]domain.MoveLine, error) {
	isDebitCustomer := !invoice.IsPurchase()
	origin := invoice.Origin()
	var lines []domain.MoveLine

	for i := range invoice.TaxTotals {
		invoiceTax := &invoice.TaxTotals[i]
		if invoiceTax.CompanyTaxTotal.IsZero() || invoiceTax.TaxLine == nil {
			continue
		}
		tax := invoiceTax.TaxLine.Tax
		if tax == nil {
			return nil, fmt.Errorf("%w: tax line %s carries no tax", apperrors.ErrConfiguration, invoiceTax.TaxLine.Name)
		}

		type subTotal struct {
			amount        decimal.Decimal
			companyAmount decimal.Decimal
			isFixedAsset  bool
		}
		splits := []subTotal{
			{invoiceTax.SubTotalOfFixedAssets, invoiceTax.CompanySubTotalOfFixedAssets, true},
			{invoiceTax.SubTotalExcludingFixedAssets, invoiceTax.CompanySubTotalExcludingFixedAssets, false},
		}

		for _, split := range splits {
			if split.amount.IsZero() || split.companyAmount.IsZero() {
				continue
			}
			account := s.taxAccountSvc.ResolveTaxAccount(tax, move.Company, invoice.IsPurchase(), split.isFixedAsset)
			if account == nil {
				return nil, fmt.Errorf("%w: no tax account for tax %s (company %s, purchase=%t, fixedAsset=%t)",
					apperrors.ErrConfiguration, tax.Name, move.Company.Name, invoice.IsPurchase(), split.isFixedAsset)
			}

			line, err := s.CreateMoveLine(ctx, move, portssvc.MoveLineInput{
				Partner:        invoice.Partner,
				Account:        account,
				CurrencyAmount: split.amount,
				CompanyAmount:  split.companyAmount,
				IsDebit:        !isDebitCustomer,
				Date:           invoice.Date,
				OriginDate:     invoice.OriginDate,
				Counter:        counter,
				Origin:         origin,
			})
			if err != nil {
				return nil, err
			}
			counter++

			line.TaxLine = invoiceTax.TaxLine
			line.TaxRate = invoiceTax.TaxLine.Value
			line.TaxCode = tax.Code
			line.VatSystem = invoiceTax.VatSystem
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// CreateInvoiceTermLines expands payment terms. Hold-back terms each get
// their own line on the hold-back account; the others accumulate into a
// single partner line which then absorbs the rounding difference.
func (s *moveLineCreateService) CreateInvoiceTermLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move, counter int, totalToMatch decimal.Decimal) ([]domain.MoveLine, error) {
	if len(invoice.Terms) == 0 {
		return nil, nil
	}

	companyCurrency := move.Company.CurrencyCode
	isDebitCustomer := !invoice.IsPurchase()
	origin := invoice.Origin()
	latestDueDate := invoice.LatestTermDueDate()

	rate, err := s.currencySvc.ConversionRate(ctx, invoice.CurrencyCode, companyCurrency, invoice.Date)
	if err != nil {
		return nil, err
	}

	var lines []domain.MoveLine
	accumIdx := -1

	for i := range invoice.Terms {
		term := &invoice.Terms[i]

		if term.IsHoldBack {
			if invoice.HoldBackAccount == nil {
				return nil, fmt.Errorf("%w: no hold-back account on invoice %s",
					apperrors.ErrConfiguration, invoice.InvoiceNumber)
			}
			dueDate := term.DueDate
			line, err := s.CreateMoveLine(ctx, move, portssvc.MoveLineInput{
				Partner:        invoice.Partner,
				Account:        invoice.HoldBackAccount,
				CurrencyAmount: term.Amount,
				CompanyAmount:  s.currencySvc.Convert(term.Amount, rate),
				Rate:           &rate,
				IsDebit:        isDebitCustomer,
				Date:           invoice.Date,
				DueDate:        &dueDate,
				OriginDate:     invoice.OriginDate,
				Counter:        counter,
				Origin:         origin,
			})
			if err != nil {
				return nil, err
			}
			counter++
			line.InvoiceTermIDs = append(line.InvoiceTermIDs, term.InvoiceTermID)
			lines = append(lines, line)
			continue
		}

		if accumIdx < 0 {
			dueDate := latestDueDate
			line, err := s.CreateMoveLine(ctx, move, portssvc.MoveLineInput{
				Partner:        invoice.Partner,
				Account:        invoice.PartnerAccount,
				CurrencyAmount: term.Amount,
				CompanyAmount:  s.currencySvc.Convert(term.Amount, rate),
				Rate:           &rate,
				IsDebit:        isDebitCustomer,
				Date:           invoice.Date,
				DueDate:        &dueDate,
				OriginDate:     invoice.OriginDate,
				Counter:        counter,
				Origin:         origin,
			})
			if err != nil {
				return nil, err
			}
			counter++
			lines = append(lines, line)
			accumIdx = len(lines) - 1
			continue
		}

		accum := &lines[accumIdx]
		converted := s.currencySvc.Convert(term.Amount, rate)
		if accum.Debit.Sign() != 0 {
			accum.Debit = accum.Debit.Add(converted)
		} else {
			accum.Credit = accum.Credit.Add(converted)
		}
		accum.CurrencyAmount = accum.CurrencyAmount.Add(term.Amount)
	}

	if accumIdx >= 0 {
		accum := &lines[accumIdx]
		for i := range invoice.Terms {
			if !invoice.Terms[i].IsHoldBack {
				accum.InvoiceTermIDs = append(accum.InvoiceTermIDs, invoice.Terms[i].InvoiceTermID)
			}
		}
		reconcileRounding(lines, accumIdx, totalToMatch)
	}

	return lines, nil
}

// reconcileRounding adjusts the accumulation line so the dominant-side total
// of the produced lines matches the target exactly. The dominant side is the
// first non-zero side encountered.
func reconcileRounding(lines []domain.MoveLine, adjustIdx int, totalToMatch decimal.Decimal) {
	total := decimal.Zero
	isCredit := true
	decided := false
	for i := range lines {
		if lines[i].Credit.Sign() > 0 {
			if !decided {
				isCredit = true
				decided = true
			}
			total = total.Add(lines[i].Credit)
		} else {
			if !decided && lines[i].Debit.Sign() > 0 {
				isCredit = false
				decided = true
			}
			total = total.Add(lines[i].Debit)
		}
	}

	difference := total.Sub(totalToMatch)
	if difference.IsZero() {
		return
	}
	if isCredit {
		lines[adjustIdx].Credit = lines[adjustIdx].Credit.Sub(difference)
	} else {
		lines[adjustIdx].Debit = lines[adjustIdx].Debit.Sub(difference)
	}
}

// lineDescription picks the line description, falling back to the origin
// label when none was given.
func lineDescription(origin, description string) string {
	if description == "" {
		return origin
	}
	return description
}
