package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// moveValidateService gates, transitions and persists moves. It is the one
// place where the precondition chain, the balance check, the status machine
// and the posting side effects meet.
type moveValidateService struct {
	moveRepo           portsrepo.MoveRepositoryFacade
	sequenceSvc        portssvc.SequenceSvc
	periodAuthSvc      portssvc.PeriodAuthSvc
	customerBalanceSvc portssvc.CustomerBalanceSvc
	fixedAssetSvc      portssvc.FixedAssetSvc
	moveLineTaxSvc     portssvc.MoveLineTaxSvc
}

// NewMoveValidateService creates the move posting service.
func NewMoveValidateService(
	moveRepo portsrepo.MoveRepositoryFacade,
	sequenceSvc portssvc.SequenceSvc,
	periodAuthSvc portssvc.PeriodAuthSvc,
	customerBalanceSvc portssvc.CustomerBalanceSvc,
	fixedAssetSvc portssvc.FixedAssetSvc,
	moveLineTaxSvc portssvc.MoveLineTaxSvc,
) portssvc.MoveSvcFacade {
	return &moveValidateService{
		moveRepo:           moveRepo,
		sequenceSvc:        sequenceSvc,
		periodAuthSvc:      periodAuthSvc,
		customerBalanceSvc: customerBalanceSvc,
		fixedAssetSvc:      fixedAssetSvc,
		moveLineTaxSvc:     moveLineTaxSvc,
	}
}

var _ portssvc.MoveSvcFacade = (*moveValidateService)(nil)

// CheckPreconditions runs the precondition chain in its fixed order and
// fails on the first violated rule.
func (s *moveValidateService) CheckPreconditions(ctx context.Context, move *domain.Move, actorID string) error {
	if move.Company == nil {
		return fmt.Errorf("%w: no company on move %s", apperrors.ErrConfiguration, move.Reference)
	}
	if move.Journal == nil {
		return fmt.Errorf("%w: no journal on move %s", apperrors.ErrConfiguration, move.Reference)
	}
	if move.Period == nil {
		return fmt.Errorf("%w: no period on move %s", apperrors.ErrConfiguration, move.Reference)
	}
	if move.Period.IsJournalClosed(move.Journal.JournalID) {
		return fmt.Errorf("%w: journal %s is closed for period %s",
			apperrors.ErrConfiguration, move.Journal.Code, move.Period.Code)
	}
	if len(move.Lines) == 0 {
		return fmt.Errorf("%w: move %s has no lines", apperrors.ErrInconsistency, move.Reference)
	}
	if move.CurrencyCode == "" {
		return fmt.Errorf("%w: no currency on move %s", apperrors.ErrConfiguration, move.Reference)
	}

	if move.Company.Config.ManageCutOffPeriod && move.TechnicalOrigin != domain.TechnicalOriginAutomatic {
		if err := s.checkCutOffDates(move); err != nil {
			return err
		}
	}

	hasEffect := false
	for i := range move.Lines {
		if move.Lines[i].HasEffect() {
			hasEffect = true
			break
		}
	}
	if !hasEffect {
		return fmt.Errorf("%w: move %s carries only zero lines", apperrors.ErrInconsistency, move.Reference)
	}

	if move.Period.Status != domain.PeriodStatusOpen &&
		!s.periodAuthSvc.IsPeriodOpenFor(move.Period, actorID) {
		return fmt.Errorf("%w: period %s is closed for accounting",
			apperrors.ErrConfiguration, move.Period.Code)
	}

	if err := s.checkInactiveEntities(move); err != nil {
		return err
	}
	if err := s.checkVatSystemConsistency(move); err != nil {
		return err
	}

	if move.FunctionalOrigin == "" {
		return fmt.Errorf("%w: no functional origin on move %s", apperrors.ErrMissingField, move.Reference)
	}
	if !move.Journal.AuthorizesFunctionalOrigin(move.FunctionalOrigin) {
		return fmt.Errorf("%w: functional origin %s is not authorized on journal %s",
			apperrors.ErrConfiguration, move.FunctionalOrigin, move.Journal.Code)
	}

	if move.IsOpeningOrClosure() {
		return nil
	}

	for i := range move.Lines {
		line := &move.Lines[i]
		account := line.Account

		if account != nil && account.TaxAuthorized && account.TaxRequired &&
			line.TaxLine == nil && line.HasEffect() {
			return fmt.Errorf("%w: a tax is required on account %s (%s), line %s",
				apperrors.ErrMissingField, account.Code, account.Name, line.Name())
		}
		if account != nil && account.AnalyticDistributionAuthorized &&
			account.AnalyticDistributionRequired && !line.HasAnalyticDistribution() {
			return fmt.Errorf("%w: an analytic distribution is required on account %s (%s), line %s",
				apperrors.ErrMissingField, account.Code, account.Name, line.Name())
		}
		if account != nil && !account.AnalyticDistributionAuthorized && line.HasAnalyticDistribution() {
			return fmt.Errorf("%w: account %s (%s) does not authorize analytic distribution, line %s",
				apperrors.ErrConfiguration, account.Code, account.Name, line.Name())
		}
		if err := validateMoveLine(line); err != nil {
			return err
		}
	}

	if err := s.moveLineTaxSvc.CheckTaxMoveLines(move); err != nil {
		return err
	}
	return s.ValidateBalanced(move)
}

// checkCutOffDates requires a complete, ordered cut-off window on every line
// whose account manages cut-off.
func (s *moveValidateService) checkCutOffDates(move *domain.Move) error {
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Account == nil || !line.Account.ManageCutOffPeriod {
			continue
		}
		if line.CutOffStartDate == nil || line.CutOffEndDate == nil {
			return fmt.Errorf("%w: cut-off dates on line %s", apperrors.ErrMissingField, line.Name())
		}
		if line.CutOffEndDate.Before(*line.CutOffStartDate) {
			return fmt.Errorf("%w: cut-off window on line %s ends before it starts",
				apperrors.ErrInconsistency, line.Name())
		}
	}
	return nil
}

// checkInactiveEntities collects inactive referenced entities per category
// and fails with one joined message per category.
func (s *moveValidateService) checkInactiveEntities(move *domain.Move) error {
	var analyticAccounts, analyticJournals, accounts []string
	seen := make(map[string]bool)

	for i := range move.Lines {
		line := &move.Lines[i]
		for j := range line.AnalyticLines {
			allocation := &line.AnalyticLines[j]
			if aa := allocation.AnalyticAccount; aa != nil && !aa.Active && !seen["aa:"+aa.Code] {
				seen["aa:"+aa.Code] = true
				analyticAccounts = append(analyticAccounts, aa.Code)
			}
			if aj := allocation.AnalyticJournal; aj != nil && !aj.Active && !seen["aj:"+aj.Name] {
				seen["aj:"+aj.Name] = true
				analyticJournals = append(analyticJournals, aj.Name)
			}
		}
		if a := line.Account; a != nil && !a.Active && !seen["a:"+a.Code] {
			seen["a:"+a.Code] = true
			accounts = append(accounts, a.Code)
		}
	}

	if err := inactiveError("analytic account", "analytic accounts", analyticAccounts); err != nil {
		return err
	}
	if err := inactiveError("analytic journal", "analytic journals", analyticJournals); err != nil {
		return err
	}
	if err := inactiveError("account", "accounts", accounts); err != nil {
		return err
	}
	if !move.Journal.Active {
		return fmt.Errorf("%w: the journal %s is inactive", apperrors.ErrConfiguration, move.Journal.Code)
	}
	return nil
}

func inactiveError(singular, plural string, names []string) error {
	switch len(names) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: the %s %s is inactive", apperrors.ErrConfiguration, singular, names[0])
	default:
		return fmt.Errorf("%w: the %s %s are inactive",
			apperrors.ErrConfiguration, plural, strings.Join(names, ", "))
	}
}

// checkVatSystemConsistency applies to sale and expense journals: once any
// taxed base line sits on an account with a concrete VAT system, tax-type
// lines may no longer carry the default sentinel.
func (s *moveValidateService) checkVatSystemConsistency(move *domain.Move) error {
	journalType := move.Journal.Type
	if journalType != domain.JournalTypeSale && journalType != domain.JournalTypeExpense {
		return nil
	}

	configured := false
	issue := false
	for i := range move.Lines {
		line := &move.Lines[i]
		account := line.Account
		if account == nil {
			continue
		}
		if !account.IsTaxType() && account.TaxAuthorized && line.TaxLine != nil &&
			account.VatSystem != domain.VatSystemDefault && account.VatSystem != "" {
			configured = true
		}
		if account.IsTaxType() &&
			(line.VatSystem == domain.VatSystemDefault || line.VatSystem == "") {
			issue = true
		}
	}
	if configured && issue {
		return fmt.Errorf("%w: VAT system is not set on the tax lines of move %s",
			apperrors.ErrConfiguration, move.Reference)
	}
	return nil
}

// validateMoveLine is the structural per-line check.
func validateMoveLine(line *domain.MoveLine) error {
	if line.Account == nil {
		return fmt.Errorf("%w: no account on line %s", apperrors.ErrMissingField, line.Name())
	}
	if line.Date.IsZero() {
		return fmt.Errorf("%w: no date on line %s", apperrors.ErrMissingField, line.Name())
	}
	if line.Debit.Sign() < 0 || line.Credit.Sign() < 0 {
		return fmt.Errorf("%w: negative amount on line %s", apperrors.ErrInconsistency, line.Name())
	}
	return nil
}

// ValidateBalanced confirms total debit equals total credit exactly. No
// epsilon: the rounding reconciler guarantees exactness by construction.
func (s *moveValidateService) ValidateBalanced(move *domain.Move) error {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Debit.Sign() > 0 && line.Credit.Sign() > 0 {
			return fmt.Errorf("%w: line %s carries both debit and credit",
				apperrors.ErrInconsistency, line.Name())
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: move %s is unbalanced (debit %s, credit %s)",
			apperrors.ErrInconsistency, move.Reference, totalDebit.String(), totalCredit.String())
	}
	return nil
}

// CompleteMoveLines fills line defaults from the move header: dates, due
// date on partner-balance accounts, origin date, partner propagation, and
// dense 1-based counters.
func (s *moveValidateService) CompleteMoveLines(move *domain.Move) {
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Date.IsZero() {
			line.Date = move.Date
		}
		if line.DueDate == nil && line.Account != nil && line.Account.UseForPartnerBalance {
			d := move.Date
			line.DueDate = &d
		}
		if line.OriginDate == nil {
			if move.OriginDate != nil {
				line.OriginDate = move.OriginDate
			} else {
				d := line.Date
				line.OriginDate = &d
			}
		}
		if line.Partner == nil && move.Partner != nil &&
			line.Account != nil && line.Account.UseForPartnerBalance {
			line.Partner = move.Partner
		}
		line.MoveID = move.MoveID
		line.Counter = i + 1
	}
}

// FreezeFieldsOnLines stamps the denormalized account/partner/tax snapshot
// onto every line so posted entries stay readable after configuration
// changes.
func (s *moveValidateService) FreezeFieldsOnLines(move *domain.Move) {
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Account != nil {
			line.AccountID = line.Account.AccountID
			line.AccountCode = line.Account.Code
			line.AccountName = line.Account.Name
		}
		if line.Partner != nil {
			line.PartnerID = line.Partner.PartnerID
			line.PartnerFullName = line.Partner.FullName
			line.PartnerSeq = line.Partner.Seq
		}
		if line.TaxLine != nil {
			line.TaxRate = line.TaxLine.Value
			if line.TaxLine.Tax != nil {
				line.TaxCode = line.TaxLine.Tax.Code
			}
		}
	}
}

// daybookMode reports whether the provisional daybook state applies: both
// the company config and the journal must enable it.
func daybookMode(move *domain.Move) bool {
	return move.Company.Config.AccountingDaybook && move.Journal.AllowAccountingDaybook
}

// updateValidateStatus drives the posting state machine. A move already in
// daybook, a move outside daybook mode, or an automatic opening/closure move
// goes straight to accounted; everything else parks in daybook. An
// already-accounted move is left untouched: re-entering the accounted branch
// would re-stamp the accounting date and duplicate fixed-asset generation.
func (s *moveValidateService) updateValidateStatus(ctx context.Context, move *domain.Move) error {
	if move.Status == domain.MoveStatusAccounted {
		return nil
	}

	toAccounted := move.Status == domain.MoveStatusDaybook ||
		!daybookMode(move) ||
		((move.Status == domain.MoveStatusNew || move.Status == domain.MoveStatusSimulated) &&
			move.TechnicalOrigin == domain.TechnicalOriginAutomatic &&
			move.IsOpeningOrClosure())

	if !toAccounted {
		move.Status = domain.MoveStatusDaybook
		return nil
	}

	move.Status = domain.MoveStatusAccounted
	now := time.Now()
	if loc, err := time.LoadLocation(move.Company.Timezone); err == nil {
		now = now.In(loc)
	}
	accountingDate := now
	move.AccountingDate = &accountingDate

	for i := range move.Lines {
		line := &move.Lines[i]
		if line.FixedAssetCategory != nil && line.Account != nil &&
			line.Account.AccountType == domain.AccountTypeImmobilisation {
			if err := s.fixedAssetSvc.GenerateFromLine(ctx, move, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Post validates and accounts the move, updating customer balances.
func (s *moveValidateService) Post(ctx context.Context, move *domain.Move, actorID string) error {
	return s.PostWithOptions(ctx, move, actorID, true)
}

// PostWithOptions is the full single-move posting pipeline. Everything it
// changes commits in one repository transaction or not at all.
func (s *moveValidateService) PostWithOptions(ctx context.Context, move *domain.Move, actorID string, updateCustomerBalances bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Posting move",
		slog.String("move", move.MoveID),
		slog.String("reference", move.Reference))

	if move.Status == domain.MoveStatusAccounted {
		logger.Info("Move already accounted, nothing to do", slog.String("move", move.MoveID))
		return nil
	}

	if move.Period != nil && move.Period.Status == domain.PeriodStatusClosed && !move.AutoYearClosureMove {
		if daybookMode(move) {
			return fmt.Errorf("%w: move %s cannot be accounted from daybook into closed fiscal period %s",
				apperrors.ErrConfiguration, move.Reference, move.Period.Code)
		}
		return fmt.Errorf("%w: move %s cannot be accounted into closed fiscal period %s",
			apperrors.ErrConfiguration, move.Reference, move.Period.Code)
	}

	if err := s.CheckPreconditions(ctx, move, actorID); err != nil {
		return err
	}

	if !daybookMode(move) || move.Status == domain.MoveStatusDaybook {
		if err := s.sequenceSvc.AssignReference(ctx, move); err != nil {
			return err
		}
	}

	if move.Period.Status == domain.PeriodStatusAdjusting {
		move.AdjustingMove = true
	}

	s.CompleteMoveLines(move)
	s.FreezeFieldsOnLines(move)

	if err := s.updateValidateStatus(ctx, move); err != nil {
		return err
	}

	var balanceChanges map[string]decimal.Decimal
	if updateCustomerBalances && move.Status == domain.MoveStatusAccounted {
		balanceChanges = partnerBalanceDeltas(move)
	}

	move.LastUpdatedBy = actorID
	if err := s.moveRepo.SaveMovePosted(ctx, move, balanceChanges); err != nil {
		return fmt.Errorf("failed to persist posted move %s: %w", move.Reference, err)
	}

	logger.Info("Move posted",
		slog.String("move", move.MoveID),
		slog.String("reference", move.Reference),
		slog.String("status", string(move.Status)))
	return nil
}

// partnerBalanceDeltas computes the per-partner balance change this move
// contributes: debit minus credit across its partner lines.
func partnerBalanceDeltas(move *domain.Move) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal)
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Partner == nil {
			continue
		}
		deltas[line.Partner.PartnerID] = deltas[line.Partner.PartnerID].
			Add(line.Debit).Sub(line.Credit)
	}
	return deltas
}

// PostDaybook commits a move already parked in daybook: preconditions and
// freezing re-run, the sequence number is kept, and balances refresh for the
// union of partners touched before and after the update.
func (s *moveValidateService) PostDaybook(ctx context.Context, move *domain.Move, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if move.Status != domain.MoveStatusDaybook {
		return fmt.Errorf("%w: move %s is not in daybook", apperrors.ErrValidation, move.Reference)
	}

	partnerSet := make(map[string]bool)
	for _, id := range PartnersOfMove(move) {
		partnerSet[id] = true
	}

	if err := s.CheckPreconditions(ctx, move, actorID); err != nil {
		return err
	}

	s.CompleteMoveLines(move)
	s.FreezeFieldsOnLines(move)

	if err := s.updateValidateStatus(ctx, move); err != nil {
		return err
	}
	for _, id := range PartnersOfMove(move) {
		partnerSet[id] = true
	}

	// Refresh the stored baseline first: the move is still parked in the
	// database, so the recompute excludes it. Its own contribution then
	// commits as deltas in the same transaction as the status flip, so a
	// failure on either side never leaves an accounted move with stale
	// balances.
	partnerIDs := make([]string, 0, len(partnerSet))
	for id := range partnerSet {
		partnerIDs = append(partnerIDs, id)
	}
	if err := s.customerBalanceSvc.UpdateBalancesForPartners(ctx, partnerIDs, move.Company); err != nil {
		return err
	}

	move.LastUpdatedBy = actorID
	if err := s.moveRepo.SaveMovePosted(ctx, move, partnerBalanceDeltas(move)); err != nil {
		return fmt.Errorf("failed to persist posted move %s: %w", move.Reference, err)
	}

	logger.Info("Daybook move accounted", slog.String("move", move.MoveID))
	return nil
}

// PostByID loads the move fresh and posts it.
func (s *moveValidateService) PostByID(ctx context.Context, moveID string, actorID string, updateCustomerBalances bool) error {
	move, err := s.moveRepo.FindMoveByID(ctx, moveID)
	if err != nil {
		return err
	}
	return s.PostWithOptions(ctx, move, actorID, updateCustomerBalances)
}

// PostDaybookByID loads the move fresh and commits it from daybook.
func (s *moveValidateService) PostDaybookByID(ctx context.Context, moveID string, actorID string) error {
	move, err := s.moveRepo.FindMoveByID(ctx, moveID)
	if err != nil {
		return err
	}
	return s.PostDaybook(ctx, move, actorID)
}

// PostAll posts each move independently, reloading it fresh. A failure on
// one move is recorded and never aborts the batch.
func (s *moveValidateService) PostAll(ctx context.Context, moveIDs []string, actorID string) ([]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	references, err := s.moveRepo.FindMoveReferences(ctx, moveIDs)
	if err != nil {
		return nil, err
	}

	var failed []string
	for _, moveID := range moveIDs {
		reference := references[moveID]
		if reference == "" {
			reference = moveID
		}

		move, err := s.moveRepo.FindMoveByID(ctx, moveID)
		if err != nil {
			logger.Warn("Skipping move in batch",
				slog.String("move", moveID), slog.String("error", err.Error()))
			failed = append(failed, reference)
			continue
		}

		if err := s.Post(ctx, move, actorID); err != nil {
			logger.Warn("Move failed in batch",
				slog.String("move", moveID),
				slog.String("reference", move.Reference),
				slog.String("error", err.Error()))
			if move.Reference != "" {
				reference = move.Reference
			}
			failed = append(failed, reference)
		}
	}
	return failed, nil
}

// SimulateAll transitions draft moves to simulated.
func (s *moveValidateService) SimulateAll(ctx context.Context, moveIDs []string, actorID string) error {
	for _, moveID := range moveIDs {
		move, err := s.moveRepo.FindMoveByID(ctx, moveID)
		if err != nil {
			return err
		}
		if move.Status != domain.MoveStatusNew {
			return fmt.Errorf("%w: move %s is not a draft", apperrors.ErrValidation, move.Reference)
		}
		if err := s.moveRepo.UpdateMoveStatus(ctx, moveID, domain.MoveStatusSimulated, actorID); err != nil {
			return err
		}
	}
	return nil
}
