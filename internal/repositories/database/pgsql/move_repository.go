package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	"github.com/acctcore/move_accounting_app/internal/models"
	"github.com/acctcore/move_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxMoveRepository persists moves with their lines and loads them back with
// the full reference graph attached, so the posting engine validates without
// further lookups.
type PgxMoveRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

func newPgxMoveRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.MoveRepositoryFacade {
	return &PgxMoveRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.MoveRepositoryFacade = (*PgxMoveRepository)(nil)

const moveColumns = `
	move_id, reference, move_date, origin_date, currency_code,
	functional_origin, technical_origin, status,
	company_id, journal_id, period_id, partner_id,
	origin, description, accounting_date, adjusting_move, auto_year_closure_move,
	created_at, created_by, last_updated_at, last_updated_by`

const moveLineColumns = `
	move_line_id, move_id, counter, line_date, due_date, origin_date,
	debit, credit, currency_amount, currency_rate,
	account_id, partner_id, tax_line_id, source_tax_line_id, vat_system,
	fixed_asset_category_id, fixed_asset_category_name, analytic_lines,
	cut_off_start_date, cut_off_end_date, invoice_term_ids,
	description, origin,
	account_code, account_name, partner_full_name, partner_seq, tax_rate, tax_code,
	created_at, created_by, last_updated_at, last_updated_by`

// FindMoveByID loads a move with its lines, company, journal, period,
// partners, accounts and tax lines.
func (r *PgxMoveRepository) FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error) {
	var m models.Move
	err := r.Pool.QueryRow(ctx, `SELECT `+moveColumns+` FROM moves WHERE move_id = $1;`, moveID).Scan(
		&m.MoveID, &m.Reference, &m.MoveDate, &m.OriginDate, &m.CurrencyCode,
		&m.FunctionalOrigin, &m.TechnicalOrigin, &m.Status,
		&m.CompanyID, &m.JournalID, &m.PeriodID, &m.PartnerID,
		&m.Origin, &m.Description, &m.AccountingDate, &m.AdjustingMove, &m.AutoYearClosureMove,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: move %s", apperrors.ErrNotFound, moveID)
		}
		return nil, fmt.Errorf("%w: failed to load move %s: %v", apperrors.ErrInternal, moveID, err)
	}

	move := mapping.ToDomainMove(m)

	company, err := r.loadCompany(ctx, m.CompanyID)
	if err != nil {
		return nil, err
	}
	move.Company = company

	journal, err := r.loadJournal(ctx, m.JournalID)
	if err != nil {
		return nil, err
	}
	move.Journal = journal

	period, err := r.loadPeriod(ctx, m.PeriodID)
	if err != nil {
		return nil, err
	}
	move.Period = period

	lines, err := r.loadLines(ctx, moveID)
	if err != nil {
		return nil, err
	}
	move.Lines = lines

	if err := r.attachLineGraph(ctx, &move, m.PartnerID); err != nil {
		return nil, err
	}
	return &move, nil
}

// attachLineGraph resolves the account, partner and tax-line references of
// every line (and the header partner) into pointers.
func (r *PgxMoveRepository) attachLineGraph(ctx context.Context, move *domain.Move, headerPartnerID *string) error {
	accountIDs := make([]string, 0, len(move.Lines))
	partnerIDs := make([]string, 0)
	taxLineIDs := make([]string, 0)
	seenAccount := make(map[string]bool)
	seenPartner := make(map[string]bool)
	seenTaxLine := make(map[string]bool)

	addPartner := func(id string) {
		if id != "" && !seenPartner[id] {
			seenPartner[id] = true
			partnerIDs = append(partnerIDs, id)
		}
	}
	addTaxLine := func(id string) {
		if id != "" && !seenTaxLine[id] {
			seenTaxLine[id] = true
			taxLineIDs = append(taxLineIDs, id)
		}
	}

	if headerPartnerID != nil {
		addPartner(*headerPartnerID)
	}

	lineTaxRefs := make([]struct{ tax, sourceTax string }, len(move.Lines))
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.AccountID != "" && !seenAccount[line.AccountID] {
			seenAccount[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
		addPartner(line.PartnerID)
	}

	// Tax-line references come straight from the rows; re-read them here so
	// the loader stays a single query per category.
	rows, err := r.Pool.Query(ctx,
		`SELECT counter, tax_line_id, source_tax_line_id FROM move_lines WHERE move_id = $1 ORDER BY counter;`,
		move.MoveID)
	if err != nil {
		return fmt.Errorf("%w: failed to load tax refs of move %s: %v", apperrors.ErrInternal, move.MoveID, err)
	}
	defer rows.Close()
	idx := 0
	for rows.Next() {
		var counter int
		var taxLineID, sourceTaxLineID *string
		if err := rows.Scan(&counter, &taxLineID, &sourceTaxLineID); err != nil {
			return fmt.Errorf("%w: failed to scan tax refs: %v", apperrors.ErrInternal, err)
		}
		if idx < len(lineTaxRefs) {
			if taxLineID != nil {
				lineTaxRefs[idx].tax = *taxLineID
				addTaxLine(*taxLineID)
			}
			if sourceTaxLineID != nil {
				lineTaxRefs[idx].sourceTax = *sourceTaxLineID
				addTaxLine(*sourceTaxLineID)
			}
		}
		idx++
	}

	accounts, err := r.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return err
	}
	partners, err := r.loadPartners(ctx, partnerIDs)
	if err != nil {
		return err
	}
	taxLines, err := r.loadTaxLines(ctx, taxLineIDs)
	if err != nil {
		return err
	}

	if headerPartnerID != nil {
		if p, ok := partners[*headerPartnerID]; ok {
			move.Partner = p
		}
	}
	for i := range move.Lines {
		line := &move.Lines[i]
		if a, ok := accounts[line.AccountID]; ok {
			account := a
			line.Account = &account
		}
		if p, ok := partners[line.PartnerID]; ok {
			line.Partner = p
		}
		if tl, ok := taxLines[lineTaxRefs[i].tax]; ok {
			line.TaxLine = tl
		}
		if tl, ok := taxLines[lineTaxRefs[i].sourceTax]; ok {
			line.SourceTaxLine = tl
		}
	}
	return nil
}

func (r *PgxMoveRepository) loadLines(ctx context.Context, moveID string) ([]domain.MoveLine, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+moveLineColumns+` FROM move_lines WHERE move_id = $1 ORDER BY counter;`, moveID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load lines of move %s: %v", apperrors.ErrInternal, moveID, err)
	}
	defer rows.Close()

	var lines []domain.MoveLine
	for rows.Next() {
		var m models.MoveLine
		err := rows.Scan(
			&m.MoveLineID, &m.MoveID, &m.Counter, &m.LineDate, &m.DueDate, &m.OriginDate,
			&m.Debit, &m.Credit, &m.CurrencyAmount, &m.CurrencyRate,
			&m.AccountID, &m.PartnerID, &m.TaxLineID, &m.SourceTaxLineID, &m.VatSystem,
			&m.FixedAssetCategoryID, &m.FixedAssetCategoryName, &m.AnalyticLines,
			&m.CutOffStartDate, &m.CutOffEndDate, &m.InvoiceTermIDs,
			&m.Description, &m.Origin,
			&m.AccountCode, &m.AccountName, &m.PartnerFullName, &m.PartnerSeq, &m.TaxRate, &m.TaxCode,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan move line: %v", apperrors.ErrInternal, err)
		}
		line, err := mapping.ToDomainMoveLine(m)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to map move line %s: %v", apperrors.ErrInternal, m.MoveLineID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating move lines: %v", apperrors.ErrInternal, err)
	}
	return lines, nil
}

func (r *PgxMoveRepository) loadCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	var m models.Company
	err := r.Pool.QueryRow(ctx, `
		SELECT company_id, name, currency_code, timezone, accounting_daybook, manage_cut_off_period,
			created_at, created_by, last_updated_at, last_updated_by
		FROM companies WHERE company_id = $1;`, companyID).Scan(
		&m.CompanyID, &m.Name, &m.CurrencyCode, &m.Timezone, &m.AccountingDaybook, &m.ManageCutOffPeriod,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
		}
		return nil, fmt.Errorf("%w: failed to load company %s: %v", apperrors.ErrInternal, companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

func (r *PgxMoveRepository) loadJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	var m models.Journal
	err := r.Pool.QueryRow(ctx, `
		SELECT journal_id, code, name, journal_type, active, authorized_functional_origins,
			allow_accounting_daybook, created_at, created_by, last_updated_at, last_updated_by
		FROM journals WHERE journal_id = $1;`, journalID).Scan(
		&m.JournalID, &m.Code, &m.Name, &m.JournalType, &m.Active, &m.AuthorizedFunctionalOrigins,
		&m.AllowAccountingDaybook, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("%w: failed to load journal %s: %v", apperrors.ErrInternal, journalID, err)
	}
	journal := mapping.ToDomainJournal(m)
	return &journal, nil
}

func (r *PgxMoveRepository) loadPeriod(ctx context.Context, periodID string) (*domain.Period, error) {
	var m models.Period
	err := r.Pool.QueryRow(ctx, `
		SELECT period_id, code, status, start_date, end_date, closed_journal_ids, authorized_user_ids,
			created_at, created_by, last_updated_at, last_updated_by
		FROM periods WHERE period_id = $1;`, periodID).Scan(
		&m.PeriodID, &m.Code, &m.Status, &m.StartDate, &m.EndDate, &m.ClosedJournalIDs, &m.AuthorizedUserIDs,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
		}
		return nil, fmt.Errorf("%w: failed to load period %s: %v", apperrors.ErrInternal, periodID, err)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxMoveRepository) loadPartners(ctx context.Context, partnerIDs []string) (map[string]*domain.Partner, error) {
	partners := make(map[string]*domain.Partner, len(partnerIDs))
	if len(partnerIDs) == 0 {
		return partners, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT partner_id, seq, full_name, created_at, created_by, last_updated_at, last_updated_by
		FROM partners WHERE partner_id = ANY($1);`, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load partners: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.Partner
		if err := rows.Scan(&m.PartnerID, &m.Seq, &m.FullName,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("%w: failed to scan partner: %v", apperrors.ErrInternal, err)
		}
		partner := mapping.ToDomainPartner(m)
		partners[m.PartnerID] = &partner
	}
	return partners, rows.Err()
}

func (r *PgxMoveRepository) loadTaxLines(ctx context.Context, taxLineIDs []string) (map[string]*domain.TaxLine, error) {
	taxLines := make(map[string]*domain.TaxLine, len(taxLineIDs))
	if len(taxLineIDs) == 0 {
		return taxLines, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT tl.tax_line_id, tl.tax_id, t.code, t.name, tl.name, tl.value
		FROM tax_lines tl JOIN taxes t ON t.tax_id = tl.tax_id
		WHERE tl.tax_line_id = ANY($1);`, taxLineIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load tax lines: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.TaxLine
		if err := rows.Scan(&m.TaxLineID, &m.TaxID, &m.TaxCode, &m.TaxName, &m.Name, &m.Value); err != nil {
			return nil, fmt.Errorf("%w: failed to scan tax line: %v", apperrors.ErrInternal, err)
		}
		taxLine := mapping.ToDomainTaxLine(m)
		taxLines[m.TaxLineID] = &taxLine
	}
	return taxLines, rows.Err()
}

// FindMoveReferences returns the references of the given moves.
func (r *PgxMoveRepository) FindMoveReferences(ctx context.Context, moveIDs []string) (map[string]string, error) {
	references := make(map[string]string, len(moveIDs))
	if len(moveIDs) == 0 {
		return references, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT move_id, reference FROM moves WHERE move_id = ANY($1);`, moveIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load move references: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()
	for rows.Next() {
		var moveID, reference string
		if err := rows.Scan(&moveID, &reference); err != nil {
			return nil, fmt.Errorf("%w: failed to scan move reference: %v", apperrors.ErrInternal, err)
		}
		references[moveID] = reference
	}
	return references, rows.Err()
}

// SaveMove upserts the move header and replaces its lines.
func (r *PgxMoveRepository) SaveMove(ctx context.Context, move *domain.Move) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.saveMoveInTx(ctx, tx, move); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveMovePosted commits the move header, its lines and the partner balance
// deltas in one database transaction: posting is atomic or not at all.
func (r *PgxMoveRepository) SaveMovePosted(ctx context.Context, move *domain.Move, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.saveMoveInTx(ctx, tx, move); err != nil {
		return err
	}

	if len(balanceChanges) > 0 && move.Company != nil {
		balanceQuery := `
			INSERT INTO partner_balances (partner_id, company_id, balance)
			VALUES ($1, $2, $3)
			ON CONFLICT (partner_id, company_id)
			DO UPDATE SET balance = partner_balances.balance + EXCLUDED.balance;`
		for partnerID, delta := range balanceChanges {
			if _, err := tx.Exec(ctx, balanceQuery, partnerID, move.Company.CompanyID, delta); err != nil {
				return fmt.Errorf("%w: failed to update balance of partner %s: %v",
					apperrors.ErrInternal, partnerID, err)
			}
		}
	}
	return r.Commit(ctx, tx)
}

func (r *PgxMoveRepository) saveMoveInTx(ctx context.Context, tx pgx.Tx, move *domain.Move) error {
	now := time.Now()
	if move.CreatedAt.IsZero() {
		move.CreatedAt = now
		move.CreatedBy = move.LastUpdatedBy
	}
	move.LastUpdatedAt = now

	modelMove := mapping.ToModelMove(*move)
	moveQuery := `
		INSERT INTO moves (` + moveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (move_id) DO UPDATE SET
			reference = EXCLUDED.reference,
			move_date = EXCLUDED.move_date,
			origin_date = EXCLUDED.origin_date,
			currency_code = EXCLUDED.currency_code,
			functional_origin = EXCLUDED.functional_origin,
			technical_origin = EXCLUDED.technical_origin,
			status = EXCLUDED.status,
			company_id = EXCLUDED.company_id,
			journal_id = EXCLUDED.journal_id,
			period_id = EXCLUDED.period_id,
			partner_id = EXCLUDED.partner_id,
			origin = EXCLUDED.origin,
			description = EXCLUDED.description,
			accounting_date = EXCLUDED.accounting_date,
			adjusting_move = EXCLUDED.adjusting_move,
			auto_year_closure_move = EXCLUDED.auto_year_closure_move,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`
	_, err := tx.Exec(ctx, moveQuery,
		modelMove.MoveID, modelMove.Reference, modelMove.MoveDate, modelMove.OriginDate, modelMove.CurrencyCode,
		modelMove.FunctionalOrigin, modelMove.TechnicalOrigin, modelMove.Status,
		modelMove.CompanyID, modelMove.JournalID, modelMove.PeriodID, modelMove.PartnerID,
		modelMove.Origin, modelMove.Description, modelMove.AccountingDate, modelMove.AdjustingMove, modelMove.AutoYearClosureMove,
		modelMove.CreatedAt, modelMove.CreatedBy, modelMove.LastUpdatedAt, modelMove.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save move %s: %v", apperrors.ErrInternal, move.MoveID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM move_lines WHERE move_id = $1;`, move.MoveID); err != nil {
		return fmt.Errorf("%w: failed to clear lines of move %s: %v", apperrors.ErrInternal, move.MoveID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO move_lines (` + moveLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33);`
	for i := range move.Lines {
		modelLine, err := mapping.ToModelMoveLine(move.Lines[i])
		if err != nil {
			return fmt.Errorf("%w: failed to map line %d of move %s: %v",
				apperrors.ErrInternal, move.Lines[i].Counter, move.MoveID, err)
		}
		modelLine.CreatedAt = move.CreatedAt
		modelLine.CreatedBy = move.CreatedBy
		modelLine.LastUpdatedAt = now
		modelLine.LastUpdatedBy = move.LastUpdatedBy

		batch.Queue(lineQuery,
			modelLine.MoveLineID, modelLine.MoveID, modelLine.Counter, modelLine.LineDate, modelLine.DueDate, modelLine.OriginDate,
			modelLine.Debit, modelLine.Credit, modelLine.CurrencyAmount, modelLine.CurrencyRate,
			modelLine.AccountID, modelLine.PartnerID, modelLine.TaxLineID, modelLine.SourceTaxLineID, modelLine.VatSystem,
			modelLine.FixedAssetCategoryID, modelLine.FixedAssetCategoryName, modelLine.AnalyticLines,
			modelLine.CutOffStartDate, modelLine.CutOffEndDate, modelLine.InvoiceTermIDs,
			modelLine.Description, modelLine.Origin,
			modelLine.AccountCode, modelLine.AccountName, modelLine.PartnerFullName, modelLine.PartnerSeq,
			modelLine.TaxRate, modelLine.TaxCode,
			modelLine.CreatedAt, modelLine.CreatedBy, modelLine.LastUpdatedAt, modelLine.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range move.Lines {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("%w: failed to insert lines of move %s: %v", apperrors.ErrInternal, move.MoveID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("%w: failed to flush line batch of move %s: %v", apperrors.ErrInternal, move.MoveID, err)
	}
	return nil
}

// UpdateMoveStatus updates only the status and audit columns.
func (r *PgxMoveRepository) UpdateMoveStatus(ctx context.Context, moveID string, status domain.MoveStatus, updatedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE moves SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE move_id = $4;`,
		string(status), time.Now(), updatedBy, moveID)
	if err != nil {
		return fmt.Errorf("%w: failed to update status of move %s: %v", apperrors.ErrInternal, moveID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: move %s", apperrors.ErrNotFound, moveID)
	}
	return nil
}
