package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	"github.com/acctcore/move_accounting_app/internal/models"
	"github.com/acctcore/move_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxPartnerRepository reads partners and maintains their accounted balances.
type PgxPartnerRepository struct {
	BaseRepository
}

func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

// FindPartnerByID retrieves a partner by its ID.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	var m models.Partner
	err := r.Pool.QueryRow(ctx, `
		SELECT partner_id, seq, full_name, created_at, created_by, last_updated_at, last_updated_by
		FROM partners WHERE partner_id = $1;`, partnerID).Scan(
		&m.PartnerID, &m.Seq, &m.FullName,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, partnerID)
		}
		return nil, fmt.Errorf("%w: failed to load partner %s: %v", apperrors.ErrInternal, partnerID, err)
	}
	partner := mapping.ToDomainPartner(m)
	return &partner, nil
}

// ComputeAccountedBalances sums debit minus credit over accounted lines on
// partner-balance accounts for each partner within the company. Partners
// with no accounted lines come back at zero.
func (r *PgxPartnerRepository) ComputeAccountedBalances(ctx context.Context, partnerIDs []string, companyID string) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(partnerIDs))
	for _, id := range partnerIDs {
		balances[id] = decimal.Zero
	}
	if len(partnerIDs) == 0 {
		return balances, nil
	}

	query := `
		SELECT ml.partner_id, COALESCE(SUM(ml.debit - ml.credit), 0)
		FROM move_lines ml
		JOIN moves m ON m.move_id = ml.move_id
		JOIN accounts a ON a.account_id = ml.account_id
		WHERE ml.partner_id = ANY($1)
		  AND m.company_id = $2
		  AND m.status = $3
		  AND a.use_for_partner_balance
		GROUP BY ml.partner_id;`
	rows, err := r.Pool.Query(ctx, query, partnerIDs, companyID, string(domain.MoveStatusAccounted))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute partner balances: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()
	for rows.Next() {
		var partnerID string
		var balance decimal.Decimal
		if err := rows.Scan(&partnerID, &balance); err != nil {
			return nil, fmt.Errorf("%w: failed to scan partner balance: %v", apperrors.ErrInternal, err)
		}
		balances[partnerID] = balance
	}
	return balances, rows.Err()
}

// SavePartnerBalances upserts refreshed balances.
func (r *PgxPartnerRepository) SavePartnerBalances(ctx context.Context, balances []domain.PartnerBalance) error {
	if len(balances) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO partner_balances (partner_id, company_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (partner_id, company_id) DO UPDATE SET balance = EXCLUDED.balance;`
	for _, balance := range balances {
		if _, err := tx.Exec(ctx, query, balance.PartnerID, balance.CompanyID, balance.Balance); err != nil {
			return fmt.Errorf("%w: failed to save balance of partner %s: %v",
				apperrors.ErrInternal, balance.PartnerID, err)
		}
	}
	return r.Commit(ctx, tx)
}
