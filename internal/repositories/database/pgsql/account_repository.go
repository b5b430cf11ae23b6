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
)

// PgxAccountRepository reads the chart-of-accounts slice the posting engine
// needs. The chart is maintained elsewhere.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, code, name, account_type, active, use_for_partner_balance,
	tax_authorized, tax_required,
	analytic_distribution_authorized, analytic_distribution_required, manage_cut_off_period,
	vat_system, created_at, created_by, last_updated_at, last_updated_by`

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var m models.Account
	err := r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID).Scan(
		&m.AccountID, &m.Code, &m.Name, &m.AccountType, &m.Active, &m.UseForPartnerBalance,
		&m.TaxAuthorized, &m.TaxRequired,
		&m.AnalyticDistributionAuthorized, &m.AnalyticDistributionRequired, &m.ManageCutOffPeriod,
		&m.VatSystem, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("%w: failed to load account %s: %v", apperrors.ErrInternal, accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load accounts: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.Account
		err := rows.Scan(
			&m.AccountID, &m.Code, &m.Name, &m.AccountType, &m.Active, &m.UseForPartnerBalance,
			&m.TaxAuthorized, &m.TaxRequired,
			&m.AnalyticDistributionAuthorized, &m.AnalyticDistributionRequired, &m.ManageCutOffPeriod,
			&m.VatSystem, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan account: %v", apperrors.ErrInternal, err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return accounts, rows.Err()
}
