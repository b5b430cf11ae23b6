package pgsql

import (
	"context"
	"fmt"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	"github.com/acctcore/move_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFixedAssetRepository stores fixed-asset records generated at accounting
// time.
type PgxFixedAssetRepository struct {
	BaseRepository
}

func newPgxFixedAssetRepository(pool *pgxpool.Pool) portsrepo.FixedAssetWriter {
	return &PgxFixedAssetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FixedAssetWriter = (*PgxFixedAssetRepository)(nil)

// SaveFixedAsset inserts a generated fixed asset. Re-posting the same line
// overwrites the prior record instead of duplicating it.
func (r *PgxFixedAssetRepository) SaveFixedAsset(ctx context.Context, asset domain.FixedAsset) error {
	m := mapping.ToModelFixedAsset(asset)
	query := `
		INSERT INTO fixed_assets (
			fixed_asset_id, category_id, move_id, move_line_counter, account_id,
			name, gross_value, acquisition_date,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (move_id, move_line_counter) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			account_id = EXCLUDED.account_id,
			name = EXCLUDED.name,
			gross_value = EXCLUDED.gross_value,
			acquisition_date = EXCLUDED.acquisition_date,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`
	_, err := r.Pool.Exec(ctx, query,
		m.FixedAssetID, m.CategoryID, m.MoveID, m.MoveLineCounter, m.AccountID,
		m.Name, m.GrossValue, m.AcquisitionDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save fixed asset for move %s line %d: %v",
			apperrors.ErrInternal, asset.MoveID, asset.MoveLineCounter, err)
	}
	return nil
}
