package pgsql

import (
	"context"
	"fmt"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository hands out dense per-journal document numbers from
// the move_sequences table.
type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextReference increments and returns the next sequence value for the
// journal/year pair. The upsert keeps the increment atomic under concurrent
// callers.
func (r *PgxSequenceRepository) NextReference(ctx context.Context, journalID string, year int) (int64, error) {
	query := `
		INSERT INTO move_sequences (journal_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (journal_id, year)
		DO UPDATE SET last_value = move_sequences.last_value + 1
		RETURNING last_value;`
	var next int64
	if err := r.Pool.QueryRow(ctx, query, journalID, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("%w: failed to advance sequence for journal %s/%d: %v",
			apperrors.ErrInternal, journalID, year, err)
	}
	return next, nil
}
