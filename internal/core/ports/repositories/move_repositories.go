package repositories

import (
	"context"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoveReader loads moves with their full reference graph (journal, period,
// company, accounts, partners) so the posting engine can validate without
// further lookups.
type MoveReader interface {
	FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error)
	FindMoveReferences(ctx context.Context, moveIDs []string) (map[string]string, error)
}

// MoveWriter persists move state changes. SaveMovePosted commits the move
// header, its lines and the partner balance deltas in one database
// transaction: posting is atomic or not at all.
type MoveWriter interface {
	SaveMove(ctx context.Context, move *domain.Move) error
	SaveMovePosted(ctx context.Context, move *domain.Move, balanceChanges map[string]decimal.Decimal) error
	UpdateMoveStatus(ctx context.Context, moveID string, status domain.MoveStatus, updatedBy string) error
}

// MoveRepositoryFacade combines move persistence operations.
type MoveRepositoryFacade interface {
	MoveReader
	MoveWriter
}
