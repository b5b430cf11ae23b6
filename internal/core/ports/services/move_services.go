package services

import (
	"context"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
)

// MoveCheckerSvc gates posting: structural, configuration and balance checks.
type MoveCheckerSvc interface {
	// CheckPreconditions runs the full precondition chain and fails on the
	// first violated rule.
	CheckPreconditions(ctx context.Context, move *domain.Move, actorID string) error

	// ValidateBalanced confirms total debit equals total credit exactly and
	// that no line carries both sides.
	ValidateBalanced(move *domain.Move) error
}

// MovePosterSvc drives the posting lifecycle.
type MovePosterSvc interface {
	// Post validates and accounts the move (or parks it in daybook when
	// daybook mode applies), updating customer balances.
	Post(ctx context.Context, move *domain.Move, actorID string) error

	// PostWithOptions is Post with an explicit customer-balance switch.
	PostWithOptions(ctx context.Context, move *domain.Move, actorID string, updateCustomerBalances bool) error

	// PostDaybook re-validates and refreezes a move already in daybook
	// without re-deriving its sequence number.
	PostDaybook(ctx context.Context, move *domain.Move, actorID string) error

	// PostByID loads the move fresh and posts it.
	PostByID(ctx context.Context, moveID string, actorID string, updateCustomerBalances bool) error

	// PostDaybookByID loads the move fresh and commits it from daybook.
	PostDaybookByID(ctx context.Context, moveID string, actorID string) error

	// PostAll posts each move independently, reloading it fresh, and returns
	// the references of the moves that failed.
	PostAll(ctx context.Context, moveIDs []string, actorID string) ([]string, error)

	// SimulateAll transitions draft moves to SIMULATED.
	SimulateAll(ctx context.Context, moveIDs []string, actorID string) error
}

// MoveLineCompleterSvc carries the line-completion and field-freezing
// utilities used during posting and exposed for callers that stage moves.
type MoveLineCompleterSvc interface {
	CompleteMoveLines(move *domain.Move)
	FreezeFieldsOnLines(move *domain.Move)
}

// MoveSvcFacade combines the move posting surface.
type MoveSvcFacade interface {
	MoveCheckerSvc
	MovePosterSvc
	MoveLineCompleterSvc
}
