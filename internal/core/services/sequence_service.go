package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
)

// sequenceService stamps document numbers. Assignment is guarded: a move
// that already carries a reference keeps it, so re-posting from daybook
// never consumes a second number.
type sequenceService struct {
	seqRepo portsrepo.SequenceRepository
}

// NewSequenceService creates the document-number assignment service.
func NewSequenceService(seqRepo portsrepo.SequenceRepository) portssvc.SequenceSvc {
	return &sequenceService{seqRepo: seqRepo}
}

var _ portssvc.SequenceSvc = (*sequenceService)(nil)

// AssignReference stamps the next journal sequence number as
// "<journalCode>-<year>-<n>" onto the move, unless one is already present.
func (s *sequenceService) AssignReference(ctx context.Context, move *domain.Move) error {
	if move.Reference != "" {
		return nil
	}
	if move.Journal == nil {
		return fmt.Errorf("%w: move %s has no journal for sequence assignment", apperrors.ErrConfiguration, move.MoveID)
	}

	year := move.Date.Year()
	next, err := s.seqRepo.NextReference(ctx, move.Journal.JournalID, year)
	if err != nil {
		return fmt.Errorf("failed to derive sequence for journal %s: %w", move.Journal.Code, err)
	}

	move.Reference = fmt.Sprintf("%s-%d-%05d", move.Journal.Code, year, next)
	middleware.GetLoggerFromCtx(ctx).Debug("Assigned move reference",
		slog.String("move_id", move.MoveID), slog.String("reference", move.Reference))
	return nil
}
