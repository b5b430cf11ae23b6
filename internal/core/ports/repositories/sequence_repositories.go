package repositories

import "context"

// SequenceRepository hands out dense per-journal document numbers.
type SequenceRepository interface {
	// NextReference increments and returns the next sequence value for the
	// journal/year pair, atomically.
	NextReference(ctx context.Context, journalID string, year int) (int64, error)
}
