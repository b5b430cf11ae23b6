package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodStatusOpen      PeriodStatus = "OPEN"
	PeriodStatusAdjusting PeriodStatus = "ADJUSTING"
	PeriodStatusClosed    PeriodStatus = "CLOSED"
)

// Period is an accounting period. Configuration only; the posting engine
// checks journal closure and actor authorization against it.
type Period struct {
	PeriodID  string       `json:"periodID"`
	Code      string       `json:"code"`
	Status    PeriodStatus `json:"status"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	// ClosedJournalIDs lists journals already closed for this period; a move
	// on one of them may no longer be posted.
	ClosedJournalIDs []string `json:"closedJournalIDs,omitempty"`
	// AuthorizedUserIDs may still account on a closed or adjusting period.
	AuthorizedUserIDs []string `json:"authorizedUserIDs,omitempty"`
	AuditFields
}

// IsJournalClosed reports whether the given journal is in the period's
// closed-journal set.
func (p *Period) IsJournalClosed(journalID string) bool {
	for _, id := range p.ClosedJournalIDs {
		if id == journalID {
			return true
		}
	}
	return false
}
