package models

import "time"

// Period is the periods table row.
type Period struct {
	PeriodID          string    `json:"periodID"` // Primary Key (UUID)
	Code              string    `json:"code"`
	Status            string    `json:"status"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	ClosedJournalIDs  []string  `json:"closedJournalIDs"`  // text[]
	AuthorizedUserIDs []string  `json:"authorizedUserIDs"` // text[]
	AuditFields
}
