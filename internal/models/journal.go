package models

// Journal is the journals table row.
type Journal struct {
	JournalID                   string   `json:"journalID"` // Primary Key (UUID)
	Code                        string   `json:"code"`
	Name                        string   `json:"name"`
	JournalType                 string   `json:"journalType"`
	Active                      bool     `json:"active"`
	AuthorizedFunctionalOrigins []string `json:"authorizedFunctionalOrigins"` // text[]
	AllowAccountingDaybook      bool     `json:"allowAccountingDaybook"`
	AuditFields
}
