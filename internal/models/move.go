package models

import "time"

// Move is the moves table row. Reference graph entities are joined in by the
// repository, not embedded here.
type Move struct {
	MoveID           string     `json:"moveID"` // Primary Key (UUID)
	Reference        string     `json:"reference"`
	MoveDate         time.Time  `json:"moveDate"`
	OriginDate       *time.Time `json:"originDate"`
	CurrencyCode     string     `json:"currencyCode"`
	FunctionalOrigin string     `json:"functionalOrigin"`
	TechnicalOrigin  string     `json:"technicalOrigin"`
	Status           string     `json:"status"`

	CompanyID string  `json:"companyID"` // FK -> Company
	JournalID string  `json:"journalID"` // FK -> Journal
	PeriodID  string  `json:"periodID"`  // FK -> Period
	PartnerID *string `json:"partnerID"` // FK -> Partner, nullable

	Origin              string     `json:"origin"`
	Description         string     `json:"description"`
	AccountingDate      *time.Time `json:"accountingDate"`
	AdjustingMove       bool       `json:"adjustingMove"`
	AutoYearClosureMove bool       `json:"autoYearClosureMove"`

	AuditFields
}
