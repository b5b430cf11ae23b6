package domain

// JournalType is the technical classification of a journal. The VAT-system
// consistency check only applies to sale and expense journals.
type JournalType string

const (
	JournalTypeSale     JournalType = "SALE"
	JournalTypeExpense  JournalType = "EXPENSE"
	JournalTypeTreasury JournalType = "TREASURY"
	JournalTypeOther    JournalType = "OTHER"
)

// Journal is the accounting journal a move is booked into. It is
// configuration: the posting engine reads it and never mutates it.
type Journal struct {
	JournalID string      `json:"journalID"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      JournalType `json:"type"`
	Active    bool        `json:"active"`
	// AuthorizedFunctionalOrigins restricts which functional origins may be
	// booked into this journal. Empty means unrestricted.
	AuthorizedFunctionalOrigins []FunctionalOrigin `json:"authorizedFunctionalOrigins,omitempty"`
	// AllowAccountingDaybook enables the provisional daybook posting state
	// for this journal (the company config must enable it too).
	AllowAccountingDaybook bool `json:"allowAccountingDaybook"`
	AuditFields
}

// AuthorizesFunctionalOrigin reports whether the journal accepts moves with
// the given functional origin.
func (j *Journal) AuthorizesFunctionalOrigin(origin FunctionalOrigin) bool {
	if len(j.AuthorizedFunctionalOrigins) == 0 {
		return true
	}
	for _, o := range j.AuthorizedFunctionalOrigins {
		if o == origin {
			return true
		}
	}
	return false
}
