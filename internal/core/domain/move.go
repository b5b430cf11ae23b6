package domain

import "time"

// MoveStatus is the lifecycle state of a move.
type MoveStatus string

const (
	MoveStatusNew       MoveStatus = "NEW"
	MoveStatusSimulated MoveStatus = "SIMULATED"
	MoveStatusDaybook   MoveStatus = "DAYBOOK"
	MoveStatusAccounted MoveStatus = "ACCOUNTED"
)

// FunctionalOrigin says what business event produced the move.
type FunctionalOrigin string

const (
	FunctionalOriginOpening    FunctionalOrigin = "OPENING"
	FunctionalOriginClosure    FunctionalOrigin = "CLOSURE"
	FunctionalOriginSale       FunctionalOrigin = "SALE"
	FunctionalOriginPurchase   FunctionalOrigin = "PURCHASE"
	FunctionalOriginPayment    FunctionalOrigin = "PAYMENT"
	FunctionalOriginFixedAsset FunctionalOrigin = "FIXED_ASSET"
	FunctionalOriginCutOff     FunctionalOrigin = "CUT_OFF"
)

// TechnicalOrigin says how the move entered the system.
type TechnicalOrigin string

const (
	TechnicalOriginManual    TechnicalOrigin = "MANUAL"
	TechnicalOriginAutomatic TechnicalOrigin = "AUTOMATIC"
	TechnicalOriginTemplate  TechnicalOrigin = "TEMPLATE"
	TechnicalOriginImport    TechnicalOrigin = "IMPORT"
)

// Move is a double-entry ledger transaction header together with its ordered
// lines. The move exclusively owns its line slice; lines reference back by
// MoveID only.
type Move struct {
	MoveID          string           `json:"moveID"`
	Reference       string           `json:"reference"` // document number, stamped by sequence assignment
	Date            time.Time        `json:"date"`
	OriginDate      *time.Time       `json:"originDate,omitempty"`
	CurrencyCode    string           `json:"currencyCode"`
	FunctionalOrigin FunctionalOrigin `json:"functionalOrigin,omitempty"`
	TechnicalOrigin TechnicalOrigin  `json:"technicalOrigin"`
	Status          MoveStatus       `json:"status"`

	Company *Company `json:"company,omitempty"`
	Journal *Journal `json:"journal,omitempty"`
	Period  *Period  `json:"period,omitempty"`
	Partner *Partner `json:"partner,omitempty"`
	Invoice *Invoice `json:"invoice,omitempty"`

	Lines []MoveLine `json:"lines"`

	Origin         string     `json:"origin,omitempty"`
	Description    string     `json:"description,omitempty"`
	AccountingDate *time.Time `json:"accountingDate,omitempty"`
	// AdjustingMove is stamped when the move is posted into an adjusting
	// period.
	AdjustingMove bool `json:"adjustingMove"`
	// AutoYearClosureMove marks the automatic year-closure move, which is
	// allowed into a closed fiscal period.
	AutoYearClosureMove bool `json:"autoYearClosureMove"`

	AuditFields
}

// FiscalPositionInEffect resolves the fiscal position applying to this move:
// the invoice's, falling back to the invoice partner's, falling back to the
// given partner's.
func (m *Move) FiscalPositionInEffect(partner *Partner) *FiscalPosition {
	if m.Invoice != nil {
		if m.Invoice.FiscalPosition != nil {
			return m.Invoice.FiscalPosition
		}
		if m.Invoice.Partner != nil {
			return m.Invoice.Partner.FiscalPosition
		}
		return nil
	}
	if partner != nil {
		return partner.FiscalPosition
	}
	return nil
}

// IsOpeningOrClosure reports whether the move is exempt from the per-line
// tax/analytic/balance checks.
func (m *Move) IsOpeningOrClosure() bool {
	return m.FunctionalOrigin == FunctionalOriginOpening ||
		m.FunctionalOrigin == FunctionalOriginClosure
}
