package domain

import "github.com/shopspring/decimal"

// Partner is a customer or supplier referenced by move lines. Lookup only;
// the posting engine never owns or mutates partners beyond their accounted
// balance.
type Partner struct {
	PartnerID      string          `json:"partnerID"`
	Seq            string          `json:"seq"` // human-facing partner sequence
	FullName       string          `json:"fullName"`
	FiscalPosition *FiscalPosition `json:"fiscalPosition,omitempty"`
	AuditFields
}

// AccountEquivalence substitutes one account for another under a fiscal
// position.
type AccountEquivalence struct {
	FromAccountID string   `json:"fromAccountID"`
	To            *Account `json:"to"`
}

// FiscalPosition is a rule set substituting accounts based on partner/tax
// context.
type FiscalPosition struct {
	FiscalPositionID string               `json:"fiscalPositionID"`
	Name             string               `json:"name"`
	Equivalences     []AccountEquivalence `json:"equivalences,omitempty"`
}

// CompanyAccountConfig carries the company-level accounting switches the
// posting engine branches on.
type CompanyAccountConfig struct {
	// AccountingDaybook enables the provisional daybook state company-wide.
	AccountingDaybook bool `json:"accountingDaybook"`
	// ManageCutOffPeriod requires complete cut-off windows on lines whose
	// account manages cut-off.
	ManageCutOffPeriod bool `json:"manageCutOffPeriod"`
}

// Company owns moves and fixes the functional currency.
type Company struct {
	CompanyID    string               `json:"companyID"`
	Name         string               `json:"name"`
	CurrencyCode string               `json:"currencyCode"`
	Timezone     string               `json:"timezone"` // IANA name, e.g. "Europe/Paris"
	Config       CompanyAccountConfig `json:"config"`
	AuditFields
}

// PartnerBalance is the accounted balance of a partner within a company,
// refreshed after posting.
type PartnerBalance struct {
	PartnerID string          `json:"partnerID"`
	CompanyID string          `json:"companyID"`
	Balance   decimal.Decimal `json:"balance"`
}
