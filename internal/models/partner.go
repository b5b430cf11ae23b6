package models

import "github.com/shopspring/decimal"

// Partner is the partners table row.
type Partner struct {
	PartnerID string `json:"partnerID"` // Primary Key (UUID)
	Seq       string `json:"seq"`
	FullName  string `json:"fullName"`
	AuditFields
}

// PartnerBalance is the partner_balances table row.
type PartnerBalance struct {
	PartnerID string          `json:"partnerID"`
	CompanyID string          `json:"companyID"`
	Balance   decimal.Decimal `json:"balance"`
}
