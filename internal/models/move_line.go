package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveLine is the move_lines table row. Analytic allocations are stored as a
// JSONB document; account/partner/tax references are plain FK columns with
// the frozen snapshot denormalized alongside.
type MoveLine struct {
	MoveLineID string `json:"moveLineID"` // Primary Key (UUID)
	MoveID     string `json:"moveID"`     // FK -> Move
	Counter    int    `json:"counter"`

	LineDate   time.Time  `json:"lineDate"`
	DueDate    *time.Time `json:"dueDate"`
	OriginDate *time.Time `json:"originDate"`

	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	CurrencyAmount decimal.Decimal `json:"currencyAmount"`
	CurrencyRate   decimal.Decimal `json:"currencyRate"`

	AccountID       *string `json:"accountID"`
	PartnerID       *string `json:"partnerID"`
	TaxLineID       *string `json:"taxLineID"`
	SourceTaxLineID *string `json:"sourceTaxLineID"`
	VatSystem       string  `json:"vatSystem"`

	FixedAssetCategoryID   *string `json:"fixedAssetCategoryID"`
	FixedAssetCategoryName *string `json:"fixedAssetCategoryName"`

	AnalyticLines []byte `json:"-"` // JSONB

	CutOffStartDate *time.Time `json:"cutOffStartDate"`
	CutOffEndDate   *time.Time `json:"cutOffEndDate"`

	InvoiceTermIDs []string `json:"invoiceTermIDs"`

	Description string `json:"description"`
	Origin      string `json:"origin"`

	// Frozen snapshot columns
	AccountCode     string          `json:"accountCode"`
	AccountName     string          `json:"accountName"`
	PartnerFullName string          `json:"partnerFullName"`
	PartnerSeq      string          `json:"partnerSeq"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	TaxCode         string          `json:"taxCode"`

	AuditFields
}
