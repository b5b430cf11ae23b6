package models

import "github.com/shopspring/decimal"

// TaxLine is a tax_lines row joined with its parent tax, the shape move-line
// loading needs.
type TaxLine struct {
	TaxLineID string          `json:"taxLineID"` // Primary Key (UUID)
	TaxID     string          `json:"taxID"`     // FK -> Tax
	TaxCode   string          `json:"taxCode"`
	TaxName   string          `json:"taxName"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
}
