package domain

import "github.com/shopspring/decimal"

// TaxAccountConfig maps a (company, direction, fixed-asset) combination to
// the account a tax posts into.
type TaxAccountConfig struct {
	CompanyID    string   `json:"companyID"`
	IsPurchase   bool     `json:"isPurchase"`
	IsFixedAsset bool     `json:"isFixedAsset"`
	Account      *Account `json:"account"`
}

// Tax is a tax definition with its per-company posting accounts.
type Tax struct {
	TaxID          string             `json:"taxID"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	AccountConfigs []TaxAccountConfig `json:"accountConfigs,omitempty"`
}

// TaxLine is a tax rate snapshot. Move lines reference it without ownership.
type TaxLine struct {
	TaxLineID string          `json:"taxLineID"`
	Tax       *Tax            `json:"tax"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"` // rate, e.g. 0.20 for 20%
}
