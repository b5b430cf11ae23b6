package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MoveLine is one debit-or-credit entry of a Move. At most one of Debit and
// Credit is non-zero; both zero is allowed only transiently while lines are
// being built. Amounts are non-negative, the currency rate is stored at
// 5-digit precision.
type MoveLine struct {
	MoveLineID string `json:"moveLineID"`
	// MoveID is a non-owning back-key; the Move owns the line.
	MoveID  string `json:"moveID"`
	Counter int    `json:"counter"` // 1-based, dense, unique within the move

	Date       time.Time  `json:"date"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	OriginDate *time.Time `json:"originDate,omitempty"`

	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
	// CurrencyAmount is the absolute amount in the move currency; the rate
	// converts it into the debit/credit company-currency amount.
	CurrencyAmount decimal.Decimal `json:"currencyAmount"`
	CurrencyRate   decimal.Decimal `json:"currencyRate"`

	Account       *Account            `json:"account,omitempty"`
	Partner       *Partner            `json:"partner,omitempty"`
	TaxLine       *TaxLine            `json:"taxLine,omitempty"`
	SourceTaxLine *TaxLine            `json:"sourceTaxLine,omitempty"`
	VatSystem     VatSystem           `json:"vatSystem"`
	FixedAssetCategory *FixedAssetCategory `json:"fixedAssetCategory,omitempty"`

	DistributionTemplate *AnalyticDistributionTemplate `json:"distributionTemplate,omitempty"`
	AnalyticLines        []AnalyticMoveLine            `json:"analyticLines,omitempty"`

	CutOffStartDate *time.Time `json:"cutOffStartDate,omitempty"`
	CutOffEndDate   *time.Time `json:"cutOffEndDate,omitempty"`

	// InvoiceTermIDs attaches the payment terms this line settles.
	InvoiceTermIDs []string `json:"invoiceTermIDs,omitempty"`

	Description string `json:"description,omitempty"`
	Origin      string `json:"origin,omitempty"`

	// Frozen denormalized snapshot, stamped at posting time so the line stays
	// readable after configuration changes.
	AccountID       string          `json:"accountID,omitempty"`
	AccountCode     string          `json:"accountCode,omitempty"`
	AccountName     string          `json:"accountName,omitempty"`
	PartnerID       string          `json:"partnerID,omitempty"`
	PartnerFullName string          `json:"partnerFullName,omitempty"`
	PartnerSeq      string          `json:"partnerSeq,omitempty"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	TaxCode         string          `json:"taxCode,omitempty"`
}

// Name identifies the line in error messages: move reference plus counter.
func (l *MoveLine) Name() string {
	ref := l.MoveID
	if l.Origin != "" {
		ref = l.Origin
	}
	return ref + "-" + strconv.Itoa(l.Counter)
}

// HasEffect reports whether the line moves any amount.
func (l *MoveLine) HasEffect() bool {
	return l.Debit.Add(l.Credit).Sign() != 0
}

// HasAnalyticDistribution reports whether the line carries either a template
// or explicit analytic allocations.
func (l *MoveLine) HasAnalyticDistribution() bool {
	return l.DistributionTemplate != nil || len(l.AnalyticLines) > 0
}
