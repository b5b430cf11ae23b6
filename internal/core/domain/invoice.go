package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceOperation distinguishes purchase from sale documents.
type InvoiceOperation string

const (
	InvoiceOperationPurchase InvoiceOperation = "PURCHASE"
	InvoiceOperationSale     InvoiceOperation = "SALE"
)

// InvoiceLine is one product line of a commercial document; amounts come in
// both document currency (ExTaxTotal) and company currency.
type InvoiceLine struct {
	ProductName      string          `json:"productName"`
	Account          *Account        `json:"account,omitempty"`
	ExTaxTotal       decimal.Decimal `json:"exTaxTotal"`
	CompanyExTaxTotal decimal.Decimal `json:"companyExTaxTotal"`
	TaxLine          *TaxLine        `json:"taxLine,omitempty"`

	DistributionTemplate *AnalyticDistributionTemplate `json:"distributionTemplate,omitempty"`
	AnalyticLines        []AnalyticMoveLine            `json:"analyticLines,omitempty"`

	CutOffStartDate *time.Time `json:"cutOffStartDate,omitempty"`
	CutOffEndDate   *time.Time `json:"cutOffEndDate,omitempty"`
}

// InvoiceLineTax is one aggregated tax of a document, sub-totalled by
// fixed-asset vs other purchases so each part can post to its own account.
type InvoiceLineTax struct {
	TaxLine                             *TaxLine        `json:"taxLine"`
	TaxTotal                            decimal.Decimal `json:"taxTotal"`
	CompanyTaxTotal                     decimal.Decimal `json:"companyTaxTotal"`
	SubTotalOfFixedAssets               decimal.Decimal `json:"subTotalOfFixedAssets"`
	CompanySubTotalOfFixedAssets        decimal.Decimal `json:"companySubTotalOfFixedAssets"`
	SubTotalExcludingFixedAssets        decimal.Decimal `json:"subTotalExcludingFixedAssets"`
	CompanySubTotalExcludingFixedAssets decimal.Decimal `json:"companySubTotalExcludingFixedAssets"`
	VatSystem                           VatSystem       `json:"vatSystem"`
}

// InvoiceTerm is a scheduled payment portion of the document. Hold-back
// terms are retained separately and post to a dedicated account.
type InvoiceTerm struct {
	InvoiceTermID string          `json:"invoiceTermID"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"dueDate"`
	IsHoldBack    bool            `json:"isHoldBack"`
}

// Invoice is the commercial document move lines are materialized from. The
// engine reads it; invoicing itself lives elsewhere.
type Invoice struct {
	InvoiceID         string           `json:"invoiceID"`
	InvoiceNumber     string           `json:"invoiceNumber"`
	SupplierInvoiceNb string           `json:"supplierInvoiceNb,omitempty"`
	Operation         InvoiceOperation `json:"operation"`
	Date              time.Time        `json:"date"`
	OriginDate        *time.Time       `json:"originDate,omitempty"`
	CurrencyCode      string           `json:"currencyCode"`

	Partner         *Partner        `json:"partner,omitempty"`
	FiscalPosition  *FiscalPosition `json:"fiscalPosition,omitempty"`
	PartnerAccount  *Account        `json:"partnerAccount,omitempty"`
	HoldBackAccount *Account        `json:"holdBackAccount,omitempty"`

	Lines    []InvoiceLine    `json:"lines"`
	TaxTotals []InvoiceLineTax `json:"taxTotals"`
	Terms    []InvoiceTerm    `json:"terms"`
}

// IsPurchase reports the posting direction for tax-account resolution.
func (i *Invoice) IsPurchase() bool {
	return i.Operation == InvoiceOperationPurchase
}

// Origin is the document number lines carry as origin label: the supplier's
// number for purchases, ours otherwise.
func (i *Invoice) Origin() string {
	if i.IsPurchase() && i.SupplierInvoiceNb != "" {
		return i.SupplierInvoiceNb
	}
	return i.InvoiceNumber
}

// LatestTermDueDate returns the latest due date across non-hold-back terms,
// used as the due date of the consolidated partner line.
func (i *Invoice) LatestTermDueDate() time.Time {
	var latest time.Time
	for _, term := range i.Terms {
		if term.IsHoldBack {
			continue
		}
		if term.DueDate.After(latest) {
			latest = term.DueDate
		}
	}
	if latest.IsZero() {
		return i.Date
	}
	return latest
}
