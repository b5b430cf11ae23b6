package dto

import (
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateLinesRequest materializes ledger lines from an invoice document
// without persisting anything: a dry-run of the line pipeline for callers
// staging a move.
type GenerateLinesRequest struct {
	MoveDate         time.Time      `json:"moveDate" binding:"required"`
	CurrencyCode     string         `json:"currencyCode" binding:"required,len=3,uppercase"`
	FunctionalOrigin string         `json:"functionalOrigin" binding:"required,functionalorigin"`
	Company          CompanyPayload `json:"company" binding:"required"`
	Invoice          InvoicePayload `json:"invoice" binding:"required"`
}

// CompanyPayload is the company context line generation needs.
type CompanyPayload struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// AccountPayload embeds the account flags the pipeline branches on.
type AccountPayload struct {
	AccountID                      string `json:"accountID" binding:"required"`
	Code                           string `json:"code" binding:"required"`
	Name                           string `json:"name"`
	AccountType                    string `json:"accountType" binding:"omitempty,oneof=TAX DEBT CHARGE INCOME ASSET IMMOBILISATION CASH"`
	UseForPartnerBalance           bool   `json:"useForPartnerBalance"`
	TaxAuthorized                  bool   `json:"taxAuthorized"`
	TaxRequired                    bool   `json:"taxRequired"`
	AnalyticDistributionAuthorized bool   `json:"analyticDistributionAuthorized"`
	AnalyticDistributionRequired   bool   `json:"analyticDistributionRequired"`
	ManageCutOffPeriod             bool   `json:"manageCutOffPeriod"`
	VatSystem                      string `json:"vatSystem" binding:"omitempty,oneof=DEFAULT ON_DEBIT ON_PAYMENT"`
}

// PartnerPayload identifies the invoice partner.
type PartnerPayload struct {
	PartnerID string `json:"partnerID" binding:"required"`
	Seq       string `json:"seq"`
	FullName  string `json:"fullName" binding:"required"`
}

// FiscalPositionPayload carries account substitutions in effect.
type FiscalPositionPayload struct {
	FiscalPositionID string `json:"fiscalPositionID"`
	Name             string `json:"name"`
	Equivalences     []struct {
		FromAccountID string         `json:"fromAccountID" binding:"required"`
		To            AccountPayload `json:"to" binding:"required"`
	} `json:"equivalences" binding:"dive"`
}

// TaxAccountConfigPayload maps a (company, direction, fixed-asset) combination
// to the tax posting account.
type TaxAccountConfigPayload struct {
	CompanyID    string         `json:"companyID"`
	IsPurchase   bool           `json:"isPurchase"`
	IsFixedAsset bool           `json:"isFixedAsset"`
	Account      AccountPayload `json:"account" binding:"required"`
}

// TaxLinePayload is a tax rate snapshot with its parent tax and posting
// account configurations.
type TaxLinePayload struct {
	TaxLineID string          `json:"taxLineID" binding:"required"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	Tax       struct {
		TaxID          string                    `json:"taxID" binding:"required"`
		Code           string                    `json:"code"`
		Name           string                    `json:"name"`
		AccountConfigs []TaxAccountConfigPayload `json:"accountConfigs" binding:"dive"`
	} `json:"tax" binding:"required"`
}

// AnalyticAllocationPayload is one analytic allocation on a document line.
type AnalyticAllocationPayload struct {
	AnalyticAccountID string          `json:"analyticAccountID" binding:"required"`
	AnalyticAccount   string          `json:"analyticAccount"`
	AnalyticJournalID string          `json:"analyticJournalID"`
	Percentage        decimal.Decimal `json:"percentage" binding:"required"`
	Amount            decimal.Decimal `json:"amount"`
}

// InvoiceLinePayload is one product line of the document.
type InvoiceLinePayload struct {
	ProductName       string                      `json:"productName" binding:"required"`
	Account           *AccountPayload             `json:"account"`
	ExTaxTotal        decimal.Decimal             `json:"exTaxTotal"`
	CompanyExTaxTotal decimal.Decimal             `json:"companyExTaxTotal"`
	TaxLine           *TaxLinePayload             `json:"taxLine"`
	AnalyticLines     []AnalyticAllocationPayload `json:"analyticLines" binding:"dive"`
	CutOffStartDate   *time.Time                  `json:"cutOffStartDate"`
	CutOffEndDate     *time.Time                  `json:"cutOffEndDate"`
}

// InvoiceTaxPayload is one aggregated tax with its sub-totals.
type InvoiceTaxPayload struct {
	TaxLine                             TaxLinePayload  `json:"taxLine" binding:"required"`
	TaxTotal                            decimal.Decimal `json:"taxTotal"`
	CompanyTaxTotal                     decimal.Decimal `json:"companyTaxTotal"`
	SubTotalOfFixedAssets               decimal.Decimal `json:"subTotalOfFixedAssets"`
	CompanySubTotalOfFixedAssets        decimal.Decimal `json:"companySubTotalOfFixedAssets"`
	SubTotalExcludingFixedAssets        decimal.Decimal `json:"subTotalExcludingFixedAssets"`
	CompanySubTotalExcludingFixedAssets decimal.Decimal `json:"companySubTotalExcludingFixedAssets"`
	VatSystem                           string          `json:"vatSystem" binding:"omitempty,oneof=DEFAULT ON_DEBIT ON_PAYMENT"`
}

// InvoiceTermPayload is one scheduled payment portion.
type InvoiceTermPayload struct {
	InvoiceTermID string          `json:"invoiceTermID"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"dueDate" binding:"required"`
	IsHoldBack    bool            `json:"isHoldBack"`
}

// InvoicePayload is the commercial document lines are generated from.
type InvoicePayload struct {
	InvoiceNumber     string                 `json:"invoiceNumber" binding:"required"`
	SupplierInvoiceNb string                 `json:"supplierInvoiceNb"`
	Operation         string                 `json:"operation" binding:"required,oneof=PURCHASE SALE"`
	Date              time.Time              `json:"date" binding:"required"`
	OriginDate        *time.Time             `json:"originDate"`
	CurrencyCode      string                 `json:"currencyCode" binding:"required,len=3,uppercase"`
	Partner           PartnerPayload         `json:"partner" binding:"required"`
	FiscalPosition    *FiscalPositionPayload `json:"fiscalPosition"`
	PartnerAccount    AccountPayload         `json:"partnerAccount" binding:"required"`
	HoldBackAccount   *AccountPayload        `json:"holdBackAccount"`
	Lines             []InvoiceLinePayload   `json:"lines" binding:"required,min=1,dive"`
	TaxTotals         []InvoiceTaxPayload    `json:"taxTotals" binding:"dive"`
	Terms             []InvoiceTermPayload   `json:"terms" binding:"required,min=1,dive"`
}

func toDomainAccount(p *AccountPayload) *domain.Account {
	if p == nil {
		return nil
	}
	return &domain.Account{
		AccountID:                      p.AccountID,
		Code:                           p.Code,
		Name:                           p.Name,
		AccountType:                    domain.AccountType(p.AccountType),
		Active:                         true,
		UseForPartnerBalance:           p.UseForPartnerBalance,
		TaxAuthorized:                  p.TaxAuthorized,
		TaxRequired:                    p.TaxRequired,
		AnalyticDistributionAuthorized: p.AnalyticDistributionAuthorized,
		AnalyticDistributionRequired:   p.AnalyticDistributionRequired,
		ManageCutOffPeriod:             p.ManageCutOffPeriod,
		VatSystem:                      domain.VatSystem(p.VatSystem),
	}
}

func toDomainTaxLine(p *TaxLinePayload) *domain.TaxLine {
	if p == nil {
		return nil
	}
	tax := &domain.Tax{
		TaxID: p.Tax.TaxID,
		Code:  p.Tax.Code,
		Name:  p.Tax.Name,
	}
	for _, config := range p.Tax.AccountConfigs {
		account := config.Account
		tax.AccountConfigs = append(tax.AccountConfigs, domain.TaxAccountConfig{
			CompanyID:    config.CompanyID,
			IsPurchase:   config.IsPurchase,
			IsFixedAsset: config.IsFixedAsset,
			Account:      toDomainAccount(&account),
		})
	}
	return &domain.TaxLine{
		TaxLineID: p.TaxLineID,
		Tax:       tax,
		Name:      p.Name,
		Value:     p.Value,
	}
}

// ToDomainInvoice converts the payload into the domain document.
func (p *InvoicePayload) ToDomainInvoice() *domain.Invoice {
	partner := &domain.Partner{
		PartnerID: p.Partner.PartnerID,
		Seq:       p.Partner.Seq,
		FullName:  p.Partner.FullName,
	}
	invoice := &domain.Invoice{
		InvoiceID:         uuid.NewString(),
		InvoiceNumber:     p.InvoiceNumber,
		SupplierInvoiceNb: p.SupplierInvoiceNb,
		Operation:         domain.InvoiceOperation(p.Operation),
		Date:              p.Date,
		OriginDate:        p.OriginDate,
		CurrencyCode:      p.CurrencyCode,
		Partner:           partner,
		PartnerAccount:    toDomainAccount(&p.PartnerAccount),
		HoldBackAccount:   toDomainAccount(p.HoldBackAccount),
	}

	if p.FiscalPosition != nil {
		fiscalPosition := &domain.FiscalPosition{
			FiscalPositionID: p.FiscalPosition.FiscalPositionID,
			Name:             p.FiscalPosition.Name,
		}
		for _, eq := range p.FiscalPosition.Equivalences {
			to := eq.To
			fiscalPosition.Equivalences = append(fiscalPosition.Equivalences, domain.AccountEquivalence{
				FromAccountID: eq.FromAccountID,
				To:            toDomainAccount(&to),
			})
		}
		invoice.FiscalPosition = fiscalPosition
	}

	for _, linePayload := range p.Lines {
		line := domain.InvoiceLine{
			ProductName:       linePayload.ProductName,
			Account:           toDomainAccount(linePayload.Account),
			ExTaxTotal:        linePayload.ExTaxTotal,
			CompanyExTaxTotal: linePayload.CompanyExTaxTotal,
			TaxLine:           toDomainTaxLine(linePayload.TaxLine),
			CutOffStartDate:   linePayload.CutOffStartDate,
			CutOffEndDate:     linePayload.CutOffEndDate,
		}
		for _, allocation := range linePayload.AnalyticLines {
			line.AnalyticLines = append(line.AnalyticLines, domain.AnalyticMoveLine{
				AnalyticMoveLineID: uuid.NewString(),
				AnalyticAccount: &domain.AnalyticAccount{
					AnalyticAccountID: allocation.AnalyticAccountID,
					Code:              allocation.AnalyticAccount,
					Active:            true,
				},
				AnalyticJournal: &domain.AnalyticJournal{
					AnalyticJournalID: allocation.AnalyticJournalID,
					Active:            true,
				},
				Type:       domain.AnalyticLineForecast,
				Percentage: allocation.Percentage,
				Amount:     allocation.Amount,
			})
		}
		invoice.Lines = append(invoice.Lines, line)
	}

	for _, taxPayload := range p.TaxTotals {
		taxLine := taxPayload.TaxLine
		invoice.TaxTotals = append(invoice.TaxTotals, domain.InvoiceLineTax{
			TaxLine:                             toDomainTaxLine(&taxLine),
			TaxTotal:                            taxPayload.TaxTotal,
			CompanyTaxTotal:                     taxPayload.CompanyTaxTotal,
			SubTotalOfFixedAssets:               taxPayload.SubTotalOfFixedAssets,
			CompanySubTotalOfFixedAssets:        taxPayload.CompanySubTotalOfFixedAssets,
			SubTotalExcludingFixedAssets:        taxPayload.SubTotalExcludingFixedAssets,
			CompanySubTotalExcludingFixedAssets: taxPayload.CompanySubTotalExcludingFixedAssets,
			VatSystem:                           domain.VatSystem(taxPayload.VatSystem),
		})
	}

	for _, termPayload := range p.Terms {
		termID := termPayload.InvoiceTermID
		if termID == "" {
			termID = uuid.NewString()
		}
		invoice.Terms = append(invoice.Terms, domain.InvoiceTerm{
			InvoiceTermID: termID,
			Amount:        termPayload.Amount,
			DueDate:       termPayload.DueDate,
			IsHoldBack:    termPayload.IsHoldBack,
		})
	}

	return invoice
}

// ToDomainMove builds the staging move context line generation runs in.
func (r *GenerateLinesRequest) ToDomainMove() *domain.Move {
	invoice := r.Invoice.ToDomainInvoice()
	return &domain.Move{
		MoveID:           uuid.NewString(),
		Date:             r.MoveDate,
		OriginDate:       r.Invoice.OriginDate,
		CurrencyCode:     r.CurrencyCode,
		FunctionalOrigin: domain.FunctionalOrigin(r.FunctionalOrigin),
		TechnicalOrigin:  domain.TechnicalOriginManual,
		Status:           domain.MoveStatusNew,
		Company: &domain.Company{
			CompanyID:    r.Company.CompanyID,
			Name:         r.Company.Name,
			CurrencyCode: r.Company.CurrencyCode,
		},
		Partner: invoice.Partner,
		Invoice: invoice,
	}
}
