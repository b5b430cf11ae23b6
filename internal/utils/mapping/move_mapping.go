package mapping

import (
	"encoding/json"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/acctcore/move_accounting_app/internal/models"
)

// ToModelMove converts a domain Move header to its row model. Lines are
// mapped separately.
func ToModelMove(d domain.Move) models.Move {
	m := models.Move{
		MoveID:              d.MoveID,
		Reference:           d.Reference,
		MoveDate:            d.Date,
		OriginDate:          d.OriginDate,
		CurrencyCode:        d.CurrencyCode,
		FunctionalOrigin:    string(d.FunctionalOrigin),
		TechnicalOrigin:     string(d.TechnicalOrigin),
		Status:              string(d.Status),
		Origin:              d.Origin,
		Description:         d.Description,
		AccountingDate:      d.AccountingDate,
		AdjustingMove:       d.AdjustingMove,
		AutoYearClosureMove: d.AutoYearClosureMove,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
	if d.Company != nil {
		m.CompanyID = d.Company.CompanyID
	}
	if d.Journal != nil {
		m.JournalID = d.Journal.JournalID
	}
	if d.Period != nil {
		m.PeriodID = d.Period.PeriodID
	}
	if d.Partner != nil {
		m.PartnerID = &d.Partner.PartnerID
	}
	return m
}

// ToDomainMove converts a move row to the domain header. The repository
// attaches the reference graph afterwards.
func ToDomainMove(m models.Move) domain.Move {
	return domain.Move{
		MoveID:              m.MoveID,
		Reference:           m.Reference,
		Date:                m.MoveDate,
		OriginDate:          m.OriginDate,
		CurrencyCode:        m.CurrencyCode,
		FunctionalOrigin:    domain.FunctionalOrigin(m.FunctionalOrigin),
		TechnicalOrigin:     domain.TechnicalOrigin(m.TechnicalOrigin),
		Status:              domain.MoveStatus(m.Status),
		Origin:              m.Origin,
		Description:         m.Description,
		AccountingDate:      m.AccountingDate,
		AdjustingMove:       m.AdjustingMove,
		AutoYearClosureMove: m.AutoYearClosureMove,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMoveLine converts a domain MoveLine to its row model. Analytic
// allocations serialize to a JSONB document.
func ToModelMoveLine(d domain.MoveLine) (models.MoveLine, error) {
	m := models.MoveLine{
		MoveLineID:      d.MoveLineID,
		MoveID:          d.MoveID,
		Counter:         d.Counter,
		LineDate:        d.Date,
		DueDate:         d.DueDate,
		OriginDate:      d.OriginDate,
		Debit:           d.Debit,
		Credit:          d.Credit,
		CurrencyAmount:  d.CurrencyAmount,
		CurrencyRate:    d.CurrencyRate,
		VatSystem:       string(d.VatSystem),
		CutOffStartDate: d.CutOffStartDate,
		CutOffEndDate:   d.CutOffEndDate,
		InvoiceTermIDs:  d.InvoiceTermIDs,
		Description:     d.Description,
		Origin:          d.Origin,
		AccountCode:     d.AccountCode,
		AccountName:     d.AccountName,
		PartnerFullName: d.PartnerFullName,
		PartnerSeq:      d.PartnerSeq,
		TaxRate:         d.TaxRate,
		TaxCode:         d.TaxCode,
	}
	if d.Account != nil {
		m.AccountID = &d.Account.AccountID
	} else if d.AccountID != "" {
		id := d.AccountID
		m.AccountID = &id
	}
	if d.Partner != nil {
		m.PartnerID = &d.Partner.PartnerID
	} else if d.PartnerID != "" {
		id := d.PartnerID
		m.PartnerID = &id
	}
	if d.TaxLine != nil {
		m.TaxLineID = &d.TaxLine.TaxLineID
	}
	if d.SourceTaxLine != nil {
		m.SourceTaxLineID = &d.SourceTaxLine.TaxLineID
	}
	if d.FixedAssetCategory != nil {
		m.FixedAssetCategoryID = &d.FixedAssetCategory.CategoryID
		m.FixedAssetCategoryName = &d.FixedAssetCategory.Name
	}
	if len(d.AnalyticLines) > 0 {
		raw, err := json.Marshal(d.AnalyticLines)
		if err != nil {
			return models.MoveLine{}, err
		}
		m.AnalyticLines = raw
	}
	return m, nil
}

// ToDomainMoveLine converts a move line row to the domain line. The account,
// partner and tax pointers are attached by the repository from their own
// rows; here only the scalar and frozen fields map.
func ToDomainMoveLine(m models.MoveLine) (domain.MoveLine, error) {
	d := domain.MoveLine{
		MoveLineID:      m.MoveLineID,
		MoveID:          m.MoveID,
		Counter:         m.Counter,
		Date:            m.LineDate,
		DueDate:         m.DueDate,
		OriginDate:      m.OriginDate,
		Debit:           m.Debit,
		Credit:          m.Credit,
		CurrencyAmount:  m.CurrencyAmount,
		CurrencyRate:    m.CurrencyRate,
		VatSystem:       domain.VatSystem(m.VatSystem),
		CutOffStartDate: m.CutOffStartDate,
		CutOffEndDate:   m.CutOffEndDate,
		InvoiceTermIDs:  m.InvoiceTermIDs,
		Description:     m.Description,
		Origin:          m.Origin,
		AccountCode:     m.AccountCode,
		AccountName:     m.AccountName,
		PartnerFullName: m.PartnerFullName,
		PartnerSeq:      m.PartnerSeq,
		TaxRate:         m.TaxRate,
		TaxCode:         m.TaxCode,
	}
	if m.AccountID != nil {
		d.AccountID = *m.AccountID
	}
	if m.PartnerID != nil {
		d.PartnerID = *m.PartnerID
	}
	if m.FixedAssetCategoryID != nil {
		category := domain.FixedAssetCategory{CategoryID: *m.FixedAssetCategoryID}
		if m.FixedAssetCategoryName != nil {
			category.Name = *m.FixedAssetCategoryName
		}
		d.FixedAssetCategory = &category
	}
	if len(m.AnalyticLines) > 0 {
		if err := json.Unmarshal(m.AnalyticLines, &d.AnalyticLines); err != nil {
			return domain.MoveLine{}, err
		}
	}
	return d, nil
}
