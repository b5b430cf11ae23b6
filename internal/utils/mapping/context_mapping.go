package mapping

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/acctcore/move_accounting_app/internal/models"
)

// ToDomainJournal converts a journal row to the domain journal.
func ToDomainJournal(m models.Journal) domain.Journal {
	origins := make([]domain.FunctionalOrigin, 0, len(m.AuthorizedFunctionalOrigins))
	for _, o := range m.AuthorizedFunctionalOrigins {
		origins = append(origins, domain.FunctionalOrigin(o))
	}
	return domain.Journal{
		JournalID:                   m.JournalID,
		Code:                        m.Code,
		Name:                        m.Name,
		Type:                        domain.JournalType(m.JournalType),
		Active:                      m.Active,
		AuthorizedFunctionalOrigins: origins,
		AllowAccountingDaybook:      m.AllowAccountingDaybook,
		AuditFields:                 ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPeriod converts a period row to the domain period.
func ToDomainPeriod(m models.Period) domain.Period {
	return domain.Period{
		PeriodID:          m.PeriodID,
		Code:              m.Code,
		Status:            domain.PeriodStatus(m.Status),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		ClosedJournalIDs:  m.ClosedJournalIDs,
		AuthorizedUserIDs: m.AuthorizedUserIDs,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCompany converts a company row to the domain company.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		Timezone:     m.Timezone,
		Config: domain.CompanyAccountConfig{
			AccountingDaybook:  m.AccountingDaybook,
			ManageCutOffPeriod: m.ManageCutOffPeriod,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPartner converts a partner row to the domain partner.
func ToDomainPartner(m models.Partner) domain.Partner {
	return domain.Partner{
		PartnerID:   m.PartnerID,
		Seq:         m.Seq,
		FullName:    m.FullName,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaxLine converts a joined tax-line row to the domain tax line.
func ToDomainTaxLine(m models.TaxLine) domain.TaxLine {
	return domain.TaxLine{
		TaxLineID: m.TaxLineID,
		Tax: &domain.Tax{
			TaxID: m.TaxID,
			Code:  m.TaxCode,
			Name:  m.TaxName,
		},
		Name:  m.Name,
		Value: m.Value,
	}
}
