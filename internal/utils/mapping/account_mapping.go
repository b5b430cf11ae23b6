package mapping

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/acctcore/move_accounting_app/internal/models"
)

// ToDomainAccount converts an account row to the domain account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:                      m.AccountID,
		Code:                           m.Code,
		Name:                           m.Name,
		AccountType:                    domain.AccountType(m.AccountType),
		Active:                         m.Active,
		UseForPartnerBalance:           m.UseForPartnerBalance,
		TaxAuthorized:                  m.TaxAuthorized,
		TaxRequired:                    m.TaxRequired,
		AnalyticDistributionAuthorized: m.AnalyticDistributionAuthorized,
		AnalyticDistributionRequired:   m.AnalyticDistributionRequired,
		ManageCutOffPeriod:             m.ManageCutOffPeriod,
		VatSystem:                      domain.VatSystem(m.VatSystem),
		AuditFields:                    ToDomainAuditFields(m.AuditFields),
	}
}
