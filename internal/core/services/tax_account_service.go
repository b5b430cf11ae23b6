package services

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
)

// taxAccountService resolves tax posting accounts from the tax's per-company
// configuration.
type taxAccountService struct{}

// NewTaxAccountService creates the tax-account resolver.
func NewTaxAccountService() portssvc.TaxAccountSvc {
	return &taxAccountService{}
}

var _ portssvc.TaxAccountSvc = (*taxAccountService)(nil)

// ResolveTaxAccount returns the configured account for the (tax, company,
// direction, fixed-asset) combination, nil when none is configured.
func (s *taxAccountService) ResolveTaxAccount(tax *domain.Tax, company *domain.Company, isPurchase, isFixedAsset bool) *domain.Account {
	if tax == nil || company == nil {
		return nil
	}
	for _, cfg := range tax.AccountConfigs {
		if cfg.CompanyID == company.CompanyID && cfg.IsPurchase == isPurchase && cfg.IsFixedAsset == isFixedAsset {
			return cfg.Account
		}
	}
	return nil
}
