package services

import (
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
)

// NewServiceContainer wires every service over the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.ExchangeRate)
	fiscalPositionSvc := NewFiscalPositionService()
	taxAccountSvc := NewTaxAccountService()
	analyticSvc := NewAnalyticService()
	periodAuthSvc := NewPeriodAuthService()
	sequenceSvc := NewSequenceService(repos.Sequence)
	customerBalanceSvc := NewPartnerBalanceService(repos.Partner)
	fixedAssetSvc := NewFixedAssetService(repos.FixedAsset)

	moveLineTaxSvc := NewMoveLineTaxService(taxAccountSvc)
	moveLineCreateSvc := NewMoveLineCreateService(currencySvc, fiscalPositionSvc, taxAccountSvc, analyticSvc)
	moveSvc := NewMoveValidateService(repos.Move, sequenceSvc, periodAuthSvc,
		customerBalanceSvc, fixedAssetSvc, moveLineTaxSvc)

	return &portssvc.ServiceContainer{
		Move:     moveSvc,
		MoveLine: moveLineCreateSvc,
		MoveTax:  moveLineTaxSvc,
		Currency: currencySvc,
		Sequence: sequenceSvc,
	}
}
