package services

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
)

// fiscalPositionService substitutes accounts under a fiscal position.
type fiscalPositionService struct{}

// NewFiscalPositionService creates the fiscal-position account resolver.
func NewFiscalPositionService() portssvc.FiscalPositionSvc {
	return &fiscalPositionService{}
}

var _ portssvc.FiscalPositionSvc = (*fiscalPositionService)(nil)

// ResolveAccount returns the substituted account when the position maps the
// given one, the original account otherwise.
func (s *fiscalPositionService) ResolveAccount(fiscalPosition *domain.FiscalPosition, account *domain.Account) *domain.Account {
	if fiscalPosition == nil || account == nil {
		return account
	}
	for _, eq := range fiscalPosition.Equivalences {
		if eq.FromAccountID == account.AccountID && eq.To != nil {
			return eq.To
		}
	}
	return account
}
