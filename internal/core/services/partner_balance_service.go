package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
)

// partnerBalanceService refreshes partner accounted balances after posting.
type partnerBalanceService struct {
	partnerRepo portsrepo.PartnerRepositoryFacade
}

// NewPartnerBalanceService creates the customer-balance updater.
func NewPartnerBalanceService(partnerRepo portsrepo.PartnerRepositoryFacade) portssvc.CustomerBalanceSvc {
	return &partnerBalanceService{partnerRepo: partnerRepo}
}

var _ portssvc.CustomerBalanceSvc = (*partnerBalanceService)(nil)

// UpdateBalances refreshes the balances of every partner the move touches on
// a partner-balance account.
func (s *partnerBalanceService) UpdateBalances(ctx context.Context, move *domain.Move) error {
	return s.UpdateBalancesForPartners(ctx, PartnersOfMove(move), move.Company)
}

// UpdateBalancesForPartners recomputes and stores the accounted balance of
// each given partner within the company.
func (s *partnerBalanceService) UpdateBalancesForPartners(ctx context.Context, partnerIDs []string, company *domain.Company) error {
	if len(partnerIDs) == 0 || company == nil {
		return nil
	}

	balances, err := s.partnerRepo.ComputeAccountedBalances(ctx, partnerIDs, company.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to recompute balances for company %s: %w", company.CompanyID, err)
	}

	rows := make([]domain.PartnerBalance, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		rows = append(rows, domain.PartnerBalance{
			PartnerID: partnerID,
			CompanyID: company.CompanyID,
			Balance:   balances[partnerID],
		})
	}
	if err := s.partnerRepo.SavePartnerBalances(ctx, rows); err != nil {
		return fmt.Errorf("failed to store partner balances: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Partner balances refreshed",
		slog.Int("partner_count", len(rows)), slog.String("company_id", company.CompanyID))
	return nil
}

// PartnersOfMove returns the distinct partners of the move that impact
// partner balances, in line order.
func PartnersOfMove(move *domain.Move) []string {
	seen := make(map[string]bool)
	var ids []string
	for i := range move.Lines {
		line := &move.Lines[i]
		if line.Partner == nil || line.Account == nil || !line.Account.UseForPartnerBalance {
			continue
		}
		if !seen[line.Partner.PartnerID] {
			seen[line.Partner.PartnerID] = true
			ids = append(ids, line.Partner.PartnerID)
		}
	}
	return ids
}
