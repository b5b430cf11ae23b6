package services

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
)

// periodAuthService decides who may account on restricted periods. The actor
// is threaded in explicitly; there is no ambient session.
type periodAuthService struct{}

// NewPeriodAuthService creates the period authorization check.
func NewPeriodAuthService() portssvc.PeriodAuthSvc {
	return &periodAuthService{}
}

var _ portssvc.PeriodAuthSvc = (*periodAuthService)(nil)

// IsPeriodOpenFor reports whether the actor may account on the period. Open
// periods accept everyone; closed and adjusting periods only the explicitly
// authorized actors.
func (s *periodAuthService) IsPeriodOpenFor(period *domain.Period, actorID string) bool {
	if period == nil {
		return false
	}
	if period.Status == domain.PeriodStatusOpen {
		return true
	}
	for _, id := range period.AuthorizedUserIDs {
		if id == actorID {
			return true
		}
	}
	return false
}
