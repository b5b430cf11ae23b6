package services

import (
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// analyticService spreads line amounts across analytic accounts.
type analyticService struct{}

// NewAnalyticService creates the analytic distribution service.
func NewAnalyticService() portssvc.AnalyticSvc {
	return &analyticService{}
}

var _ portssvc.AnalyticSvc = (*analyticService)(nil)

// GenerateLines builds allocations from the line account's distribution
// template. The base amount is debit+credit (exactly one side is set).
func (s *analyticService) GenerateLines(line *domain.MoveLine) []domain.AnalyticMoveLine {
	template := line.DistributionTemplate
	if template == nil && line.Account != nil {
		template = line.Account.DistributionTemplate
	}
	if template == nil {
		return nil
	}

	amount := line.Debit.Add(line.Credit)
	allocations := make([]domain.AnalyticMoveLine, 0, len(template.Lines))
	for _, rule := range template.Lines {
		allocations = append(allocations, domain.AnalyticMoveLine{
			AnalyticMoveLineID: uuid.NewString(),
			AnalyticAccount:    rule.AnalyticAccount,
			AnalyticJournal:    rule.AnalyticJournal,
			Type:               domain.AnalyticLineReal,
			Percentage:         rule.Percentage,
			Amount:             amount.Mul(rule.Percentage).DivRound(oneHundred, AmountScale),
			Date:               line.Date,
		})
	}
	return allocations
}

// RecomputeLine rescales a copied allocation against a new base amount and
// date, switching it to real accounting type.
func (s *analyticService) RecomputeLine(allocation domain.AnalyticMoveLine, amount decimal.Decimal, date time.Time) domain.AnalyticMoveLine {
	allocation.AnalyticMoveLineID = uuid.NewString()
	allocation.Type = domain.AnalyticLineReal
	allocation.Amount = amount.Mul(allocation.Percentage).DivRound(oneHundred, AmountScale)
	allocation.Date = date
	return allocation
}
