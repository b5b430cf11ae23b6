package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticAccount is a cost-center style secondary account.
type AnalyticAccount struct {
	AnalyticAccountID string `json:"analyticAccountID"`
	Code              string `json:"code"`
	Active            bool   `json:"active"`
}

// AnalyticJournal groups analytic allocations.
type AnalyticJournal struct {
	AnalyticJournalID string `json:"analyticJournalID"`
	Name              string `json:"name"`
	Active            bool   `json:"active"`
}

// AnalyticLineType distinguishes forecast allocations (on commercial
// documents) from real accounting allocations (on move lines).
type AnalyticLineType string

const (
	AnalyticLineForecast AnalyticLineType = "FORECAST"
	AnalyticLineReal     AnalyticLineType = "REAL"
)

// AnalyticMoveLine is one analytic allocation. Owned by the move line it is
// attached to once copied; document-line allocations are independent.
type AnalyticMoveLine struct {
	AnalyticMoveLineID string           `json:"analyticMoveLineID"`
	AnalyticAccount    *AnalyticAccount `json:"analyticAccount"`
	AnalyticJournal    *AnalyticJournal `json:"analyticJournal"`
	Type               AnalyticLineType `json:"type"`
	Percentage         decimal.Decimal  `json:"percentage"` // 0..100
	Amount             decimal.Decimal  `json:"amount"`
	Date               time.Time        `json:"date"`
}

// AnalyticDistributionLine is one template rule.
type AnalyticDistributionLine struct {
	AnalyticAccount *AnalyticAccount `json:"analyticAccount"`
	AnalyticJournal *AnalyticJournal `json:"analyticJournal"`
	Percentage      decimal.Decimal  `json:"percentage"`
}

// AnalyticDistributionTemplate predefines how amounts on an account spread
// across analytic accounts.
type AnalyticDistributionTemplate struct {
	TemplateID string                     `json:"templateID"`
	Name       string                     `json:"name"`
	Lines      []AnalyticDistributionLine `json:"lines"`
}
