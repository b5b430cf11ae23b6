package dto

import (
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostMoveRequest carries the optional switches of a single-move posting.
type PostMoveRequest struct {
	// UpdateCustomerBalances defaults to true when omitted.
	UpdateCustomerBalances *bool `json:"updateCustomerBalances"`
}

// PostAllRequest asks for a batch posting of the given moves.
type PostAllRequest struct {
	MoveIDs []string `json:"moveIDs" binding:"required,min=1,dive,required"`
}

// PostAllResponse reports the references of the moves that failed; the rest
// were posted.
type PostAllResponse struct {
	FailedReferences []string `json:"failedReferences"`
}

// SimulateRequest asks for a bulk transition of draft moves to simulated.
type SimulateRequest struct {
	MoveIDs []string `json:"moveIDs" binding:"required,min=1,dive,required"`
}

// MoveLineResponse is one line of a posted or generated move.
type MoveLineResponse struct {
	Counter         int             `json:"counter"`
	Date            time.Time       `json:"date"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	CurrencyAmount  decimal.Decimal `json:"currencyAmount"`
	CurrencyRate    decimal.Decimal `json:"currencyRate"`
	AccountCode     string          `json:"accountCode,omitempty"`
	AccountName     string          `json:"accountName,omitempty"`
	PartnerFullName string          `json:"partnerFullName,omitempty"`
	TaxCode         string          `json:"taxCode,omitempty"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	VatSystem       string          `json:"vatSystem"`
	Description     string          `json:"description,omitempty"`
	Origin          string          `json:"origin,omitempty"`
}

// MoveResponse is the API shape of a move after an operation.
type MoveResponse struct {
	MoveID         string             `json:"moveID"`
	Reference      string             `json:"reference"`
	Status         string             `json:"status"`
	AccountingDate *time.Time         `json:"accountingDate,omitempty"`
	AdjustingMove  bool               `json:"adjustingMove"`
	Lines          []MoveLineResponse `json:"lines"`
}

// ToMoveLineResponse converts a domain line to its API shape.
func ToMoveLineResponse(line *domain.MoveLine) MoveLineResponse {
	resp := MoveLineResponse{
		Counter:        line.Counter,
		Date:           line.Date,
		DueDate:        line.DueDate,
		Debit:          line.Debit,
		Credit:         line.Credit,
		CurrencyAmount: line.CurrencyAmount,
		CurrencyRate:   line.CurrencyRate,
		TaxRate:        line.TaxRate,
		TaxCode:        line.TaxCode,
		VatSystem:      string(line.VatSystem),
		Description:    line.Description,
		Origin:         line.Origin,
	}
	if line.Account != nil {
		resp.AccountCode = line.Account.Code
		resp.AccountName = line.Account.Name
	} else {
		resp.AccountCode = line.AccountCode
		resp.AccountName = line.AccountName
	}
	if line.Partner != nil {
		resp.PartnerFullName = line.Partner.FullName
	} else {
		resp.PartnerFullName = line.PartnerFullName
	}
	return resp
}

// ToMoveResponse converts a domain move to its API shape.
func ToMoveResponse(move *domain.Move) MoveResponse {
	lines := make([]MoveLineResponse, len(move.Lines))
	for i := range move.Lines {
		lines[i] = ToMoveLineResponse(&move.Lines[i])
	}
	return MoveResponse{
		MoveID:         move.MoveID,
		Reference:      move.Reference,
		Status:         string(move.Status),
		AccountingDate: move.AccountingDate,
		AdjustingMove:  move.AdjustingMove,
		Lines:          lines,
	}
}
