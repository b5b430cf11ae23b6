package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TaxAccountSvc ---
type MockTaxAccountSvc struct {
	mock.Mock
}

func (m *MockTaxAccountSvc) ResolveTaxAccount(tax *domain.Tax, company *domain.Company, isPurchase, isFixedAsset bool) *domain.Account {
	args := m.Called(tax, company, isPurchase, isFixedAsset)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Account)
}

// --- Test Suite ---
type MoveLineTaxServiceTestSuite struct {
	suite.Suite
	mockTaxAccount *MockTaxAccountSvc
	service        portssvc.MoveLineTaxSvc
}

func (s *MoveLineTaxServiceTestSuite) SetupTest() {
	s.mockTaxAccount = new(MockTaxAccountSvc)
	s.service = services.NewMoveLineTaxService(s.mockTaxAccount)
}

func newTaxedMove() (*domain.Move, *domain.TaxLine, *domain.Account) {
	taxLine := &domain.TaxLine{
		TaxLineID: uuid.NewString(),
		Name:      "VAT 20%",
		Value:     decimal.NewFromFloat(0.20),
		Tax:       &domain.Tax{TaxID: uuid.NewString(), Code: "VAT20", Name: "VAT 20%"},
	}
	taxAccount := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "44571",
		AccountType: domain.AccountTypeTax,
		Active:      true,
	}
	incomeAccount := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "706",
		AccountType: domain.AccountTypeIncome,
		Active:      true,
		VatSystem:   domain.VatSystemOnDebit,
	}
	move := &domain.Move{
		MoveID:       uuid.NewString(),
		Reference:    "SAL-2026-00001",
		Date:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "EUR",
		Company:      &domain.Company{CompanyID: uuid.NewString(), Name: "ACME", CurrencyCode: "EUR"},
		Lines: []domain.MoveLine{
			{
				MoveLineID:     uuid.NewString(),
				Counter:        1,
				Date:           time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				Credit:         decimal.NewFromInt(100),
				CurrencyAmount: decimal.NewFromInt(100),
				CurrencyRate:   decimal.NewFromInt(1),
				Account:        incomeAccount,
				TaxLine:        taxLine,
			},
		},
	}
	return move, taxLine, taxAccount
}

func (s *MoveLineTaxServiceTestSuite) TestGenerateTaxLines_CreatesTaxLine() {
	move, taxLine, taxAccount := newTaxedMove()
	s.mockTaxAccount.On("ResolveTaxAccount", taxLine.Tax, move.Company, false, false).Return(taxAccount)

	err := s.service.GenerateTaxLines(context.Background(), move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), move.Lines, 2)
	generated := move.Lines[1]
	assert.Equal(s.T(), 2, generated.Counter)
	assert.Equal(s.T(), taxAccount, generated.Account)
	assert.True(s.T(), decimal.NewFromInt(20).Equal(generated.Credit), "credit is %s", generated.Credit)
	assert.True(s.T(), generated.Debit.IsZero())
	assert.Equal(s.T(), taxLine, generated.SourceTaxLine)
	assert.Equal(s.T(), domain.VatSystemOnDebit, generated.VatSystem)
	assert.Equal(s.T(), "VAT20", generated.TaxCode)
	assert.Equal(s.T(), "VAT 20%", generated.Description)
}

func (s *MoveLineTaxServiceTestSuite) TestGenerateTaxLines_AccumulatesSameBucket() {
	move, taxLine, taxAccount := newTaxedMove()
	second := move.Lines[0]
	second.MoveLineID = uuid.NewString()
	second.Counter = 2
	second.Credit = decimal.NewFromInt(50)
	second.CurrencyAmount = decimal.NewFromInt(50)
	move.Lines = append(move.Lines, second)
	s.mockTaxAccount.On("ResolveTaxAccount", taxLine.Tax, move.Company, false, false).Return(taxAccount)

	err := s.service.GenerateTaxLines(context.Background(), move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), move.Lines, 3)
	assert.True(s.T(), decimal.NewFromInt(30).Equal(move.Lines[2].Credit), "credit is %s", move.Lines[2].Credit)
}

func (s *MoveLineTaxServiceTestSuite) TestGenerateTaxLines_FixedAssetPurchase() {
	move, taxLine, taxAccount := newTaxedMove()
	move.Lines[0].Account.AccountType = domain.AccountTypeImmobilisation
	move.Lines[0].Credit = decimal.Zero
	move.Lines[0].Debit = decimal.NewFromInt(100)
	s.mockTaxAccount.On("ResolveTaxAccount", taxLine.Tax, move.Company, true, true).Return(taxAccount)

	err := s.service.GenerateTaxLines(context.Background(), move)

	assert.NoError(s.T(), err)
	assert.True(s.T(), decimal.NewFromInt(20).Equal(move.Lines[1].Debit))
	s.mockTaxAccount.AssertExpectations(s.T())
}

func (s *MoveLineTaxServiceTestSuite) TestGenerateTaxLines_NoAccountConfigured() {
	move, taxLine, _ := newTaxedMove()
	s.mockTaxAccount.On("ResolveTaxAccount", taxLine.Tax, move.Company, false, false).Return(nil)

	err := s.service.GenerateTaxLines(context.Background(), move)

	assert.ErrorIs(s.T(), err, apperrors.ErrConfiguration)
}

func (s *MoveLineTaxServiceTestSuite) TestGenerateTaxLines_MergesIntoExistingTaxLine() {
	move, taxLine, taxAccount := newTaxedMove()
	move.Lines = append(move.Lines, domain.MoveLine{
		MoveLineID:    uuid.NewString(),
		Counter:       2,
		Credit:        decimal.NewFromInt(5),
		Account:       taxAccount,
		SourceTaxLine: taxLine,
	})
	s.mockTaxAccount.On("ResolveTaxAccount", taxLine.Tax, move.Company, false, false).Return(taxAccount)

	err := s.service.GenerateTaxLines(context.Background(), move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), move.Lines, 2)
	assert.True(s.T(), decimal.NewFromInt(25).Equal(move.Lines[1].Credit), "credit is %s", move.Lines[1].Credit)
}

func (s *MoveLineTaxServiceTestSuite) TestCheckTaxMoveLines_Coherent() {
	move, taxLine, taxAccount := newTaxedMove()
	move.Lines = append(move.Lines, domain.MoveLine{
		MoveLineID:    uuid.NewString(),
		Counter:       2,
		Credit:        decimal.NewFromInt(20),
		Account:       taxAccount,
		SourceTaxLine: taxLine,
	})

	err := s.service.CheckTaxMoveLines(move)

	assert.NoError(s.T(), err)
}

func (s *MoveLineTaxServiceTestSuite) TestCheckTaxMoveLines_MissingTaxLine() {
	move, _, _ := newTaxedMove()

	err := s.service.CheckTaxMoveLines(move)

	assert.ErrorIs(s.T(), err, apperrors.ErrInconsistency)
	assert.Contains(s.T(), err.Error(), "has no tax line")
}

func (s *MoveLineTaxServiceTestSuite) TestCheckTaxMoveLines_OrphanTaxLine() {
	move, taxLine, taxAccount := newTaxedMove()
	move.Lines[0].TaxLine = nil
	move.Lines = append(move.Lines, domain.MoveLine{
		MoveLineID:    uuid.NewString(),
		Counter:       2,
		Credit:        decimal.NewFromInt(20),
		Account:       taxAccount,
		SourceTaxLine: taxLine,
	})

	err := s.service.CheckTaxMoveLines(move)

	assert.ErrorIs(s.T(), err, apperrors.ErrInconsistency)
	assert.Contains(s.T(), err.Error(), "matches no taxed base line")
}

func (s *MoveLineTaxServiceTestSuite) TestVatSystemFor_FallsBackToOnDebit() {
	move, _, _ := newTaxedMove()
	move.Lines[0].Account.VatSystem = domain.VatSystemDefault

	vatSystem := s.service.VatSystemFor(move, &move.Lines[0])

	assert.Equal(s.T(), domain.VatSystemOnDebit, vatSystem)
}

func (s *MoveLineTaxServiceTestSuite) TestVatSystemFor_UsesAccountSelection() {
	move, _, _ := newTaxedMove()
	move.Lines[0].Account.VatSystem = domain.VatSystemOnPayment

	vatSystem := s.service.VatSystemFor(move, &move.Lines[0])

	assert.Equal(s.T(), domain.VatSystemOnPayment, vatSystem)
}

func TestMoveLineTaxService(t *testing.T) {
	suite.Run(t, new(MoveLineTaxServiceTestSuite))
}
