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

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRateAtDate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Test Suite ---
type MoveLineCreateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.MoveLineCreateSvc
}

func (s *MoveLineCreateServiceTestSuite) SetupTest() {
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.service = services.NewMoveLineCreateService(
		services.NewCurrencyService(s.mockRateRepo),
		services.NewFiscalPositionService(),
		services.NewTaxAccountService(),
		services.NewAnalyticService(),
	)
}

func newStagingMove() *domain.Move {
	return &domain.Move{
		MoveID:       uuid.NewString(),
		Date:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "EUR",
		Company: &domain.Company{
			CompanyID:    uuid.NewString(),
			Name:         "ACME",
			CurrencyCode: "EUR",
		},
	}
}

func newSaleInvoice(company *domain.Company) *domain.Invoice {
	incomeAccount := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "706",
		Name:        "Services",
		AccountType: domain.AccountTypeIncome,
		Active:      true,
	}
	partnerAccount := &domain.Account{
		AccountID:            uuid.NewString(),
		Code:                 "411",
		Name:                 "Customers",
		AccountType:          domain.AccountTypeAsset,
		Active:               true,
		UseForPartnerBalance: true,
	}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &domain.Invoice{
		InvoiceID:      uuid.NewString(),
		InvoiceNumber:  "INV-0042",
		Operation:      domain.InvoiceOperationSale,
		Date:           date,
		CurrencyCode:   "EUR",
		Partner:        &domain.Partner{PartnerID: uuid.NewString(), FullName: "Dupont"},
		PartnerAccount: partnerAccount,
		Lines: []domain.InvoiceLine{
			{
				ProductName:       "Consulting",
				Account:           incomeAccount,
				ExTaxTotal:        decimal.NewFromInt(100),
				CompanyExTaxTotal: decimal.NewFromInt(100),
			},
		},
		Terms: []domain.InvoiceTerm{
			{InvoiceTermID: uuid.NewString(), Amount: decimal.NewFromInt(100), DueDate: date.AddDate(0, 1, 0)},
		},
	}
}

// --- CreateMoveLine ---

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLine_NegativeAmountFlipsSide() {
	move := newStagingMove()
	account := &domain.Account{AccountID: uuid.NewString(), Code: "606", Active: true}

	line, err := s.service.CreateMoveLine(context.Background(), move, portssvc.MoveLineInput{
		Account:        account,
		CurrencyAmount: decimal.NewFromInt(-50),
		CompanyAmount:  decimal.NewFromInt(-50),
		IsDebit:        true,
		Date:           move.Date,
		Counter:        1,
	})

	assert.NoError(s.T(), err)
	assert.True(s.T(), line.Debit.IsZero())
	assert.True(s.T(), decimal.NewFromInt(50).Equal(line.Credit))
	assert.True(s.T(), decimal.NewFromInt(50).Equal(line.CurrencyAmount))
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLine_DerivesRateAtFiveDigits() {
	move := newStagingMove()
	account := &domain.Account{AccountID: uuid.NewString(), Code: "606", Active: true}

	line, err := s.service.CreateMoveLine(context.Background(), move, portssvc.MoveLineInput{
		Account:        account,
		CurrencyAmount: decimal.NewFromInt(3),
		CompanyAmount:  decimal.NewFromInt(1),
		IsDebit:        true,
		Date:           move.Date,
		Counter:        1,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "0.33333", line.CurrencyRate.String())
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLine_ConvertsWhenNoCompanyAmount() {
	move := newStagingMove()
	move.CurrencyCode = "USD"
	account := &domain.Account{AccountID: uuid.NewString(), Code: "606", Active: true}
	s.mockRateRepo.On("FindRateAtDate", mock.Anything, "USD", "EUR", move.Date).Return(&domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.9),
		DateEffective:    move.Date.AddDate(0, 0, -1),
	}, nil)

	line, err := s.service.CreateMoveLine(context.Background(), move, portssvc.MoveLineInput{
		Account:        account,
		CurrencyAmount: decimal.NewFromInt(100),
		IsDebit:        true,
		Date:           move.Date,
		Counter:        1,
	})

	assert.NoError(s.T(), err)
	assert.True(s.T(), decimal.NewFromInt(90).Equal(line.Debit), "debit is %s", line.Debit)
	assert.Equal(s.T(), "0.9", line.CurrencyRate.String())
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLine_ClearsPartnerOnNonPartnerAccount() {
	move := newStagingMove()
	account := &domain.Account{AccountID: uuid.NewString(), Code: "706", Active: true, UseForPartnerBalance: false}

	line, err := s.service.CreateMoveLine(context.Background(), move, portssvc.MoveLineInput{
		Partner:        &domain.Partner{PartnerID: "p1"},
		Account:        account,
		CurrencyAmount: decimal.NewFromInt(10),
		CompanyAmount:  decimal.NewFromInt(10),
		IsDebit:        false,
		Date:           move.Date,
		Counter:        1,
	})

	assert.NoError(s.T(), err)
	assert.Nil(s.T(), line.Partner)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLine_AppliesFiscalPositionSubstitution() {
	move := newStagingMove()
	original := &domain.Account{AccountID: "acc-1", Code: "411", Active: true, UseForPartnerBalance: true}
	substitute := &domain.Account{AccountID: "acc-2", Code: "411X", Active: true, UseForPartnerBalance: true}
	partner := &domain.Partner{
		PartnerID: "p1",
		FiscalPosition: &domain.FiscalPosition{
			Equivalences: []domain.AccountEquivalence{{FromAccountID: "acc-1", To: substitute}},
		},
	}

	line, err := s.service.CreateMoveLine(context.Background(), move, portssvc.MoveLineInput{
		Partner:        partner,
		Account:        original,
		CurrencyAmount: decimal.NewFromInt(10),
		CompanyAmount:  decimal.NewFromInt(10),
		IsDebit:        true,
		Date:           move.Date,
		Counter:        1,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "411X", line.Account.Code)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLine_TruncatesDescription() {
	move := newStagingMove()
	account := &domain.Account{AccountID: uuid.NewString(), Code: "606", Active: true}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	line, err := s.service.CreateMoveLine(context.Background(), move, portssvc.MoveLineInput{
		Account:        account,
		CurrencyAmount: decimal.NewFromInt(10),
		CompanyAmount:  decimal.NewFromInt(10),
		IsDebit:        true,
		Date:           move.Date,
		Counter:        1,
		Description:    string(long),
	})

	assert.NoError(s.T(), err)
	assert.Len(s.T(), line.Description, 255)
}

// --- CreateMoveLines ---

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_SimpleSaleInvoice() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)

	lines, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), lines, 2)
	// Product line credits income, term line debits the customer.
	assert.True(s.T(), decimal.NewFromInt(100).Equal(lines[0].Credit))
	assert.True(s.T(), decimal.NewFromInt(100).Equal(lines[1].Debit))
	assert.Equal(s.T(), "411", lines[1].Account.Code)
	assert.Equal(s.T(), invoice.Partner.PartnerID, lines[1].Partner.PartnerID)
	assert.Equal(s.T(), []string{invoice.Terms[0].InvoiceTermID}, lines[1].InvoiceTermIDs)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_MissingPartnerAccount() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.PartnerAccount = nil

	_, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.ErrorIs(s.T(), err, apperrors.ErrMissingField)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_SkipsZeroLines() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.Lines = append(invoice.Lines, domain.InvoiceLine{
		ProductName:       "Freebie",
		ExTaxTotal:        decimal.Zero,
		CompanyExTaxTotal: decimal.Zero,
	})

	lines, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), lines, 2)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_TermRoundingReconciled() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.CurrencyCode = "USD"
	move.CurrencyCode = "USD"
	invoice.Lines[0].ExTaxTotal = decimal.NewFromInt(100)
	invoice.Lines[0].CompanyExTaxTotal = decimal.NewFromInt(50)
	date := invoice.Date
	invoice.Terms = []domain.InvoiceTerm{
		{InvoiceTermID: uuid.NewString(), Amount: decimal.NewFromFloat(33.33), DueDate: date.AddDate(0, 1, 0)},
		{InvoiceTermID: uuid.NewString(), Amount: decimal.NewFromFloat(33.33), DueDate: date.AddDate(0, 2, 0)},
		{InvoiceTermID: uuid.NewString(), Amount: decimal.NewFromFloat(33.34), DueDate: date.AddDate(0, 3, 0)},
	}
	s.mockRateRepo.On("FindRateAtDate", mock.Anything, "USD", "EUR", date).Return(&domain.ExchangeRate{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.5),
		DateEffective:    date,
	}, nil)

	lines, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), lines, 2)
	// Term conversions sum to 50.01; the accumulation line absorbs the cent
	// so debits match the 50.00 credited on the product line.
	accum := lines[1]
	assert.True(s.T(), decimal.NewFromInt(50).Equal(accum.Debit), "debit is %s", accum.Debit)
	assert.True(s.T(), decimal.NewFromInt(100).Equal(accum.CurrencyAmount))
	assert.Len(s.T(), accum.InvoiceTermIDs, 3)
	// Due date is the latest non-hold-back term due date.
	assert.Equal(s.T(), date.AddDate(0, 3, 0), *accum.DueDate)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_HoldBackTermSeparated() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	holdBackAccount := &domain.Account{
		AccountID:            uuid.NewString(),
		Code:                 "4117",
		Active:               true,
		UseForPartnerBalance: true,
	}
	invoice.HoldBackAccount = holdBackAccount
	date := invoice.Date
	holdBackDue := date.AddDate(1, 0, 0)
	invoice.Terms = []domain.InvoiceTerm{
		{InvoiceTermID: "t1", Amount: decimal.NewFromInt(90), DueDate: date.AddDate(0, 1, 0)},
		{InvoiceTermID: "t2", Amount: decimal.NewFromInt(10), DueDate: holdBackDue, IsHoldBack: true},
	}

	lines, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), lines, 3)

	var holdBack, accum *domain.MoveLine
	for i := range lines {
		switch lines[i].Account.Code {
		case "4117":
			holdBack = &lines[i]
		case "411":
			accum = &lines[i]
		}
	}
	assert.NotNil(s.T(), holdBack)
	assert.NotNil(s.T(), accum)
	assert.True(s.T(), decimal.NewFromInt(10).Equal(holdBack.Debit))
	assert.Equal(s.T(), holdBackDue, *holdBack.DueDate)
	assert.Equal(s.T(), []string{"t2"}, holdBack.InvoiceTermIDs)
	assert.True(s.T(), decimal.NewFromInt(90).Equal(accum.Debit))
	assert.Equal(s.T(), []string{"t1"}, accum.InvoiceTermIDs)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_HoldBackWithoutAccount() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.Terms[0].IsHoldBack = true

	_, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.ErrorIs(s.T(), err, apperrors.ErrConfiguration)
	assert.Contains(s.T(), err.Error(), "hold-back account")
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_AnalyticRequiredMissing() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.Lines[0].Account.AnalyticDistributionAuthorized = true
	invoice.Lines[0].Account.AnalyticDistributionRequired = true

	_, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.ErrorIs(s.T(), err, apperrors.ErrMissingField)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateMoveLines_CopiesAnalyticAllocations() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.Lines[0].Account.AnalyticDistributionAuthorized = true
	invoice.Lines[0].AnalyticLines = []domain.AnalyticMoveLine{{
		AnalyticMoveLineID: uuid.NewString(),
		AnalyticAccount:    &domain.AnalyticAccount{AnalyticAccountID: "aa1", Code: "PROJ-A", Active: true},
		Type:               domain.AnalyticLineForecast,
		Percentage:         decimal.NewFromInt(100),
	}}

	lines, err := s.service.CreateMoveLines(context.Background(), invoice, move)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), lines[0].AnalyticLines, 1)
	allocation := lines[0].AnalyticLines[0]
	assert.Equal(s.T(), domain.AnalyticLineReal, allocation.Type)
	assert.True(s.T(), decimal.NewFromInt(100).Equal(allocation.Amount), "amount is %s", allocation.Amount)
	assert.NotEqual(s.T(), invoice.Lines[0].AnalyticLines[0].AnalyticMoveLineID, allocation.AnalyticMoveLineID)
}

// --- CreateTaxSplitLines ---

func (s *MoveLineCreateServiceTestSuite) TestCreateTaxSplitLines_SplitsByFixedAsset() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	invoice.Operation = domain.InvoiceOperationPurchase

	regularTaxAccount := &domain.Account{AccountID: uuid.NewString(), Code: "44566", AccountType: domain.AccountTypeTax, Active: true}
	assetTaxAccount := &domain.Account{AccountID: uuid.NewString(), Code: "44562", AccountType: domain.AccountTypeTax, Active: true}
	taxLine := &domain.TaxLine{
		TaxLineID: uuid.NewString(),
		Name:      "VAT 20%",
		Value:     decimal.NewFromFloat(0.20),
		Tax: &domain.Tax{
			TaxID: uuid.NewString(),
			Code:  "VAT20",
			Name:  "VAT 20%",
			AccountConfigs: []domain.TaxAccountConfig{
				{CompanyID: move.Company.CompanyID, IsPurchase: true, IsFixedAsset: false, Account: regularTaxAccount},
				{CompanyID: move.Company.CompanyID, IsPurchase: true, IsFixedAsset: true, Account: assetTaxAccount},
			},
		},
	}
	invoice.TaxTotals = []domain.InvoiceLineTax{{
		TaxLine:                             taxLine,
		TaxTotal:                            decimal.NewFromInt(30),
		CompanyTaxTotal:                     decimal.NewFromInt(30),
		SubTotalOfFixedAssets:               decimal.NewFromInt(20),
		CompanySubTotalOfFixedAssets:        decimal.NewFromInt(20),
		SubTotalExcludingFixedAssets:        decimal.NewFromInt(10),
		CompanySubTotalExcludingFixedAssets: decimal.NewFromInt(10),
		VatSystem:                           domain.VatSystemOnDebit,
	}}

	lines, err := s.service.CreateTaxSplitLines(context.Background(), invoice, move, 5)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), lines, 2)
	assert.Equal(s.T(), "44562", lines[0].Account.Code)
	assert.True(s.T(), decimal.NewFromInt(20).Equal(lines[0].Debit))
	assert.Equal(s.T(), "44566", lines[1].Account.Code)
	assert.True(s.T(), decimal.NewFromInt(10).Equal(lines[1].Debit))
	assert.Equal(s.T(), domain.VatSystemOnDebit, lines[0].VatSystem)
	assert.Equal(s.T(), "VAT20", lines[0].TaxCode)
}

func (s *MoveLineCreateServiceTestSuite) TestCreateTaxSplitLines_NoAccountConfigured() {
	move := newStagingMove()
	invoice := newSaleInvoice(move.Company)
	taxLine := &domain.TaxLine{
		TaxLineID: uuid.NewString(),
		Name:      "VAT 20%",
		Value:     decimal.NewFromFloat(0.20),
		Tax:       &domain.Tax{TaxID: uuid.NewString(), Code: "VAT20", Name: "VAT 20%"},
	}
	invoice.TaxTotals = []domain.InvoiceLineTax{{
		TaxLine:                             taxLine,
		TaxTotal:                            decimal.NewFromInt(20),
		CompanyTaxTotal:                     decimal.NewFromInt(20),
		SubTotalExcludingFixedAssets:        decimal.NewFromInt(20),
		CompanySubTotalExcludingFixedAssets: decimal.NewFromInt(20),
	}}

	_, err := s.service.CreateTaxSplitLines(context.Background(), invoice, move, 2)

	assert.ErrorIs(s.T(), err, apperrors.ErrConfiguration)
	assert.Contains(s.T(), err.Error(), "no tax account")
}

func TestMoveLineCreateService(t *testing.T) {
	suite.Run(t, new(MoveLineCreateServiceTestSuite))
}
