package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/dto"
	"github.com/acctcore/move_accounting_app/internal/handlers"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/acctcore/move_accounting_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock MoveService ---
type MockMoveService struct {
	mock.Mock
}

func (m *MockMoveService) CheckPreconditions(ctx context.Context, move *domain.Move, actorID string) error {
	args := m.Called(ctx, move, actorID)
	return args.Error(0)
}
func (m *MockMoveService) ValidateBalanced(move *domain.Move) error {
	args := m.Called(move)
	return args.Error(0)
}
func (m *MockMoveService) Post(ctx context.Context, move *domain.Move, actorID string) error {
	args := m.Called(ctx, move, actorID)
	return args.Error(0)
}
func (m *MockMoveService) PostWithOptions(ctx context.Context, move *domain.Move, actorID string, updateCustomerBalances bool) error {
	args := m.Called(ctx, move, actorID, updateCustomerBalances)
	return args.Error(0)
}
func (m *MockMoveService) PostDaybook(ctx context.Context, move *domain.Move, actorID string) error {
	args := m.Called(ctx, move, actorID)
	return args.Error(0)
}
func (m *MockMoveService) PostByID(ctx context.Context, moveID string, actorID string, updateCustomerBalances bool) error {
	args := m.Called(ctx, moveID, actorID, updateCustomerBalances)
	return args.Error(0)
}
func (m *MockMoveService) PostDaybookByID(ctx context.Context, moveID string, actorID string) error {
	args := m.Called(ctx, moveID, actorID)
	return args.Error(0)
}
func (m *MockMoveService) PostAll(ctx context.Context, moveIDs []string, actorID string) ([]string, error) {
	args := m.Called(ctx, moveIDs, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockMoveService) SimulateAll(ctx context.Context, moveIDs []string, actorID string) error {
	args := m.Called(ctx, moveIDs, actorID)
	return args.Error(0)
}
func (m *MockMoveService) CompleteMoveLines(move *domain.Move) {
	m.Called(move)
}
func (m *MockMoveService) FreezeFieldsOnLines(move *domain.Move) {
	m.Called(move)
}

var _ portssvc.MoveSvcFacade = (*MockMoveService)(nil)

// --- Mock MoveLineService ---
type MockMoveLineService struct {
	mock.Mock
}

func (m *MockMoveLineService) CreateMoveLine(ctx context.Context, move *domain.Move, in portssvc.MoveLineInput) (domain.MoveLine, error) {
	args := m.Called(ctx, move, in)
	return args.Get(0).(domain.MoveLine), args.Error(1)
}
func (m *MockMoveLineService) CreateMoveLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move) ([]domain.MoveLine, error) {
	args := m.Called(ctx, invoice, move)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MoveLine), args.Error(1)
}
func (m *MockMoveLineService) CreateTaxSplitLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move, counter int) ([]domain.MoveLine, error) {
	args := m.Called(ctx, invoice, move, counter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MoveLine), args.Error(1)
}
func (m *MockMoveLineService) CreateInvoiceTermLines(ctx context.Context, invoice *domain.Invoice, move *domain.Move, counter int, totalToMatch decimal.Decimal) ([]domain.MoveLine, error) {
	args := m.Called(ctx, invoice, move, counter, totalToMatch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MoveLine), args.Error(1)
}

var _ portssvc.MoveLineCreateSvc = (*MockMoveLineService)(nil)

// --- Mock MoveTaxService ---
type MockMoveTaxService struct {
	mock.Mock
}

func (m *MockMoveTaxService) GenerateTaxLines(ctx context.Context, move *domain.Move) error {
	args := m.Called(ctx, move)
	return args.Error(0)
}
func (m *MockMoveTaxService) CheckTaxMoveLines(move *domain.Move) error {
	args := m.Called(move)
	return args.Error(0)
}
func (m *MockMoveTaxService) VatSystemFor(move *domain.Move, line *domain.MoveLine) domain.VatSystem {
	args := m.Called(move, line)
	return args.Get(0).(domain.VatSystem)
}

var _ portssvc.MoveLineTaxSvc = (*MockMoveTaxService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) ConversionRate(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockCurrencyService) Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	args := m.Called(amount, rate)
	return args.Get(0).(decimal.Decimal)
}
func (m *MockCurrencyService) ConvertAtDate(ctx context.Context, fromCode, toCode string, amount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, amount, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockCurrencyService) SaveRate(ctx context.Context, rate domain.ExchangeRate, actorID string) error {
	args := m.Called(ctx, rate, actorID)
	return args.Error(0)
}
func (m *MockCurrencyService) RateAt(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

var _ portssvc.CurrencySvc = (*MockCurrencyService)(nil)

// --- Test Suite ---
type MoveHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockMoveService     *MockMoveService
	mockMoveLineService *MockMoveLineService
	mockMoveTaxService  *MockMoveTaxService
	mockCurrencyService *MockCurrencyService
}

func (suite *MoveHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockMoveService = new(MockMoveService)
	suite.mockMoveLineService = new(MockMoveLineService)
	suite.mockMoveTaxService = new(MockMoveTaxService)
	suite.mockCurrencyService = new(MockCurrencyService)

	services := &portssvc.ServiceContainer{
		Move:     suite.mockMoveService,
		MoveLine: suite.mockMoveLineService,
		MoveTax:  suite.mockMoveTaxService,
		Currency: suite.mockCurrencyService,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{}, services)
}

func (suite *MoveHandlerTestSuite) serve(method, url string, body any, actorID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		suite.Require().NoError(err)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set(middleware.ActorHeader, actorID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *MoveHandlerTestSuite) TestPostMove_Success() {
	moveID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockMoveService.On("PostByID", mock.Anything, moveID, actorID, true).Return(nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/moves/%s/post", moveID), nil, actorID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestPostMove_SkipsBalances() {
	moveID := uuid.NewString()
	actorID := uuid.NewString()
	noBalances := false

	suite.mockMoveService.On("PostByID", mock.Anything, moveID, actorID, false).Return(nil).Once()

	body := dto.PostMoveRequest{UpdateCustomerBalances: &noBalances}
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/moves/%s/post", moveID), body, actorID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestPostMove_MissingActorHeader() {
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/moves/%s/post", uuid.NewString()), nil, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockMoveService.AssertNotCalled(suite.T(), "PostByID")
}

func (suite *MoveHandlerTestSuite) TestPostMove_NotFound() {
	moveID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockMoveService.On("PostByID", mock.Anything, moveID, actorID, true).
		Return(fmt.Errorf("%w: move %s", apperrors.ErrNotFound, moveID)).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/moves/%s/post", moveID), nil, actorID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestPostMove_ConfigurationRejected() {
	moveID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockMoveService.On("PostByID", mock.Anything, moveID, actorID, true).
		Return(fmt.Errorf("%w: journal SAL is closed", apperrors.ErrConfiguration)).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/moves/%s/post", moveID), nil, actorID)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Contains(body["error"], "journal SAL is closed")
}

func (suite *MoveHandlerTestSuite) TestPostDaybookMove_Success() {
	moveID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockMoveService.On("PostDaybookByID", mock.Anything, moveID, actorID).Return(nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/moves/%s/post-daybook", moveID), nil, actorID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestPostAllMoves_ReturnsFailedReferences() {
	actorID := uuid.NewString()
	moveIDs := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	suite.mockMoveService.On("PostAll", mock.Anything, moveIDs, actorID).
		Return([]string{"SAL-2026-00007"}, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/moves/post-all", dto.PostAllRequest{MoveIDs: moveIDs}, actorID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.PostAllResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{"SAL-2026-00007"}, resp.FailedReferences)
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestPostAllMoves_EmptyBatchRejected() {
	w := suite.serve(http.MethodPost, "/api/v1/moves/post-all", dto.PostAllRequest{MoveIDs: []string{}}, uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockMoveService.AssertNotCalled(suite.T(), "PostAll")
}

func (suite *MoveHandlerTestSuite) TestSimulateMoves_Success() {
	actorID := uuid.NewString()
	moveIDs := []string{uuid.NewString()}

	suite.mockMoveService.On("SimulateAll", mock.Anything, moveIDs, actorID).Return(nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/moves/simulate", dto.SimulateRequest{MoveIDs: moveIDs}, actorID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestSimulateMoves_ValidationError() {
	actorID := uuid.NewString()
	moveIDs := []string{uuid.NewString()}

	suite.mockMoveService.On("SimulateAll", mock.Anything, moveIDs, actorID).
		Return(fmt.Errorf("%w: only draft moves can be simulated", apperrors.ErrValidation)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/moves/simulate", dto.SimulateRequest{MoveIDs: moveIDs}, actorID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *MoveHandlerTestSuite) TestGenerateLines_Success() {
	actorID := uuid.NewString()

	generated := []domain.MoveLine{
		{
			MoveLineID:  uuid.NewString(),
			Counter:     1,
			Credit:      decimal.NewFromInt(100),
			AccountCode: "706",
		},
		{
			MoveLineID:  uuid.NewString(),
			Counter:     2,
			Debit:       decimal.NewFromInt(100),
			AccountCode: "411",
		},
	}

	suite.mockMoveLineService.On("CreateMoveLines", mock.Anything, mock.AnythingOfType("*domain.Invoice"), mock.AnythingOfType("*domain.Move")).
		Return(generated, nil).Once()
	suite.mockMoveService.On("CompleteMoveLines", mock.AnythingOfType("*domain.Move")).Return().Once()
	suite.mockMoveTaxService.On("CheckTaxMoveLines", mock.AnythingOfType("*domain.Move")).Return(nil).Once()
	suite.mockMoveService.On("ValidateBalanced", mock.AnythingOfType("*domain.Move")).Return(nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/moves/generate-lines", suite.validGenerateLinesRequest(), actorID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.MoveResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Lines, 2)
	suite.mockMoveLineService.AssertExpectations(suite.T())
	suite.mockMoveService.AssertExpectations(suite.T())
}

func (suite *MoveHandlerTestSuite) TestGenerateLines_InvalidFunctionalOrigin() {
	req := suite.validGenerateLinesRequest()
	req.FunctionalOrigin = "TELEPORT"

	w := suite.serve(http.MethodPost, "/api/v1/moves/generate-lines", req, uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockMoveLineService.AssertNotCalled(suite.T(), "CreateMoveLines")
}

func (suite *MoveHandlerTestSuite) TestGenerateLines_ServiceConfigurationError() {
	suite.mockMoveLineService.On("CreateMoveLines", mock.Anything, mock.AnythingOfType("*domain.Invoice"), mock.AnythingOfType("*domain.Move")).
		Return(nil, fmt.Errorf("%w: no hold-back account configured", apperrors.ErrConfiguration)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/moves/generate-lines", suite.validGenerateLinesRequest(), uuid.NewString())

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockMoveTaxService.AssertNotCalled(suite.T(), "CheckTaxMoveLines")
}

func (suite *MoveHandlerTestSuite) validGenerateLinesRequest() dto.GenerateLinesRequest {
	return dto.GenerateLinesRequest{
		MoveDate:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode:     "EUR",
		FunctionalOrigin: string(domain.FunctionalOriginSale),
		Company: dto.CompanyPayload{
			CompanyID:    uuid.NewString(),
			Name:         "ACME",
			CurrencyCode: "EUR",
		},
		Invoice: dto.InvoicePayload{
			InvoiceNumber: "INV-2026-001",
			Operation:     "SALE",
			Date:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			CurrencyCode:  "EUR",
			Partner: dto.PartnerPayload{
				PartnerID: uuid.NewString(),
				FullName:  "Wayne Enterprises",
			},
			PartnerAccount: dto.AccountPayload{
				AccountID:            uuid.NewString(),
				Code:                 "411",
				Name:                 "Customers",
				UseForPartnerBalance: true,
			},
			Lines: []dto.InvoiceLinePayload{
				{
					ProductName: "Consulting",
					ExTaxTotal:  decimal.NewFromInt(100),
					Account: &dto.AccountPayload{
						AccountID: uuid.NewString(),
						Code:      "706",
						Name:      "Services",
					},
				},
			},
			Terms: []dto.InvoiceTermPayload{
				{
					Amount:  decimal.NewFromInt(100),
					DueDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}
}

// --- Run Test Suite ---
func TestMoveHandler(t *testing.T) {
	suite.Run(t, new(MoveHandlerTestSuite))
}
