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

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/SscSPs/mma_ledger/internal/handlers"
	"github.com/SscSPs/mma_ledger/internal/middleware"
	"github.com/SscSPs/mma_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock Services ---

type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) CreateAsset(ctx context.Context, req dto.CreateAssetRequest, userID string) (*domain.Asset, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockLedgerService) GetAsset(ctx context.Context, assetID string, userID string) (*domain.Asset, error) {
	args := m.Called(ctx, assetID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockLedgerService) ListAssets(ctx context.Context, userID string) ([]domain.Asset, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockLedgerService) RecordEntry(ctx context.Context, assetID string, req dto.RecordEntryRequest, userID string) (*domain.LedgerEntry, *domain.Asset, error) {
	args := m.Called(ctx, assetID, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Get(1).(*domain.Asset), args.Error(2)
}

func (m *MockLedgerService) DeleteEntry(ctx context.Context, entryID string, userID string) (*domain.Asset, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockLedgerService) VerifyAssetBalance(ctx context.Context, assetID string, userID string) (*domain.BalanceCheck, error) {
	args := m.Called(ctx, assetID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceCheck), args.Error(1)
}

type MockDebtService struct {
	mock.Mock
}

var _ portssvc.DebtSvcFacade = (*MockDebtService)(nil)

func (m *MockDebtService) GetDebt(ctx context.Context, debtID string, userID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) ListDebts(ctx context.Context, userID string, includeArchived bool) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, userID string) (*domain.Debt, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) MakePayment(ctx context.Context, record domain.PaymentRecord, userID string) (*domain.PaymentResult, error) {
	args := m.Called(ctx, record, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

type MockPlanningService struct {
	mock.Mock
}

var _ portssvc.PlanningSvcFacade = (*MockPlanningService)(nil)

func (m *MockPlanningService) Project(ctx context.Context, debtID string, monthlyPayment decimal.Decimal, withSchedule bool, userID string) (*domain.PayoffProjection, error) {
	args := m.Called(ctx, debtID, monthlyPayment, withSchedule, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoffProjection), args.Error(1)
}

func (m *MockPlanningService) Plan(ctx context.Context, userID string, extraBudget decimal.Decimal, strategy domain.Strategy) (*domain.StrategyOutcome, error) {
	args := m.Called(ctx, userID, extraBudget, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StrategyOutcome), args.Error(1)
}

func (m *MockPlanningService) Compare(ctx context.Context, userID string, extraBudget decimal.Decimal) (*domain.StrategyComparison, error) {
	args := m.Called(ctx, userID, extraBudget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StrategyComparison), args.Error(1)
}

// --- Test Suite Setup ---

const testUserID = "user-1"

type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	ledger   *MockLedgerService
	debts    *MockDebtService
	planning *MockPlanningService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.ledger = new(MockLedgerService)
	suite.debts = new(MockDebtService)
	suite.planning = new(MockPlanningService)

	cfg := &config.Config{RateLimit: "1000-M"}
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Ledger:   suite.ledger,
		Debt:     suite.debts,
		Planning: suite.planning,
	})
	suite.Require().NoError(err)
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.ledger.AssertExpectations(suite.T())
	suite.debts.AssertExpectations(suite.T())
	suite.planning.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, testUserID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decimalEq(want string) any {
	d := decimal.RequireFromString(want)
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(d) })
}

func sampleAsset(balance string, version int64) *domain.Asset {
	return &domain.Asset{
		AssetID:        "asset-1",
		UserID:         testUserID,
		Name:           "Checking",
		Type:           domain.AssetBankAccount,
		InitialBalance: decimal.RequireFromString("5000"),
		Balance:        decimal.RequireFromString(balance),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			CreatedBy: testUserID,
			Version:   version,
		},
	}
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestMissingUserHeader() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/assets/asset-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCreateAsset_Success() {
	suite.ledger.On("CreateAsset", mock.Anything, mock.MatchedBy(func(r dto.CreateAssetRequest) bool {
		return r.Name == "Checking" && r.InitialBalance.Equal(decimal.NewFromInt(5000))
	}), testUserID).Return(sampleAsset("5000", 1), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/assets", map[string]any{
		"name": "Checking", "type": "bank_account", "initialBalance": "5000",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AssetResponse
	suite.decode(w, &res)
	suite.Equal("asset-1", res.AssetID)
	suite.True(res.Balance.Equal(decimal.NewFromInt(5000)))
	suite.Equal(int64(1), res.Version)
}

func (suite *HandlersTestSuite) TestCreateAsset_BindingErrors() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"type": "cash", "initialBalance": "1"}},
		{"unknown type", map[string]any{"name": "Wallet", "type": "gold", "initialBalance": "1"}},
		{"negative threshold", map[string]any{"name": "Wallet", "type": "cash", "initialBalance": "1", "alertThreshold": "-5"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/assets", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(w.Body.String(), "Invalid request format")
		})
	}
	suite.ledger.AssertNotCalled(suite.T(), "CreateAsset")
}

func (suite *HandlersTestSuite) TestGetAsset_NotFound() {
	suite.ledger.On("GetAsset", mock.Anything, "missing", testUserID).
		Return(nil, fmt.Errorf("%w: asset missing", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/assets/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListAssets() {
	suite.ledger.On("ListAssets", mock.Anything, testUserID).
		Return([]domain.Asset{*sampleAsset("5000", 1)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/assets", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AssetResponse
	suite.decode(w, &res)
	suite.Len(res, 1)
}

func (suite *HandlersTestSuite) TestRecordEntry_Success() {
	entry := &domain.LedgerEntry{EntryID: "entry-1", Kind: domain.Income, Amount: decimal.NewFromInt(3000), AssetID: "asset-1"}
	suite.ledger.On("RecordEntry", mock.Anything, "asset-1", mock.MatchedBy(func(r dto.RecordEntryRequest) bool {
		return r.Kind == domain.Income && r.Amount.Equal(decimal.NewFromInt(3000))
	}), testUserID).Return(entry, sampleAsset("8000", 2), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/assets/asset-1/entries", map[string]any{"kind": "income", "amount": "3000"})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.RecordEntryResponse
	suite.decode(w, &res)
	suite.Equal("entry-1", res.Entry.EntryID)
	suite.True(res.Asset.Balance.Equal(decimal.NewFromInt(8000)))
}

func (suite *HandlersTestSuite) TestRecordEntry_RejectsNonPositiveAmount() {
	w := suite.do(http.MethodPost, "/api/v1/assets/asset-1/entries", map[string]any{"kind": "expense", "amount": "0"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "RecordEntry")
}

func (suite *HandlersTestSuite) TestRecordEntry_Conflict() {
	suite.ledger.On("RecordEntry", mock.Anything, "asset-1", mock.Anything, testUserID).
		Return(nil, nil, fmt.Errorf("%w: asset asset-1 was modified concurrently", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPost, "/api/v1/assets/asset-1/entries", map[string]any{"kind": "expense", "amount": "10"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteEntry() {
	suite.ledger.On("DeleteEntry", mock.Anything, "entry-1", testUserID).Return(sampleAsset("5000", 3), nil).Once()
	suite.ledger.On("DeleteEntry", mock.Anything, "entry-1", testUserID).
		Return(nil, fmt.Errorf("%w: entry entry-1", apperrors.ErrDoubleRevert)).Once()

	first := suite.do(http.MethodDelete, "/api/v1/entries/entry-1", nil)
	suite.Equal(http.StatusOK, first.Code)

	second := suite.do(http.MethodDelete, "/api/v1/entries/entry-1", nil)
	suite.Equal(http.StatusConflict, second.Code)
}

func (suite *HandlersTestSuite) TestVerifyAsset_InternalErrorIsGeneric() {
	suite.ledger.On("VerifyAssetBalance", mock.Anything, "asset-1", testUserID).
		Return(nil, apperrors.NewAppError(500, "failed to list entries", fmt.Errorf("connection reset"))).Once()

	w := suite.do(http.MethodGet, "/api/v1/assets/asset-1/verify", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *HandlersTestSuite) TestListDebts_IncludeArchived() {
	suite.debts.On("ListDebts", mock.Anything, testUserID, true).Return([]domain.Debt{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/debts?includeArchived=true", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
}

func (suite *HandlersTestSuite) TestCreateDebt_Validation() {
	suite.debts.On("CreateDebt", mock.Anything, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: minimum payment exceeds balance", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/debts", map[string]any{
		"name": "Visa", "type": "credit_card", "balance": "100", "interestRate": "2", "minimumPayment": "500",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestMakePayment_Success() {
	result := &domain.PaymentResult{
		Debt:  domain.Debt{DebtID: "debt-1", Balance: decimal.Zero, IsArchived: true},
		Entry: domain.LedgerEntry{EntryID: "entry-9", Kind: domain.Expense, Amount: decimal.NewFromInt(500)},
		Asset: *sampleAsset("1500", 2),
	}
	suite.debts.On("MakePayment", mock.Anything, mock.MatchedBy(func(r domain.PaymentRecord) bool {
		return r.DebtID == "debt-1" && r.AssetID == "asset-1" && r.Type == domain.PaymentRegular && r.Amount.Equal(decimal.NewFromInt(500))
	}), testUserID).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/debts/debt-1/payments", map[string]any{
		"assetID": "asset-1", "amount": "500", "type": "regular",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.PaymentResponse
	suite.decode(w, &res)
	suite.True(res.PaidOff)
	suite.Equal("entry-9", res.Entry.EntryID)
}

func (suite *HandlersTestSuite) TestProjection_LenientPayment() {
	projection := &domain.PayoffProjection{MonthlyPayment: decimal.RequireFromString("12.34"), Converged: false}
	suite.planning.On("Project", mock.Anything, "debt-1", decimalEq("12.34"), true, testUserID).Return(projection, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/debts/debt-1/projection?monthlyPayment=12,34&schedule=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ProjectionResponse
	suite.decode(w, &res)
	suite.Equal(dto.NonConvergentWarning, res.Warning)
}

func (suite *HandlersTestSuite) TestProjection_BadPayment() {
	w := suite.do(http.MethodGet, "/api/v1/debts/debt-1/projection?monthlyPayment=lots", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/debts/debt-1/projection", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestPlan() {
	outcome := &domain.StrategyOutcome{Strategy: domain.Snowball, Converged: true}
	suite.planning.On("Plan", mock.Anything, testUserID, decimalEq("100"), domain.Snowball).Return(outcome, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/plans", map[string]any{"extraBudget": "100", "strategy": "Snowball"})
	suite.Equal(http.StatusOK, w.Code)
	var res dto.PlanResponse
	suite.decode(w, &res)
	suite.Equal(domain.Snowball, res.Strategy)
	suite.Empty(res.Warning)
}

func (suite *HandlersTestSuite) TestPlan_UnknownStrategy() {
	w := suite.do(http.MethodPost, "/api/v1/plans", map[string]any{"extraBudget": "100", "strategy": "random"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.planning.AssertNotCalled(suite.T(), "Plan")
}

func (suite *HandlersTestSuite) TestCompare() {
	comparison := &domain.StrategyComparison{
		Avalanche:     domain.StrategyOutcome{Strategy: domain.Avalanche, Converged: true},
		Snowball:      domain.StrategyOutcome{Strategy: domain.Snowball, Converged: true},
		InterestSaved: decimal.NewFromInt(42),
	}
	suite.planning.On("Compare", mock.Anything, testUserID, decimalEq("0")).Return(comparison, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/plans/compare", map[string]any{"extraBudget": "0"})
	suite.Equal(http.StatusOK, w.Code)
	var res dto.CompareResponse
	suite.decode(w, &res)
	suite.True(res.InterestSaved.Equal(decimal.NewFromInt(42)))
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
