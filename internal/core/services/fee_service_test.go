package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
	"github.com/summitwm/wealth_backoffice_app/internal/core/services"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
)

// --- Mock AccountReader ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock PositionRepositoryFacade ---
type MockPositionRepository struct {
	mock.Mock
}

var _ portsrepo.PositionRepositoryFacade = (*MockPositionRepository)(nil)

func (m *MockPositionRepository) FindOpenPositionsByAccountID(ctx context.Context, accountID string) ([]domain.Position, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Position), args.Error(1)
}

func (m *MockPositionRepository) FindSectorsBySecurityIDs(ctx context.Context, securityIDs []string) (map[string]string, error) {
	args := m.Called(ctx, securityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockPositionRepository) TimeWeightedAverageValue(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock TradeReader ---
type MockTradeRepository struct {
	mock.Mock
}

var _ portsrepo.TradeReader = (*MockTradeRepository)(nil)

func (m *MockTradeRepository) FindTradesByAccountInPeriod(ctx context.Context, accountID string, start, end time.Time) ([]domain.Trade, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

// --- Mock FeeRepositoryFacade ---
type MockFeeRepository struct {
	mock.Mock
}

var _ portsrepo.FeeRepositoryFacade = (*MockFeeRepository)(nil)

func (m *MockFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) ListFeesByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Fee, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fee), args.Error(1)
}

func (m *MockFeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) FindRetrocessionsByFeeID(ctx context.Context, feeID string) ([]domain.Retrocession, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Retrocession), args.Error(1)
}

func (m *MockFeeRepository) SaveRetrocession(ctx context.Context, retro domain.Retrocession) error {
	args := m.Called(ctx, retro)
	return args.Error(0)
}

// --- Test Suite ---
type FeeServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockPositionRepo *MockPositionRepository
	mockTradeRepo    *MockTradeRepository
	mockFeeRepo      *MockFeeRepository
	service          portssvc.FeeSvcFacade

	now         time.Time
	userID      string
	account     domain.Account
	periodStart time.Time
	periodEnd   time.Time
}

func (suite *FeeServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPositionRepo = new(MockPositionRepository)
	suite.mockTradeRepo = new(MockTradeRepository)
	suite.mockFeeRepo = new(MockFeeRepository)

	suite.now = time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)
	allocator := services.NewRetrocessionAllocator(suite.mockFeeRepo, services.FixedClock(suite.now))
	suite.service = services.NewFeeService(
		suite.mockAccountRepo,
		suite.mockPositionRepo,
		suite.mockTradeRepo,
		suite.mockFeeRepo,
		allocator,
		services.WithFeeClock(services.FixedClock(suite.now)),
	)

	suite.userID = uuid.NewString()
	suite.account = domain.Account{
		AccountID:    uuid.NewString(),
		ClientID:     uuid.NewString(),
		Name:         "Growth Portfolio",
		CurrencyCode: "CHF",
		Status:       domain.AccountActive,
	}
	suite.periodStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *FeeServiceTestSuite) expectActiveAccount() {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.account.AccountID).
		Return(&suite.account, nil).Once()
}

func (suite *FeeServiceTestSuite) calculateReq(feeType domain.FeeType, rate *decimal.Decimal) dto.CalculateFeeRequest {
	return dto.CalculateFeeRequest{
		AccountID:   suite.account.AccountID,
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		FeeType:     feeType,
		FeeRate:     rate,
	}
}

func (suite *FeeServiceTestSuite) TestManagementFee_DefaultRateAndRetrocession() {
	ctx := context.Background()
	suite.expectActiveAccount()

	avgValue := decimal.NewFromInt(1_000_000)
	suite.mockPositionRepo.On("TimeWeightedAverageValue", ctx, suite.account.AccountID, suite.periodStart, suite.periodEnd).
		Return(avgValue, nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Once()
	suite.mockFeeRepo.On("SaveRetrocession", ctx, mock.AnythingOfType("domain.Retrocession")).Return(nil).Once()

	fee, retros, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeManagement, nil), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(fee)
	// 1,000,000 x 1.0% = 10,000
	suite.True(decimal.NewFromInt(10_000).Equal(fee.Amount), "amount was %s", fee.Amount)
	suite.Equal("CHF", fee.CurrencyCode)
	suite.Equal(suite.userID, fee.CreatedBy)
	suite.Equal(suite.now, fee.CreatedAt)
	suite.False(fee.IsPaid)

	// 25% of the fee goes to the referring advisor
	suite.Require().Len(retros, 1)
	suite.True(decimal.NewFromInt(2_500).Equal(retros[0].Amount), "retro amount was %s", retros[0].Amount)
	suite.Equal("Financial Advisor", retros[0].RecipientName)
	suite.Equal("advisor", retros[0].RecipientType)
	suite.Equal(fee.FeeID, retros[0].FeeID)
	suite.Equal("CHF", retros[0].CurrencyCode)

	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestManagementFee_RetrocessionFailureStillSucceeds() {
	ctx := context.Background()
	suite.expectActiveAccount()

	suite.mockPositionRepo.On("TimeWeightedAverageValue", ctx, suite.account.AccountID, suite.periodStart, suite.periodEnd).
		Return(decimal.NewFromInt(500_000), nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Once()
	suite.mockFeeRepo.On("SaveRetrocession", ctx, mock.AnythingOfType("domain.Retrocession")).
		Return(errors.New("insert failed")).Once()

	fee, retros, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeManagement, nil), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(fee)
	suite.Empty(retros)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestManagementFee_ZeroValuation_NoRetrocession() {
	ctx := context.Background()
	suite.expectActiveAccount()

	suite.mockPositionRepo.On("TimeWeightedAverageValue", ctx, suite.account.AccountID, suite.periodStart, suite.periodEnd).
		Return(decimal.Zero, nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Once()

	fee, retros, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeManagement, nil), suite.userID)

	suite.Require().NoError(err)
	suite.True(fee.Amount.IsZero())
	suite.Empty(retros)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveRetrocession")
}

func (suite *FeeServiceTestSuite) TestPerformanceFee_PositiveGain() {
	ctx := context.Background()
	suite.expectActiveAccount()

	// Gain = (120,000 - 100,000) + (80,000 - 50,000) = 50,000
	positions := []domain.Position{
		{
			AccountID:   suite.account.AccountID,
			SecurityID:  uuid.NewString(),
			Quantity:    decimal.NewFromInt(1000),
			AverageCost: decimal.NewFromInt(100),
			MarketValue: decimal.NewFromInt(120_000),
		},
		{
			AccountID:   suite.account.AccountID,
			SecurityID:  uuid.NewString(),
			Quantity:    decimal.NewFromInt(500),
			AverageCost: decimal.NewFromInt(100),
			MarketValue: decimal.NewFromInt(80_000),
		},
	}
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, suite.account.AccountID).
		Return(positions, nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Once()

	fee, retros, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeePerformance, nil), suite.userID)

	suite.Require().NoError(err)
	// 50,000 x 20% = 10,000
	suite.True(decimal.NewFromInt(10_000).Equal(fee.Amount), "amount was %s", fee.Amount)
	// Performance fees never produce retrocessions
	suite.Empty(retros)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveRetrocession")
}

func (suite *FeeServiceTestSuite) TestPerformanceFee_NegativeGainPersistsZeroFee() {
	ctx := context.Background()
	suite.expectActiveAccount()

	positions := []domain.Position{
		{
			Quantity:    decimal.NewFromInt(1000),
			AverageCost: decimal.NewFromInt(100),
			MarketValue: decimal.NewFromInt(60_000), // down 40,000
		},
	}
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, suite.account.AccountID).
		Return(positions, nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.MatchedBy(func(f domain.Fee) bool {
		return f.Amount.IsZero()
	})).Return(nil).Once()

	fee, _, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeePerformance, nil), suite.userID)

	suite.Require().NoError(err)
	suite.True(fee.Amount.IsZero())
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestTransactionFee_SumsCommissionAndFeesOnly() {
	ctx := context.Background()
	suite.expectActiveAccount()

	trades := []domain.Trade{
		{
			TradeType:  domain.TradeBuy,
			Commission: decimal.NewFromInt(120),
			Fees:       decimal.NewFromInt(30),
			Tax:        decimal.NewFromInt(999), // excluded from the fee
		},
		{
			TradeType:  domain.TradeSell,
			Commission: decimal.NewFromInt(80),
			Fees:       decimal.NewFromInt(20),
		},
	}
	suite.mockTradeRepo.On("FindTradesByAccountInPeriod", ctx, suite.account.AccountID, suite.periodStart, suite.periodEnd).
		Return(trades, nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Once()

	fee, retros, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeTransaction, nil), suite.userID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(250).Equal(fee.Amount), "amount was %s", fee.Amount)
	suite.Empty(retros)
	// The billing window must reach the ledger unchanged: the adapter's
	// trade_date predicate is what keeps out-of-period trades from the sum.
	suite.mockTradeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestCustodyFee_DayCountProration() {
	ctx := context.Background()
	suite.expectActiveAccount()

	positions := []domain.Position{
		{
			Quantity:    decimal.NewFromInt(100),
			MarketValue: decimal.NewFromInt(10_000_000),
		},
	}
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, suite.account.AccountID).
		Return(positions, nil).Once()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Once()

	rate := decimal.NewFromFloat(0.5)
	fee, retros, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeCustody, &rate), suite.userID)

	suite.Require().NoError(err)
	// 10,000,000 x 0.5% x 182/365 = 24,931.51 (2024-01-01 to 2024-07-01 is 182 days)
	suite.True(decimal.NewFromFloat(24_931.51).Equal(fee.Amount.Round(2)), "amount was %s", fee.Amount)
	suite.Empty(retros)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveRetrocession")
}

func (suite *FeeServiceTestSuite) TestCalculateFee_UnknownFeeType() {
	ctx := context.Background()

	_, _, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeType("loyalty"), nil), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownFeeType)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID")
}

func (suite *FeeServiceTestSuite) TestCalculateFee_InvalidPeriod() {
	ctx := context.Background()
	req := suite.calculateReq(domain.FeeManagement, nil)
	req.PeriodStart, req.PeriodEnd = req.PeriodEnd, req.PeriodStart

	_, _, err := suite.service.CalculateFee(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPeriod)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID")
}

func (suite *FeeServiceTestSuite) TestCalculateFee_AccountNotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeManagement, nil), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveFee")
}

func (suite *FeeServiceTestSuite) TestCalculateFee_InactiveAccount() {
	ctx := context.Background()
	suspended := suite.account
	suspended.Status = domain.AccountSuspended
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).
		Return(&suspended, nil).Once()

	_, _, err := suite.service.CalculateFee(ctx, suite.calculateReq(domain.FeeManagement, nil), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotActive)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SaveFee")
}

func (suite *FeeServiceTestSuite) TestCalculateFee_RepeatedCallsCreateSeparateFees() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.account.AccountID).
		Return(&suite.account, nil).Twice()
	suite.mockPositionRepo.On("TimeWeightedAverageValue", ctx, suite.account.AccountID, suite.periodStart, suite.periodEnd).
		Return(decimal.NewFromInt(1_000_000), nil).Twice()
	suite.mockFeeRepo.On("SaveFee", ctx, mock.AnythingOfType("domain.Fee")).Return(nil).Twice()
	suite.mockFeeRepo.On("SaveRetrocession", ctx, mock.AnythingOfType("domain.Retrocession")).Return(nil).Twice()

	req := suite.calculateReq(domain.FeeManagement, nil)
	first, _, err := suite.service.CalculateFee(ctx, req, suite.userID)
	suite.Require().NoError(err)
	second, _, err := suite.service.CalculateFee(ctx, req, suite.userID)
	suite.Require().NoError(err)

	// Identical requests are not deduplicated; each run persists its own fee.
	suite.NotEqual(first.FeeID, second.FeeID)
	suite.True(first.Amount.Equal(second.Amount))
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestListFeesByAccount_Success() {
	ctx := context.Background()
	suite.expectActiveAccount()

	expected := []domain.Fee{
		{FeeID: uuid.NewString(), AccountID: suite.account.AccountID, FeeType: domain.FeeManagement},
	}
	suite.mockFeeRepo.On("ListFeesByAccountID", ctx, suite.account.AccountID, 20, 0).
		Return(expected, nil).Once()

	fees, err := suite.service.ListFeesByAccount(ctx, suite.account.AccountID, dto.ListFeesParams{Limit: 20, Offset: 0})

	suite.Require().NoError(err)
	suite.Len(fees, 1)
	suite.Equal(expected[0].FeeID, fees[0].FeeID)
}

func (suite *FeeServiceTestSuite) TestListFeesByAccount_AccountNotFound() {
	ctx := context.Background()
	unknownID := uuid.NewString()
	suite.mockAccountRepo.On("FindAccountByID", ctx, unknownID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListFeesByAccount(ctx, unknownID, dto.ListFeesParams{Limit: 20})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "ListFeesByAccountID")
}

func (suite *FeeServiceTestSuite) TestListFeesByAccount_EmptyHistory() {
	ctx := context.Background()
	suite.expectActiveAccount()

	suite.mockFeeRepo.On("ListFeesByAccountID", ctx, suite.account.AccountID, 20, 0).
		Return(nil, nil).Once()

	fees, err := suite.service.ListFeesByAccount(ctx, suite.account.AccountID, dto.ListFeesParams{Limit: 20})

	suite.Require().NoError(err)
	suite.NotNil(fees)
	suite.Empty(fees)
}

func (suite *FeeServiceTestSuite) TestGetFeeByID_ReturnsPersistedRetrocessions() {
	ctx := context.Background()
	feeID := uuid.NewString()
	fee := domain.Fee{
		FeeID:        feeID,
		AccountID:    suite.account.AccountID,
		FeeType:      domain.FeeManagement,
		Amount:       decimal.NewFromInt(10_000),
		CurrencyCode: "CHF",
	}
	retros := []domain.Retrocession{
		{
			RetrocessionID: uuid.NewString(),
			FeeID:          feeID,
			RecipientName:  "Financial Advisor",
			RecipientType:  "advisor",
			Amount:         decimal.NewFromInt(2_500),
			CurrencyCode:   "CHF",
		},
	}
	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(&fee, nil).Once()
	suite.mockFeeRepo.On("FindRetrocessionsByFeeID", ctx, feeID).Return(retros, nil).Once()

	gotFee, gotRetros, err := suite.service.GetFeeByID(ctx, feeID)

	suite.Require().NoError(err)
	suite.Equal(feeID, gotFee.FeeID)
	suite.Require().Len(gotRetros, 1)
	suite.Equal(retros[0].RetrocessionID, gotRetros[0].RetrocessionID)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestGetFeeByID_NoRetrocessions() {
	ctx := context.Background()
	feeID := uuid.NewString()
	fee := domain.Fee{FeeID: feeID, FeeType: domain.FeeCustody}
	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(&fee, nil).Once()
	suite.mockFeeRepo.On("FindRetrocessionsByFeeID", ctx, feeID).Return(nil, nil).Once()

	_, gotRetros, err := suite.service.GetFeeByID(ctx, feeID)

	suite.Require().NoError(err)
	suite.NotNil(gotRetros)
	suite.Empty(gotRetros)
}

func (suite *FeeServiceTestSuite) TestGetFeeByID_NotFound() {
	ctx := context.Background()
	feeID := uuid.NewString()
	suite.mockFeeRepo.On("FindFeeByID", ctx, feeID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetFeeByID(ctx, feeID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "FindRetrocessionsByFeeID")
}

func TestFeeService(t *testing.T) {
	suite.Run(t, new(FeeServiceTestSuite))
}
