package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
	"github.com/summitwm/wealth_backoffice_app/internal/middleware"
)

var (
	ErrUnknownFeeType   = errors.New("unknown fee type")
	ErrInvalidPeriod    = errors.New("period end must not be before period start")
	ErrAccountNotActive = errors.New("fees can only be calculated for active accounts")
)

// Default rates (percent) applied when the request omits fee_rate.
var (
	defaultManagementRate  = decimal.NewFromFloat(1.0)
	defaultPerformanceRate = decimal.NewFromFloat(20.0)
	defaultCustodyRate     = decimal.NewFromFloat(0.1)
)

var hundred = decimal.NewFromInt(100)
var daysPerYear = decimal.NewFromInt(365)

// feeService computes fees against the ledger and persists the results.
type feeService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	positionRepo portsrepo.PositionRepositoryFacade
	tradeRepo    portsrepo.TradeReader
	feeRepo      portsrepo.FeeRepositoryFacade
	allocator    *RetrocessionAllocator
	clock        Clock
}

// FeeServiceOption is a functional option for configuring the fee service
type FeeServiceOption func(*feeService)

// WithFeeClock overrides the clock used for audit timestamps.
func WithFeeClock(clock Clock) FeeServiceOption {
	return func(s *feeService) {
		s.clock = clock
	}
}

// NewFeeService creates a new fee calculation service with the provided options
func NewFeeService(
	accountRepo portsrepo.AccountReader,
	positionRepo portsrepo.PositionRepositoryFacade,
	tradeRepo portsrepo.TradeReader,
	feeRepo portsrepo.FeeRepositoryFacade,
	allocator *RetrocessionAllocator,
	options ...FeeServiceOption,
) portssvc.FeeSvcFacade {
	svc := &feeService{
		accountRepo:  accountRepo,
		positionRepo: positionRepo,
		tradeRepo:    tradeRepo,
		feeRepo:      feeRepo,
		allocator:    allocator,
		clock:        SystemClock(),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure feeService implements the FeeSvcFacade interface
var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// defaultRate returns the rate applied when a request omits fee_rate.
// The transaction strategy sums trade costs directly and uses no rate.
func defaultRate(feeType domain.FeeType) decimal.Decimal {
	switch feeType {
	case domain.FeeManagement:
		return defaultManagementRate
	case domain.FeePerformance:
		return defaultPerformanceRate
	case domain.FeeCustody:
		return defaultCustodyRate
	default:
		return decimal.Zero
	}
}

// CalculateFee validates the request, dispatches to the strategy matching the
// fee type, persists the fee and derives any retrocession payout.
func (s *feeService) CalculateFee(ctx context.Context, req dto.CalculateFeeRequest, callerUserID string) (*domain.Fee, []domain.Retrocession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Input validation, before any ledger access ---
	if !domain.KnownFeeType(req.FeeType) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFeeType, req.FeeType)
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, nil, fmt.Errorf("%w: %s to %s", ErrInvalidPeriod,
			req.PeriodStart.Format("2006-01-02"), req.PeriodEnd.Format("2006-01-02"))
	}

	rate := defaultRate(req.FeeType)
	if req.FeeRate != nil {
		rate = *req.FeeRate
	}

	// --- Account resolution ---
	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for fee calculation", slog.String("account_id", req.AccountID))
			return nil, nil, err
		}
		logger.Error("Failed to fetch account for fee calculation", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, nil, fmt.Errorf("failed to fetch account %s: %w", req.AccountID, err)
	}
	if !account.IsActive() {
		return nil, nil, fmt.Errorf("%w: account %s is %s", ErrAccountNotActive, account.AccountID, account.Status)
	}

	// --- Strategy dispatch ---
	amount, err := s.computeFeeAmount(ctx, account.AccountID, req.FeeType, rate, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		logger.Error("Fee strategy computation failed",
			slog.String("error", err.Error()),
			slog.String("account_id", account.AccountID),
			slog.String("fee_type", string(req.FeeType)))
		return nil, nil, fmt.Errorf("fee computation failed: %w", err)
	}

	// --- Persistence ---
	now := s.clock.Now()
	fee := domain.Fee{
		FeeID:        uuid.NewString(),
		AccountID:    account.AccountID,
		FeeType:      req.FeeType,
		Description:  feeDescription(req.FeeType, req.PeriodStart, req.PeriodEnd),
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		Rate:         rate,
		Amount:       amount,
		CurrencyCode: account.CurrencyCode,
		IsPaid:       false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerUserID,
		},
	}

	if err := s.feeRepo.SaveFee(ctx, fee); err != nil {
		logger.Error("Failed to save fee", slog.String("error", err.Error()), slog.String("fee_id", fee.FeeID))
		return nil, nil, fmt.Errorf("failed to save fee: %w", err)
	}

	// Management fees share revenue with the referring advisor. The payout is
	// a best-effort secondary write: a failed insert is logged and the fee
	// result is still reported as successful.
	retros := []domain.Retrocession{}
	if fee.FeeType == domain.FeeManagement && fee.Amount.IsPositive() {
		retro, err := s.allocator.Allocate(ctx, fee, callerUserID)
		if err != nil {
			logger.Error("Failed to save retrocession for fee",
				slog.String("error", err.Error()),
				slog.String("fee_id", fee.FeeID))
		} else {
			retros = append(retros, *retro)
		}
	}

	logger.Info("Fee calculated successfully",
		slog.String("fee_id", fee.FeeID),
		slog.String("fee_type", string(fee.FeeType)),
		slog.String("amount", fee.Amount.String()),
		slog.Int("retrocessions", len(retros)))
	return &fee, retros, nil
}

// computeFeeAmount runs the calculation strategy for the given fee type.
//
// Management fees are period-weighted by the ledger's aggregation primitive.
// Performance and custody fees intentionally value the current position
// snapshot rather than positions as of the period, matching the portal's
// established behavior.
func (s *feeService) computeFeeAmount(ctx context.Context, accountID string, feeType domain.FeeType, rate decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	switch feeType {
	case domain.FeeManagement:
		basis, err := s.positionRepo.TimeWeightedAverageValue(ctx, accountID, start, end)
		if err != nil {
			return decimal.Zero, fmt.Errorf("time-weighted average valuation: %w", err)
		}
		return basis.Mul(rate).Div(hundred), nil

	case domain.FeePerformance:
		positions, err := s.positionRepo.FindOpenPositionsByAccountID(ctx, accountID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("open positions: %w", err)
		}
		gain := decimal.Zero
		for _, pos := range positions {
			gain = gain.Add(pos.UnrealizedGain())
		}
		if !gain.IsPositive() {
			return decimal.Zero, nil
		}
		return gain.Mul(rate).Div(hundred), nil

	case domain.FeeTransaction:
		trades, err := s.tradeRepo.FindTradesByAccountInPeriod(ctx, accountID, start, end)
		if err != nil {
			return decimal.Zero, fmt.Errorf("trades in period: %w", err)
		}
		total := decimal.Zero
		for _, trade := range trades {
			total = total.Add(trade.Commission).Add(trade.Fees)
		}
		return total, nil

	case domain.FeeCustody:
		positions, err := s.positionRepo.FindOpenPositionsByAccountID(ctx, accountID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("open positions: %w", err)
		}
		value := decimal.Zero
		for _, pos := range positions {
			value = value.Add(pos.MarketValue)
		}
		days := decimal.NewFromInt(int64(end.Sub(start).Hours() / 24))
		return value.Mul(rate).Div(hundred).Mul(days).Div(daysPerYear), nil

	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownFeeType, feeType)
	}
}

func feeDescription(feeType domain.FeeType, start, end time.Time) string {
	return fmt.Sprintf("%s fee for period %s to %s",
		feeType, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// GetFeeByID retrieves a fee together with its persisted retrocessions.
func (s *feeService) GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, []domain.Retrocession, error) {
	fee, err := s.feeRepo.FindFeeByID(ctx, feeID)
	if err != nil {
		return nil, nil, err
	}

	retros, err := s.feeRepo.FindRetrocessionsByFeeID(ctx, feeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load retrocessions for fee", slog.String("fee_id", feeID))
		return nil, nil, fmt.Errorf("failed to load retrocessions for fee %s: %w", feeID, err)
	}
	if retros == nil {
		retros = []domain.Retrocession{}
	}
	return fee, retros, nil
}

// ListFeesByAccount retrieves the fee history of an account.
func (s *feeService) ListFeesByAccount(ctx context.Context, accountID string, params dto.ListFeesParams) ([]domain.Fee, error) {
	// Verify the account exists so an unknown ID reports NotFound rather than
	// an empty history.
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	fees, err := s.feeRepo.ListFeesByAccountID(ctx, accountID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fees", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list fees for account %s: %w", accountID, err)
	}
	if fees == nil {
		return []domain.Fee{}, nil
	}
	return fees, nil
}
