package services

import (
	"context"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
)

// FeeCalculatorSvc defines the fee computation operation
type FeeCalculatorSvc interface {
	// CalculateFee validates the request, runs the strategy matching the fee
	// type, persists the resulting fee and returns it together with any
	// retrocessions that were successfully derived from it.
	CalculateFee(ctx context.Context, req dto.CalculateFeeRequest, callerUserID string) (*domain.Fee, []domain.Retrocession, error)
}

// FeeReaderSvc defines read operations for fee data
type FeeReaderSvc interface {
	// GetFeeByID retrieves a fee together with the retrocessions that were
	// persisted for it.
	GetFeeByID(ctx context.Context, feeID string) (*domain.Fee, []domain.Retrocession, error)
	// ListFeesByAccount retrieves the fee history of an account.
	ListFeesByAccount(ctx context.Context, accountID string, params dto.ListFeesParams) ([]domain.Fee, error)
}

// FeeSvcFacade combines all fee-related service interfaces
type FeeSvcFacade interface {
	FeeCalculatorSvc
	FeeReaderSvc
}

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
