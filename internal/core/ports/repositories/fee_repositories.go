package repositories

import (
	"context"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
)

// FeeReader defines read operations for fee data
type FeeReader interface {
	// FindFeeByID retrieves a single fee by its unique identifier.
	FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error)
	// ListFeesByAccountID retrieves fees for an account, most recent period first.
	ListFeesByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Fee, error)
}

// FeeWriter defines write operations for fee data
type FeeWriter interface {
	// SaveFee persists a newly computed fee.
	SaveFee(ctx context.Context, fee domain.Fee) error
}

// RetrocessionReader defines read operations for retrocession data
type RetrocessionReader interface {
	// FindRetrocessionsByFeeID retrieves the payouts derived from a fee.
	FindRetrocessionsByFeeID(ctx context.Context, feeID string) ([]domain.Retrocession, error)
}

// RetrocessionWriter defines write operations for retrocession data
type RetrocessionWriter interface {
	// SaveRetrocession persists a newly derived payout.
	SaveRetrocession(ctx context.Context, retro domain.Retrocession) error
}

// FeeRepositoryFacade combines all fee-related repository interfaces
// This is a facade for clients that need access to all operations
type FeeRepositoryFacade interface {
	FeeReader
	FeeWriter
	RetrocessionReader
	RetrocessionWriter
}
