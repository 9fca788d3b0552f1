package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
)

// PositionReader defines read operations for position data
type PositionReader interface {
	// FindOpenPositionsByAccountID retrieves all positions with quantity > 0
	// for an account, using the current market-value snapshot.
	FindOpenPositionsByAccountID(ctx context.Context, accountID string) ([]domain.Position, error)

	// FindSectorsBySecurityIDs retrieves the sector for each given security.
	FindSectorsBySecurityIDs(ctx context.Context, securityIDs []string) (map[string]string, error)
}

// PositionAggregator is the ledger's single aggregation primitive: the
// time-weighted average holdings value of an account over a period.
// Day-count weighting is applied inside the store.
type PositionAggregator interface {
	TimeWeightedAverageValue(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error)
}

// TradeReader defines read operations for trade data
type TradeReader interface {
	// FindTradesByAccountInPeriod retrieves trades whose trade date falls
	// within [start, end] for the given account.
	FindTradesByAccountInPeriod(ctx context.Context, accountID string, start, end time.Time) ([]domain.Trade, error)
}

// PositionRepositoryFacade combines all position-related repository interfaces
type PositionRepositoryFacade interface {
	PositionReader
	PositionAggregator
}
