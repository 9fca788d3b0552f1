package domain

import (
	"github.com/shopspring/decimal"
)

// Position represents a holding of a security within an account.
type Position struct {
	PositionID  string          `json:"positionID"` // Primary Key (UUID)
	AccountID   string          `json:"accountID"`  // FK -> accounts.account_id
	SecurityID  string          `json:"securityID"` // FK -> securities.security_id
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
	MarketValue decimal.Decimal `json:"marketValue"` // Current snapshot value in account currency
	AuditFields
}

// IsOpen reports whether the position counts towards valuation and
// concentration checks (quantity strictly greater than zero).
func (p Position) IsOpen() bool {
	return p.Quantity.IsPositive()
}

// CostBasis returns quantity multiplied by average cost.
func (p Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AverageCost)
}

// UnrealizedGain returns current market value minus cost basis.
func (p Position) UnrealizedGain() decimal.Decimal {
	return p.MarketValue.Sub(p.CostBasis())
}
