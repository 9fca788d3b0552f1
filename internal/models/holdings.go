package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Security represents a tradeable instrument row.
type Security struct {
	SecurityID   string `db:"security_id"`
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	Sector       string `db:"sector"`
	Country      string `db:"country"`
	CurrencyCode string `db:"currency_code"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// Position represents a holding row, joined with its security's sector when
// read for concentration checks.
type Position struct {
	PositionID  string          `db:"position_id"`
	AccountID   string          `db:"account_id"`
	SecurityID  string          `db:"security_id"`
	Quantity    decimal.Decimal `db:"quantity"`
	AverageCost decimal.Decimal `db:"average_cost"`
	MarketValue decimal.Decimal `db:"market_value"`
	AuditFields
}

// Trade represents a trade row in the ledger.
type Trade struct {
	TradeID      string          `db:"trade_id"`
	AccountID    string          `db:"account_id"`
	SecurityID   string          `db:"security_id"`
	TradeDate    time.Time       `db:"trade_date"`
	TradeType    string          `db:"trade_type"`
	Quantity     decimal.Decimal `db:"quantity"`
	Price        decimal.Decimal `db:"price"`
	GrossAmount  decimal.Decimal `db:"gross_amount"`
	Commission   decimal.Decimal `db:"commission"`
	Fees         decimal.Decimal `db:"fees"`
	Tax          decimal.Decimal `db:"tax"`
	NetAmount    decimal.Decimal `db:"net_amount"`
	CurrencyCode string          `db:"currency_code"`
	Status       string          `db:"status"`
	AuditFields
}
