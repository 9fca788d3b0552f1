package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee represents a computed fee row.
type Fee struct {
	FeeID        string          `db:"fee_id"`
	AccountID    string          `db:"account_id"`
	FeeType      string          `db:"fee_type"`
	Description  string          `db:"description"`
	PeriodStart  time.Time       `db:"period_start"`
	PeriodEnd    time.Time       `db:"period_end"`
	Rate         decimal.Decimal `db:"rate"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	IsPaid       bool            `db:"is_paid"`
	AuditFields
}

// Retrocession represents a revenue-share payout row derived from a fee.
type Retrocession struct {
	RetrocessionID string          `db:"retrocession_id"`
	FeeID          string          `db:"fee_id"`
	RecipientName  string          `db:"recipient_name"`
	RecipientType  string          `db:"recipient_type"`
	Rate           decimal.Decimal `db:"rate"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	IsPaid         bool            `db:"is_paid"`
	AuditFields
}
