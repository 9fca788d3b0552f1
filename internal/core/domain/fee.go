package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeType selects the calculation strategy applied when a fee is computed.
type FeeType string

const (
	FeeManagement   FeeType = "management"
	FeePerformance  FeeType = "performance"
	FeeTransaction  FeeType = "transaction"
	FeeCustody      FeeType = "custody"
	FeeRetrocession FeeType = "retrocession"
	FeeOther        FeeType = "other"
)

// KnownFeeType reports whether t is one of the four calculable fee types.
func KnownFeeType(t FeeType) bool {
	switch t {
	case FeeManagement, FeePerformance, FeeTransaction, FeeCustody:
		return true
	}
	return false
}

// Fee represents a computed charge against an account for a period.
// A fee is created once per calculation request; there is no natural key
// preventing duplicate fees for an overlapping period. After creation the
// only permitted mutation is marking it paid.
type Fee struct {
	FeeID        string          `json:"feeID"`     // Primary Key (UUID)
	AccountID    string          `json:"accountID"` // FK -> accounts.account_id
	FeeType      FeeType         `json:"feeType"`
	Description  string          `json:"description"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Rate         decimal.Decimal `json:"rate"` // Percent, as applied by the strategy
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	IsPaid       bool            `json:"isPaid"`
	AuditFields
}

// Retrocession represents a revenue-share payout derived from a fee.
// Created at most once per fee, only for management fees with a positive
// amount. Immutable after creation.
type Retrocession struct {
	RetrocessionID string          `json:"retrocessionID"` // Primary Key (UUID)
	FeeID          string          `json:"feeID"`          // FK -> fees.fee_id
	RecipientName  string          `json:"recipientName"`
	RecipientType  string          `json:"recipientType"`
	Rate           decimal.Decimal `json:"rate"` // Percent of the fee amount
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"`
	IsPaid         bool            `json:"isPaid"`
	AuditFields
}
