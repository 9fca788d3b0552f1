package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType defines the direction or nature of a trade.
type TradeType string

const (
	TradeBuy         TradeType = "buy"
	TradeSell        TradeType = "sell"
	TradeTransferIn  TradeType = "transfer_in"
	TradeTransferOut TradeType = "transfer_out"
	TradeDividend    TradeType = "dividend"
	TradeFee         TradeType = "fee"
)

// TradeStatus defines the settlement state of a trade.
type TradeStatus string

const (
	TradePending TradeStatus = "pending"
	TradeSettled TradeStatus = "settled"
)

// Trade represents a single executed or pending trade on an account.
type Trade struct {
	TradeID      string          `json:"tradeID"`    // Primary Key (UUID)
	AccountID    string          `json:"accountID"`  // FK -> accounts.account_id
	SecurityID   string          `json:"securityID"` // FK -> securities.security_id
	TradeDate    time.Time       `json:"tradeDate"`
	TradeType    TradeType       `json:"tradeType"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	GrossAmount  decimal.Decimal `json:"grossAmount"`
	Commission   decimal.Decimal `json:"commission"`
	Fees         decimal.Decimal `json:"fees"`
	Tax          decimal.Decimal `json:"tax"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	CurrencyCode string          `json:"currencyCode"`
	Status       TradeStatus     `json:"status"`
	AuditFields
}

// TotalCosts returns commission + fees + tax for the trade.
func (t Trade) TotalCosts() decimal.Decimal {
	return t.Commission.Add(t.Fees).Add(t.Tax)
}

// ComputeNetAmount derives the net settlement amount from the gross amount
// and trade costs. Buys cost the account gross plus costs; sells credit the
// account gross minus costs. Non-directional types settle at gross.
func (t Trade) ComputeNetAmount() decimal.Decimal {
	switch t.TradeType {
	case TradeBuy, TradeTransferIn:
		return t.GrossAmount.Add(t.TotalCosts())
	case TradeSell, TradeTransferOut:
		return t.GrossAmount.Sub(t.TotalCosts())
	default:
		return t.GrossAmount
	}
}
