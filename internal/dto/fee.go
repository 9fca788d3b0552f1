package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
)

// CalculateFeeRequest defines the data needed to compute a fee for an account.
// FeeRate is a percentage; when omitted the strategy's default rate applies.
type CalculateFeeRequest struct {
	AccountID   string           `json:"account_id" binding:"required"`
	PeriodStart time.Time        `json:"period_start" binding:"required"`
	PeriodEnd   time.Time        `json:"period_end" binding:"required"`
	FeeType     domain.FeeType   `json:"fee_type" binding:"required,oneof=management performance transaction custody"`
	FeeRate     *decimal.Decimal `json:"fee_rate"` // Optional, use pointer for nullability
}

// FeeResponse defines the data returned for a fee.
// Mirrors domain.Fee.
type FeeResponse struct {
	FeeID        string          `json:"feeID"`
	AccountID    string          `json:"accountID"`
	FeeType      domain.FeeType  `json:"feeType"`
	Description  string          `json:"description"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	IsPaid       bool            `json:"isPaid"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// RetrocessionResponse defines the data returned for a retrocession payout.
type RetrocessionResponse struct {
	RetrocessionID string          `json:"retrocessionID"`
	FeeID          string          `json:"feeID"`
	RecipientName  string          `json:"recipientName"`
	RecipientType  string          `json:"recipientType"`
	Rate           decimal.Decimal `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"`
	IsPaid         bool            `json:"isPaid"`
}

// CalculateFeeResponse is the success envelope for the calculate-fee operation.
type CalculateFeeResponse struct {
	Success       bool                   `json:"success"`
	Fee           FeeResponse            `json:"fee"`
	Retrocessions []RetrocessionResponse `json:"retrocessions"`
}

// FeeDetailResponse wraps a single fee and its persisted retrocessions.
type FeeDetailResponse struct {
	Fee           FeeResponse            `json:"fee"`
	Retrocessions []RetrocessionResponse `json:"retrocessions"`
}

// ListFeesParams defines query parameters for listing an account's fees.
type ListFeesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListFeesResponse wraps the fee history of an account.
type ListFeesResponse struct {
	Fees []FeeResponse `json:"fees"`
}

// ToFeeResponse converts a domain.Fee to FeeResponse DTO
func ToFeeResponse(fee *domain.Fee) FeeResponse {
	return FeeResponse{
		FeeID:        fee.FeeID,
		AccountID:    fee.AccountID,
		FeeType:      fee.FeeType,
		Description:  fee.Description,
		PeriodStart:  fee.PeriodStart,
		PeriodEnd:    fee.PeriodEnd,
		Rate:         fee.Rate,
		Amount:       fee.Amount,
		CurrencyCode: fee.CurrencyCode,
		IsPaid:       fee.IsPaid,
		CreatedAt:    fee.CreatedAt,
		CreatedBy:    fee.CreatedBy,
	}
}

// ToRetrocessionResponses converts a slice of domain.Retrocession to DTOs.
func ToRetrocessionResponses(retros []domain.Retrocession) []RetrocessionResponse {
	res := make([]RetrocessionResponse, len(retros))
	for i, r := range retros {
		res[i] = RetrocessionResponse{
			RetrocessionID: r.RetrocessionID,
			FeeID:          r.FeeID,
			RecipientName:  r.RecipientName,
			RecipientType:  r.RecipientType,
			Rate:           r.Rate,
			Amount:         r.Amount,
			CurrencyCode:   r.CurrencyCode,
			IsPaid:         r.IsPaid,
		}
	}
	return res
}

// ToCalculateFeeResponse converts the calculation result to the response envelope.
func ToCalculateFeeResponse(fee *domain.Fee, retros []domain.Retrocession) CalculateFeeResponse {
	return CalculateFeeResponse{
		Success:       true,
		Fee:           ToFeeResponse(fee),
		Retrocessions: ToRetrocessionResponses(retros),
	}
}

// ToFeeDetailResponse converts a domain.Fee and its retrocessions to the
// detail envelope.
func ToFeeDetailResponse(fee *domain.Fee, retros []domain.Retrocession) FeeDetailResponse {
	return FeeDetailResponse{
		Fee:           ToFeeResponse(fee),
		Retrocessions: ToRetrocessionResponses(retros),
	}
}

// ToListFeesResponse converts a slice of domain.Fee to the list envelope.
func ToListFeesResponse(fees []domain.Fee) ListFeesResponse {
	res := make([]FeeResponse, len(fees))
	for i, f := range fees {
		res[i] = ToFeeResponse(&f)
	}
	return ListFeesResponse{Fees: res}
}
