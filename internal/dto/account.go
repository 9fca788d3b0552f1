package dto

import (
	"time"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	ClientID      string               `json:"clientID"`
	Name          string               `json:"name"`
	CurrencyCode  string               `json:"currencyCode"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		ClientID:      acc.ClientID,
		Name:          acc.Name,
		CurrencyCode:  acc.CurrencyCode,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}
