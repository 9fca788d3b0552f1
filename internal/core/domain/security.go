package domain

// Security represents a tradeable instrument.
// Inactive securities are rejected for new trades.
type Security struct {
	SecurityID   string `json:"securityID"` // Primary Key (UUID)
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Sector       string `json:"sector"`
	Country      string `json:"country"`
	CurrencyCode string `json:"currencyCode"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
