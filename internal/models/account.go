package models

// Account represents a custody account row in the ledger.
type Account struct {
	AccountID    string `db:"account_id"`
	ClientID     string `db:"client_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	Status       string `db:"status"`
	AuditFields         // Embed common audit fields
}

// Client represents a client row in the ledger.
type Client struct {
	ClientID    string `db:"client_id"`
	Name        string `db:"name"`
	KYCStatus   string `db:"kyc_status"`
	RiskProfile string `db:"risk_profile"`
	AuditFields
}
