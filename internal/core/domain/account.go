package domain

// AccountStatus defines the lifecycle state of a custody account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountInactive  AccountStatus = "inactive"
	AccountSuspended AccountStatus = "suspended"
	AccountClosed    AccountStatus = "closed"
)

// Account represents a client custody account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string        `json:"accountID"`    // Primary Key (UUID)
	ClientID     string        `json:"clientID"`     // FK -> clients.client_id (NON-NULL)
	Name         string        `json:"name"`         // User-defined name
	CurrencyCode string        `json:"currencyCode"` // Base/reporting currency
	Status       AccountStatus `json:"status"`
	AuditFields                // Embed CreatedAt, CreatedBy, etc.
}

// IsActive reports whether fee and trade operations are permitted on the account.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}
