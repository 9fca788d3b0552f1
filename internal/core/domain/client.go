package domain

// KYCStatus defines the state of a client's know-your-customer review.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
	KYCExpired  KYCStatus = "expired"
)

// RiskProfile is the client's investment risk classification.
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskBalanced     RiskProfile = "balanced"
	RiskAggressive   RiskProfile = "aggressive"
)

// Client represents the owning party of one or more custody accounts.
type Client struct {
	ClientID    string      `json:"clientID"` // Primary Key (UUID)
	Name        string      `json:"name"`
	KYCStatus   KYCStatus   `json:"kycStatus"`
	RiskProfile RiskProfile `json:"riskProfile"`
	AuditFields
}
