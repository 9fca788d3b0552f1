package domain

import "time"

// DocumentStatus defines the review state of a stored client document.
type DocumentStatus string

const (
	DocumentPendingReview DocumentStatus = "pending_review"
	DocumentApproved      DocumentStatus = "approved"
	DocumentRejected      DocumentStatus = "rejected"
)

// Document represents the metadata of a client or account document held in
// the ledger. The engine only reads documents; upload and storage live
// elsewhere.
type Document struct {
	DocumentID   string         `json:"documentID"` // Primary Key (UUID)
	ClientID     string         `json:"clientID"`   // FK -> clients.client_id
	AccountID    *string        `json:"accountID"`  // Optional FK -> accounts.account_id
	Name         string         `json:"name"`
	DocumentType string         `json:"documentType"`
	Status       DocumentStatus `json:"status"`
	ExpiryDate   *time.Time     `json:"expiryDate"` // Nil when the document does not expire
	AuditFields
}
