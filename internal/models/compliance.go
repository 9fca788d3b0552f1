package models

import "time"

// Document represents a client document metadata row.
type Document struct {
	DocumentID   string     `db:"document_id"`
	ClientID     string     `db:"client_id"`
	AccountID    *string    `db:"account_id"` // Nullable
	Name         string     `db:"name"`
	DocumentType string     `db:"document_type"`
	Status       string     `db:"status"`
	ExpiryDate   *time.Time `db:"expiry_date"` // Nullable
	AuditFields
}

// ComplianceTask represents a follow-up task row.
type ComplianceTask struct {
	TaskID      string    `db:"task_id"`
	ClientID    *string   `db:"client_id"`  // Nullable
	AccountID   *string   `db:"account_id"` // Nullable
	Title       string    `db:"title"`
	Description string    `db:"description"`
	TaskType    string    `db:"task_type"`
	Priority    string    `db:"priority"`
	DueDate     time.Time `db:"due_date"`
	Status      string    `db:"status"`
	AuditFields
}
