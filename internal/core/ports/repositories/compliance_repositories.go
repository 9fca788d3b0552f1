package repositories

import (
	"context"
	"time"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
)

// DocumentReader defines read operations for document metadata
type DocumentReader interface {
	// FindApprovedDocumentsExpiringBy retrieves approved documents with a
	// non-null expiry date on or before the cutoff.
	FindApprovedDocumentsExpiringBy(ctx context.Context, cutoff time.Time) ([]domain.Document, error)
}

// TaskReader defines read operations for compliance tasks
type TaskReader interface {
	// ListTasks retrieves tasks filtered by optional status and client,
	// ordered by due date.
	ListTasks(ctx context.Context, status *domain.TaskStatus, clientID *string, limit int, offset int) ([]domain.ComplianceTask, error)
}

// TaskWriter defines write operations for compliance tasks
type TaskWriter interface {
	// SaveTask persists a new follow-up task.
	SaveTask(ctx context.Context, task domain.ComplianceTask) error

	// MarkPendingTasksOverdue bulk-transitions every pending task with a due
	// date before cutoff to overdue status and returns the transitioned
	// tasks. The now timestamp stamps the audit columns.
	MarkPendingTasksOverdue(ctx context.Context, cutoff time.Time, now time.Time, userID string) ([]domain.ComplianceTask, error)
}

// TaskRepositoryFacade combines all task-related repository interfaces
// This is a facade for clients that need access to all operations
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}
