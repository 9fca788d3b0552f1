package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	"github.com/summitwm/wealth_backoffice_app/internal/models"
)

type PgxTaskRepository struct {
	BaseRepository
}

// newPgxTaskRepository creates a new repository for compliance tasks.
func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

func toModelTask(d domain.ComplianceTask) models.ComplianceTask {
	return models.ComplianceTask{
		TaskID:      d.TaskID,
		ClientID:    d.ClientID,
		AccountID:   d.AccountID,
		Title:       d.Title,
		Description: d.Description,
		TaskType:    string(d.TaskType),
		Priority:    string(d.Priority),
		DueDate:     d.DueDate,
		Status:      string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTask(m models.ComplianceTask) domain.ComplianceTask {
	return domain.ComplianceTask{
		TaskID:      m.TaskID,
		ClientID:    m.ClientID,
		AccountID:   m.AccountID,
		Title:       m.Title,
		Description: m.Description,
		TaskType:    domain.TaskType(m.TaskType),
		Priority:    domain.TaskPriority(m.Priority),
		DueDate:     m.DueDate,
		Status:      domain.TaskStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// SaveTask inserts a new follow-up task.
func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.ComplianceTask) error {
	modelTask := toModelTask(task)

	query := `
		INSERT INTO compliance_tasks (task_id, client_id, account_id, title, description, task_type, priority, due_date, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTask.TaskID,
		modelTask.ClientID,
		modelTask.AccountID,
		modelTask.Title,
		modelTask.Description,
		modelTask.TaskType,
		modelTask.Priority,
		modelTask.DueDate,
		modelTask.Status,
		modelTask.CreatedAt,
		modelTask.CreatedBy,
		modelTask.LastUpdatedAt,
		modelTask.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: task with ID %s already exists", apperrors.ErrDuplicate, modelTask.TaskID)
			}
		}
		return fmt.Errorf("failed to save task %s: %w", modelTask.TaskID, err)
	}
	return nil
}

// ListTasks retrieves tasks filtered by optional status and client, ordered
// by due date.
func (r *PgxTaskRepository) ListTasks(ctx context.Context, status *domain.TaskStatus, clientID *string, limit int, offset int) ([]domain.ComplianceTask, error) {
	query := `
		SELECT task_id, client_id, account_id, title, description, task_type, priority, due_date, status, created_at, created_by, last_updated_at, last_updated_by
		FROM compliance_tasks
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR client_id = $2)
		ORDER BY due_date
		LIMIT $3 OFFSET $4;
	`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.Pool.Query(ctx, query, statusArg, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// MarkPendingTasksOverdue bulk-transitions every pending task with a due date
// before cutoff to overdue status and returns the transitioned tasks.
func (r *PgxTaskRepository) MarkPendingTasksOverdue(ctx context.Context, cutoff time.Time, now time.Time, userID string) ([]domain.ComplianceTask, error) {
	query := `
		UPDATE compliance_tasks
		SET status = 'overdue', last_updated_at = $2, last_updated_by = $3
		WHERE status = 'pending' AND due_date < $1
		RETURNING task_id, client_id, account_id, title, description, task_type, priority, due_date, status, created_at, created_by, last_updated_at, last_updated_by;
	`
	rows, err := r.Pool.Query(ctx, query, cutoff, now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark pending tasks overdue: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

type taskRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTasks(rows taskRows) ([]domain.ComplianceTask, error) {
	var tasks []domain.ComplianceTask
	for rows.Next() {
		var modelTask models.ComplianceTask
		err := rows.Scan(
			&modelTask.TaskID,
			&modelTask.ClientID,
			&modelTask.AccountID,
			&modelTask.Title,
			&modelTask.Description,
			&modelTask.TaskType,
			&modelTask.Priority,
			&modelTask.DueDate,
			&modelTask.Status,
			&modelTask.CreatedAt,
			&modelTask.CreatedBy,
			&modelTask.LastUpdatedAt,
			&modelTask.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, toDomainTask(modelTask))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}
