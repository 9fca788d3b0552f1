package services

import (
	"context"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
)

// ComplianceEvaluatorSvc defines the rule evaluation operation
type ComplianceEvaluatorSvc interface {
	// EvaluateCompliance runs the selected rule(s) against current ledger
	// state, creates follow-up tasks and returns the issues found together
	// with a severity summary.
	EvaluateCompliance(ctx context.Context, req dto.EvaluateComplianceRequest, callerUserID string) (*domain.ComplianceReport, error)
}

// TaskReaderSvc defines read operations for compliance tasks
type TaskReaderSvc interface {
	// ListTasks retrieves compliance tasks matching the filter parameters.
	ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.ComplianceTask, error)
}

// ComplianceSvcFacade combines all compliance-related service interfaces
type ComplianceSvcFacade interface {
	ComplianceEvaluatorSvc
	TaskReaderSvc
}
