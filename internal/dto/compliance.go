package dto

import (
	"time"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
)

// EvaluateComplianceRequest selects which rules to run and against what.
// Client and account references are each only required by the rules that
// need them; rules silently skip when their reference is absent.
type EvaluateComplianceRequest struct {
	ClientID  *string          `json:"client_id"`
	AccountID *string          `json:"account_id"`
	CheckType domain.CheckType `json:"check_type" binding:"omitempty,oneof=kyc concentration documents tasks all"`
}

// ComplianceIssueResponse defines the data returned for a single finding.
type ComplianceIssueResponse struct {
	IssueType domain.IssueType     `json:"issueType"`
	Severity  domain.IssueSeverity `json:"severity"`
	Message   string               `json:"message"`
	ClientID  *string              `json:"clientID,omitempty"`
	AccountID *string              `json:"accountID,omitempty"`
	TaskIDs   []string             `json:"taskIDs,omitempty"`
}

// TaskResponse defines the data returned for a compliance task.
type TaskResponse struct {
	TaskID      string              `json:"taskID"`
	ClientID    *string             `json:"clientID,omitempty"`
	AccountID   *string             `json:"accountID,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	TaskType    domain.TaskType     `json:"taskType"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     time.Time           `json:"dueDate"`
	Status      domain.TaskStatus   `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// ComplianceSummaryResponse counts issues by severity.
type ComplianceSummaryResponse struct {
	TotalIssues    int `json:"total_issues"`
	HighSeverity   int `json:"high_severity"`
	MediumSeverity int `json:"medium_severity"`
	LowSeverity    int `json:"low_severity"`
}

// EvaluateComplianceResponse is the success envelope for the evaluate operation.
type EvaluateComplianceResponse struct {
	Success          bool                      `json:"success"`
	ComplianceIssues []ComplianceIssueResponse `json:"compliance_issues"`
	TasksCreated     []TaskResponse            `json:"tasks_created"`
	Summary          ComplianceSummaryResponse `json:"summary"`
}

// ListTasksParams defines query parameters for listing compliance tasks.
type ListTasksParams struct {
	Status   *string `form:"status" binding:"omitempty,oneof=pending overdue completed cancelled"`
	ClientID *string `form:"clientID"`
	Limit    int     `form:"limit,default=20"`
	Offset   int     `form:"offset,default=0"`
}

// ListTasksResponse wraps a compliance task listing.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// ToTaskResponse converts a domain.ComplianceTask to TaskResponse DTO
func ToTaskResponse(t *domain.ComplianceTask) TaskResponse {
	return TaskResponse{
		TaskID:      t.TaskID,
		ClientID:    t.ClientID,
		AccountID:   t.AccountID,
		Title:       t.Title,
		Description: t.Description,
		TaskType:    t.TaskType,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

// ToTaskResponses converts a slice of domain.ComplianceTask to DTOs.
func ToTaskResponses(tasks []domain.ComplianceTask) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		res[i] = ToTaskResponse(&t)
	}
	return res
}

// ToEvaluateComplianceResponse converts a domain.ComplianceReport to the
// response envelope.
func ToEvaluateComplianceResponse(report *domain.ComplianceReport) EvaluateComplianceResponse {
	issues := make([]ComplianceIssueResponse, len(report.Issues))
	for i, iss := range report.Issues {
		issues[i] = ComplianceIssueResponse{
			IssueType: iss.IssueType,
			Severity:  iss.Severity,
			Message:   iss.Message,
			ClientID:  iss.ClientID,
			AccountID: iss.AccountID,
			TaskIDs:   iss.TaskIDs,
		}
	}
	return EvaluateComplianceResponse{
		Success:          true,
		ComplianceIssues: issues,
		TasksCreated:     ToTaskResponses(report.TasksCreated),
		Summary: ComplianceSummaryResponse{
			TotalIssues:    report.Summary.TotalIssues,
			HighSeverity:   report.Summary.HighSeverity,
			MediumSeverity: report.Summary.MedSeverity,
			LowSeverity:    report.Summary.LowSeverity,
		},
	}
}
