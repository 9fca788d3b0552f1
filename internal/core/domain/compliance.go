package domain

import "time"

// CheckType selects which compliance rule(s) an evaluation runs.
type CheckType string

const (
	CheckKYC           CheckType = "kyc"
	CheckConcentration CheckType = "concentration"
	CheckDocuments     CheckType = "documents"
	CheckTasks         CheckType = "tasks"
	CheckAll           CheckType = "all"
)

// KnownCheckType reports whether t is a recognized check-type tag.
func KnownCheckType(t CheckType) bool {
	switch t {
	case CheckKYC, CheckConcentration, CheckDocuments, CheckTasks, CheckAll:
		return true
	}
	return false
}

// IssueSeverity grades a compliance finding.
type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "low"
	SeverityMedium IssueSeverity = "medium"
	SeverityHigh   IssueSeverity = "high"
)

// IssueType tags the rule that produced a compliance issue.
type IssueType string

const (
	IssueKYC                 IssueType = "kyc"
	IssueAnnualReview        IssueType = "annual_review"
	IssueConcentration       IssueType = "concentration"
	IssueSectorConcentration IssueType = "sector_concentration"
	IssueDocumentExpiry      IssueType = "document_expiry"
	IssueOverdueTasks        IssueType = "overdue_tasks"
)

// ComplianceIssue is a transient finding produced by a rule evaluation.
// Issues exist only in the response payload and are never persisted.
type ComplianceIssue struct {
	IssueType IssueType     `json:"issueType"`
	Severity  IssueSeverity `json:"severity"`
	Message   string        `json:"message"`
	ClientID  *string       `json:"clientID,omitempty"`
	AccountID *string       `json:"accountID,omitempty"`
	// TaskIDs carries the affected task list for the aggregate
	// overdue_tasks issue; empty for every other issue type.
	TaskIDs []string `json:"taskIDs,omitempty"`
}

// TaskType classifies a follow-up compliance task.
type TaskType string

const (
	TaskKYCReview       TaskType = "kyc_review"
	TaskAnnualReview    TaskType = "annual_review"
	TaskDocumentRenewal TaskType = "document_renewal"
)

// TaskPriority grades the urgency of a compliance task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskStatus defines the lifecycle state of a compliance task.
// The engine creates tasks in pending state and transitions pending tasks
// past their due date to overdue; every other transition belongs to the
// task-management surfaces outside this engine.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskOverdue   TaskStatus = "overdue"
	TaskCompleted TaskStatus = "completed"
	TaskCancelled TaskStatus = "cancelled"
)

// ComplianceTask is a follow-up work item generated when a rule evaluator
// detects an outstanding condition.
type ComplianceTask struct {
	TaskID      string       `json:"taskID"` // Primary Key (UUID)
	ClientID    *string      `json:"clientID,omitempty"`
	AccountID   *string      `json:"accountID,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	TaskType    TaskType     `json:"taskType"`
	Priority    TaskPriority `json:"priority"`
	DueDate     time.Time    `json:"dueDate"`
	Status      TaskStatus   `json:"status"`
	AuditFields
}

// SeveritySummary counts issues by severity for a single evaluation.
type SeveritySummary struct {
	TotalIssues  int `json:"total_issues"`
	HighSeverity int `json:"high_severity"`
	MedSeverity  int `json:"medium_severity"`
	LowSeverity  int `json:"low_severity"`
}

// ComplianceReport is the full result of one compliance evaluation.
type ComplianceReport struct {
	Issues       []ComplianceIssue `json:"issues"`
	TasksCreated []ComplianceTask  `json:"tasksCreated"`
	Summary      SeveritySummary   `json:"summary"`
}

// Summarize recounts the severity summary from the issue list.
func (r *ComplianceReport) Summarize() {
	s := SeveritySummary{TotalIssues: len(r.Issues)}
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityHigh:
			s.HighSeverity++
		case SeverityMedium:
			s.MedSeverity++
		case SeverityLow:
			s.LowSeverity++
		}
	}
	r.Summary = s
}
