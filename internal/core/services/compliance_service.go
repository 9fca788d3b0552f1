package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
	"github.com/summitwm/wealth_backoffice_app/internal/middleware"
)

var ErrUnknownCheckType = errors.New("unknown compliance check type")

// Rule thresholds. Comparisons are strict: a position at exactly the limit is
// not flagged.
var (
	positionConcentrationLimit = decimal.NewFromFloat(0.20)
	sectorConcentrationLimit   = decimal.NewFromFloat(0.30)
)

const (
	kycStalenessDays     = 365
	kycReviewDueDays     = 7
	annualReviewDueDays  = 30
	documentExpiryWindow = 30
)

// complianceService evaluates the compliance rule set against ledger state.
type complianceService struct {
	BaseService
	clientRepo   portsrepo.ClientReader
	positionRepo portsrepo.PositionRepositoryFacade
	documentRepo portsrepo.DocumentReader
	taskRepo     portsrepo.TaskRepositoryFacade
	clock        Clock
}

// ComplianceServiceOption is a functional option for configuring the compliance service
type ComplianceServiceOption func(*complianceService)

// WithComplianceClock overrides the clock used for due dates and the overdue sweep.
func WithComplianceClock(clock Clock) ComplianceServiceOption {
	return func(s *complianceService) {
		s.clock = clock
	}
}

// NewComplianceService creates a new compliance evaluation service with the provided options
func NewComplianceService(
	clientRepo portsrepo.ClientReader,
	positionRepo portsrepo.PositionRepositoryFacade,
	documentRepo portsrepo.DocumentReader,
	taskRepo portsrepo.TaskRepositoryFacade,
	options ...ComplianceServiceOption,
) portssvc.ComplianceSvcFacade {
	svc := &complianceService{
		clientRepo:   clientRepo,
		positionRepo: positionRepo,
		documentRepo: documentRepo,
		taskRepo:     taskRepo,
		clock:        SystemClock(),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure complianceService implements the ComplianceSvcFacade interface
var _ portssvc.ComplianceSvcFacade = (*complianceService)(nil)

// EvaluateCompliance runs the selected rule(s) and creates follow-up tasks.
// Rules needing a client or account reference silently skip when it is absent.
// Findings are never deduplicated against earlier evaluations: a condition
// that is still outstanding produces a fresh task on every invocation.
func (s *complianceService) EvaluateCompliance(ctx context.Context, req dto.EvaluateComplianceRequest, callerUserID string) (*domain.ComplianceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	checkType := req.CheckType
	if checkType == "" {
		checkType = domain.CheckAll
	}
	if !domain.KnownCheckType(checkType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCheckType, checkType)
	}

	report := &domain.ComplianceReport{
		Issues:       []domain.ComplianceIssue{},
		TasksCreated: []domain.ComplianceTask{},
	}

	if (checkType == domain.CheckKYC || checkType == domain.CheckAll) && req.ClientID != nil {
		if err := s.evaluateKYC(ctx, *req.ClientID, callerUserID, report); err != nil {
			return nil, err
		}
	}

	if (checkType == domain.CheckConcentration || checkType == domain.CheckAll) && req.AccountID != nil {
		if err := s.evaluateConcentration(ctx, *req.AccountID, report); err != nil {
			return nil, err
		}
	}

	if checkType == domain.CheckDocuments || checkType == domain.CheckAll {
		if err := s.evaluateDocumentExpiry(ctx, callerUserID, report); err != nil {
			return nil, err
		}
	}

	if checkType == domain.CheckTasks || checkType == domain.CheckAll {
		if err := s.sweepOverdueTasks(ctx, callerUserID, report); err != nil {
			return nil, err
		}
	}

	report.Summarize()
	logger.Info("Compliance evaluation completed",
		slog.String("check_type", string(checkType)),
		slog.Int("issues", report.Summary.TotalIssues),
		slog.Int("tasks_created", len(report.TasksCreated)))
	return report, nil
}

// evaluateKYC flags clients whose KYC is not approved and clients whose
// record has not been touched within the annual-review window. The two checks
// run independently; a client can trigger both.
func (s *complianceService) evaluateKYC(ctx context.Context, clientID string, callerUserID string, report *domain.ComplianceReport) error {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}

	now := s.clock.Now()

	if client.KYCStatus != domain.KYCApproved {
		report.Issues = append(report.Issues, domain.ComplianceIssue{
			IssueType: domain.IssueKYC,
			Severity:  domain.SeverityHigh,
			Message:   fmt.Sprintf("KYC status for client %s is %s", client.Name, client.KYCStatus),
			ClientID:  &client.ClientID,
		})
		s.createTask(ctx, domain.ComplianceTask{
			ClientID:    &client.ClientID,
			Title:       fmt.Sprintf("KYC review required: %s", client.Name),
			Description: fmt.Sprintf("Client KYC status is %s and must be brought to approved.", client.KYCStatus),
			TaskType:    domain.TaskKYCReview,
			Priority:    domain.PriorityHigh,
			DueDate:     now.AddDate(0, 0, kycReviewDueDays),
		}, callerUserID, report)
	}

	if now.Sub(client.LastUpdatedAt) > kycStalenessDays*24*time.Hour {
		report.Issues = append(report.Issues, domain.ComplianceIssue{
			IssueType: domain.IssueAnnualReview,
			Severity:  domain.SeverityMedium,
			Message:   fmt.Sprintf("Client %s has not been reviewed since %s", client.Name, client.LastUpdatedAt.Format("2006-01-02")),
			ClientID:  &client.ClientID,
		})
		s.createTask(ctx, domain.ComplianceTask{
			ClientID:    &client.ClientID,
			Title:       fmt.Sprintf("Annual review due: %s", client.Name),
			Description: "Client record is older than one year and requires an annual review.",
			TaskType:    domain.TaskAnnualReview,
			Priority:    domain.PriorityMedium,
			DueDate:     now.AddDate(0, 0, annualReviewDueDays),
		}, callerUserID, report)
	}

	return nil
}

// evaluateConcentration flags single positions above 20% of portfolio value
// and sectors above 30%. An empty portfolio produces no issues.
func (s *complianceService) evaluateConcentration(ctx context.Context, accountID string, report *domain.ComplianceReport) error {
	positions, err := s.positionRepo.FindOpenPositionsByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to fetch positions for account %s: %w", accountID, err)
	}

	total := decimal.Zero
	for _, pos := range positions {
		total = total.Add(pos.MarketValue)
	}
	if total.IsZero() {
		return nil
	}

	securityIDs := make([]string, 0, len(positions))
	for _, pos := range positions {
		securityIDs = append(securityIDs, pos.SecurityID)

		ratio := pos.MarketValue.Div(total)
		if ratio.GreaterThan(positionConcentrationLimit) {
			report.Issues = append(report.Issues, domain.ComplianceIssue{
				IssueType: domain.IssueConcentration,
				Severity:  domain.SeverityMedium,
				Message: fmt.Sprintf("Position %s is %s%% of portfolio value",
					pos.SecurityID, ratio.Mul(hundred).StringFixed(1)),
				AccountID: &pos.AccountID,
			})
		}
	}

	sectors, err := s.positionRepo.FindSectorsBySecurityIDs(ctx, securityIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch sectors: %w", err)
	}

	sectorTotals := make(map[string]decimal.Decimal)
	for _, pos := range positions {
		sector := sectors[pos.SecurityID]
		if sector == "" {
			continue
		}
		sectorTotals[sector] = sectorTotals[sector].Add(pos.MarketValue)
	}

	for sector, sectorValue := range sectorTotals {
		ratio := sectorValue.Div(total)
		if ratio.GreaterThan(sectorConcentrationLimit) {
			accID := accountID
			report.Issues = append(report.Issues, domain.ComplianceIssue{
				IssueType: domain.IssueSectorConcentration,
				Severity:  domain.SeverityLow,
				Message: fmt.Sprintf("Sector %s is %s%% of portfolio value",
					sector, ratio.Mul(hundred).StringFixed(1)),
				AccountID: &accID,
			})
		}
	}

	return nil
}

// evaluateDocumentExpiry flags approved documents expiring within 30 days and
// schedules a renewal task due on each document's expiry date.
func (s *complianceService) evaluateDocumentExpiry(ctx context.Context, callerUserID string, report *domain.ComplianceReport) error {
	cutoff := s.clock.Now().AddDate(0, 0, documentExpiryWindow)
	documents, err := s.documentRepo.FindApprovedDocumentsExpiringBy(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to fetch expiring documents: %w", err)
	}

	for _, doc := range documents {
		clientID := doc.ClientID
		report.Issues = append(report.Issues, domain.ComplianceIssue{
			IssueType: domain.IssueDocumentExpiry,
			Severity:  domain.SeverityMedium,
			Message: fmt.Sprintf("Document %q expires on %s",
				doc.Name, doc.ExpiryDate.Format("2006-01-02")),
			ClientID:  &clientID,
			AccountID: doc.AccountID,
		})
		s.createTask(ctx, domain.ComplianceTask{
			ClientID:    &clientID,
			AccountID:   doc.AccountID,
			Title:       fmt.Sprintf("Renew document: %s", doc.Name),
			Description: fmt.Sprintf("Document %q (type %s) expires on %s and must be renewed.", doc.Name, doc.DocumentType, doc.ExpiryDate.Format("2006-01-02")),
			TaskType:    domain.TaskDocumentRenewal,
			Priority:    domain.PriorityMedium,
			DueDate:     *doc.ExpiryDate,
		}, callerUserID, report)
	}

	return nil
}

// sweepOverdueTasks bulk-transitions pending tasks past their due date to
// overdue and reports them as a single aggregate issue. A task is overdue
// once its due date lies before the current day, so a task due earlier the
// same day is not yet swept.
func (s *complianceService) sweepOverdueTasks(ctx context.Context, callerUserID string, report *domain.ComplianceReport) error {
	now := s.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	overdue, err := s.taskRepo.MarkPendingTasksOverdue(ctx, startOfDay, now, callerUserID)
	if err != nil {
		return fmt.Errorf("failed to sweep overdue tasks: %w", err)
	}
	if len(overdue) == 0 {
		return nil
	}

	taskIDs := make([]string, len(overdue))
	for i, task := range overdue {
		taskIDs[i] = task.TaskID
	}
	report.Issues = append(report.Issues, domain.ComplianceIssue{
		IssueType: domain.IssueOverdueTasks,
		Severity:  domain.SeverityHigh,
		Message:   fmt.Sprintf("%d compliance task(s) are past their due date", len(overdue)),
		TaskIDs:   taskIDs,
	})
	return nil
}

// createTask persists a follow-up task and records it in the report.
// Task creation is a best-effort secondary write: a failed insert is logged
// and the task omitted from the result, without failing the evaluation.
func (s *complianceService) createTask(ctx context.Context, task domain.ComplianceTask, callerUserID string, report *domain.ComplianceReport) {
	now := s.clock.Now()
	task.TaskID = uuid.NewString()
	task.Status = domain.TaskPending
	task.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     callerUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: callerUserID,
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save compliance task",
			slog.String("task_type", string(task.TaskType)),
			slog.String("title", task.Title))
		return
	}
	report.TasksCreated = append(report.TasksCreated, task)
}

// ListTasks retrieves compliance tasks matching the filter parameters.
func (s *complianceService) ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.ComplianceTask, error) {
	var status *domain.TaskStatus
	if params.Status != nil {
		st := domain.TaskStatus(*params.Status)
		status = &st
	}

	tasks, err := s.taskRepo.ListTasks(ctx, status, params.ClientID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list compliance tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		return []domain.ComplianceTask{}, nil
	}
	return tasks, nil
}
