package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
	"github.com/summitwm/wealth_backoffice_app/internal/core/services"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
)

// --- Mock ClientReader ---
type MockClientRepository struct {
	mock.Mock
}

var _ portsrepo.ClientReader = (*MockClientRepository)(nil)

func (m *MockClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

// --- Mock DocumentReader ---
type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentReader = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindApprovedDocumentsExpiringBy(ctx context.Context, cutoff time.Time) ([]domain.Document, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

// --- Mock TaskRepositoryFacade ---
type MockTaskRepository struct {
	mock.Mock
}

var _ portsrepo.TaskRepositoryFacade = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) ListTasks(ctx context.Context, status *domain.TaskStatus, clientID *string, limit int, offset int) ([]domain.ComplianceTask, error) {
	args := m.Called(ctx, status, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceTask), args.Error(1)
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, task domain.ComplianceTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) MarkPendingTasksOverdue(ctx context.Context, cutoff time.Time, now time.Time, userID string) ([]domain.ComplianceTask, error) {
	args := m.Called(ctx, cutoff, now, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceTask), args.Error(1)
}

// --- Test Suite ---
type ComplianceServiceTestSuite struct {
	suite.Suite
	mockClientRepo   *MockClientRepository
	mockPositionRepo *MockPositionRepository
	mockDocumentRepo *MockDocumentRepository
	mockTaskRepo     *MockTaskRepository
	service          portssvc.ComplianceSvcFacade

	now        time.Time
	startOfDay time.Time
	userID     string
	clientID   string
	client     domain.Client
}

func (suite *ComplianceServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockPositionRepo = new(MockPositionRepository)
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockTaskRepo = new(MockTaskRepository)

	suite.now = time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)
	suite.startOfDay = time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewComplianceService(
		suite.mockClientRepo,
		suite.mockPositionRepo,
		suite.mockDocumentRepo,
		suite.mockTaskRepo,
		services.WithComplianceClock(services.FixedClock(suite.now)),
	)

	suite.userID = uuid.NewString()
	suite.clientID = uuid.NewString()
	suite.client = domain.Client{
		ClientID:    suite.clientID,
		Name:        "Helena Baumann",
		KYCStatus:   domain.KYCApproved,
		RiskProfile: domain.RiskBalanced,
		AuditFields: domain.AuditFields{
			LastUpdatedAt: suite.now.AddDate(0, -1, 0), // reviewed last month
		},
	}
}

func (suite *ComplianceServiceTestSuite) kycReq() dto.EvaluateComplianceRequest {
	return dto.EvaluateComplianceRequest{
		ClientID:  &suite.clientID,
		CheckType: domain.CheckKYC,
	}
}

func (suite *ComplianceServiceTestSuite) TestKYC_PendingStatusCreatesHighIssueAndTask() {
	ctx := context.Background()
	pending := suite.client
	pending.KYCStatus = domain.KYCPending
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).Return(&pending, nil).Once()
	suite.mockTaskRepo.On("SaveTask", ctx, mock.MatchedBy(func(t domain.ComplianceTask) bool {
		return t.TaskType == domain.TaskKYCReview &&
			t.Priority == domain.PriorityHigh &&
			t.Status == domain.TaskPending &&
			t.DueDate.Equal(suite.now.AddDate(0, 0, 7)) &&
			t.ClientID != nil && *t.ClientID == suite.clientID
	})).Return(nil).Once()

	report, err := suite.service.EvaluateCompliance(ctx, suite.kycReq(), suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Issues, 1)
	suite.Equal(domain.IssueKYC, report.Issues[0].IssueType)
	suite.Equal(domain.SeverityHigh, report.Issues[0].Severity)
	suite.Require().Len(report.TasksCreated, 1)
	suite.Equal(1, report.Summary.TotalIssues)
	suite.Equal(1, report.Summary.HighSeverity)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestKYC_ApprovedAndRecent_NoIssues() {
	ctx := context.Background()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).Return(&suite.client, nil).Once()

	report, err := suite.service.EvaluateCompliance(ctx, suite.kycReq(), suite.userID)

	suite.Require().NoError(err)
	suite.Empty(report.Issues)
	suite.Empty(report.TasksCreated)
	suite.Equal(0, report.Summary.TotalIssues)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask")
}

func (suite *ComplianceServiceTestSuite) TestKYC_StaleRecordCreatesAnnualReviewTask() {
	ctx := context.Background()
	stale := suite.client
	stale.LastUpdatedAt = suite.now.AddDate(0, 0, -366)
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).Return(&stale, nil).Once()
	suite.mockTaskRepo.On("SaveTask", ctx, mock.MatchedBy(func(t domain.ComplianceTask) bool {
		return t.TaskType == domain.TaskAnnualReview &&
			t.Priority == domain.PriorityMedium &&
			t.DueDate.Equal(suite.now.AddDate(0, 0, 30))
	})).Return(nil).Once()

	report, err := suite.service.EvaluateCompliance(ctx, suite.kycReq(), suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Issues, 1)
	suite.Equal(domain.IssueAnnualReview, report.Issues[0].IssueType)
	suite.Equal(domain.SeverityMedium, report.Issues[0].Severity)
	suite.Require().Len(report.TasksCreated, 1)
}

func (suite *ComplianceServiceTestSuite) TestKYC_TaskInsertFailure_IssueStillReported() {
	ctx := context.Background()
	pending := suite.client
	pending.KYCStatus = domain.KYCRejected
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).Return(&pending, nil).Once()
	suite.mockTaskRepo.On("SaveTask", ctx, mock.AnythingOfType("domain.ComplianceTask")).
		Return(errors.New("insert failed")).Once()

	report, err := suite.service.EvaluateCompliance(ctx, suite.kycReq(), suite.userID)

	suite.Require().NoError(err)
	suite.Len(report.Issues, 1)
	suite.Empty(report.TasksCreated)
}

func (suite *ComplianceServiceTestSuite) TestKYC_ClientNotFound() {
	ctx := context.Background()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.EvaluateCompliance(ctx, suite.kycReq(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ComplianceServiceTestSuite) TestKYC_MissingClientRef_RuleSkipped() {
	ctx := context.Background()
	req := dto.EvaluateComplianceRequest{CheckType: domain.CheckKYC}

	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(report.Issues)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByID")
}

func (suite *ComplianceServiceTestSuite) TestConcentration_ExactLimitNotFlagged() {
	ctx := context.Background()
	accountID := uuid.NewString()

	// One position at exactly 20% of a 100,000 portfolio
	positions := []domain.Position{
		{AccountID: accountID, SecurityID: "sec-1", Quantity: decimal.NewFromInt(1), MarketValue: decimal.NewFromInt(20_000)},
		{AccountID: accountID, SecurityID: "sec-2", Quantity: decimal.NewFromInt(1), MarketValue: decimal.NewFromInt(80_000)},
	}
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, accountID).Return(positions, nil).Once()
	suite.mockPositionRepo.On("FindSectorsBySecurityIDs", ctx, []string{"sec-1", "sec-2"}).
		Return(map[string]string{"sec-1": "Energy", "sec-2": "Utilities"}, nil).Once()

	req := dto.EvaluateComplianceRequest{AccountID: &accountID, CheckType: domain.CheckConcentration}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	// sec-2 at 80% breaches, sec-1 at exactly 20% does not; the two sectors
	// split 20/80 so only Utilities breaches the 30% sector limit.
	var positionIssues, sectorIssues int
	for _, issue := range report.Issues {
		switch issue.IssueType {
		case domain.IssueConcentration:
			positionIssues++
			suite.Equal(domain.SeverityMedium, issue.Severity)
		case domain.IssueSectorConcentration:
			sectorIssues++
			suite.Equal(domain.SeverityLow, issue.Severity)
		}
	}
	suite.Equal(1, positionIssues)
	suite.Equal(1, sectorIssues)
}

func (suite *ComplianceServiceTestSuite) TestConcentration_JustAboveLimitFlagged() {
	ctx := context.Background()
	accountID := uuid.NewString()

	// 20.0001% of the portfolio, strictly above the limit
	positions := []domain.Position{
		{AccountID: accountID, SecurityID: "sec-1", Quantity: decimal.NewFromInt(1), MarketValue: decimal.NewFromFloat(200_001)},
		{AccountID: accountID, SecurityID: "sec-2", Quantity: decimal.NewFromInt(1), MarketValue: decimal.NewFromFloat(799_999)},
	}
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, accountID).Return(positions, nil).Once()
	suite.mockPositionRepo.On("FindSectorsBySecurityIDs", ctx, []string{"sec-1", "sec-2"}).
		Return(map[string]string{}, nil).Once()

	req := dto.EvaluateComplianceRequest{AccountID: &accountID, CheckType: domain.CheckConcentration}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	var flagged []string
	for _, issue := range report.Issues {
		if issue.IssueType == domain.IssueConcentration {
			flagged = append(flagged, issue.Message)
		}
	}
	suite.Len(flagged, 2) // both positions breach: 20.0001% and 79.9999%
}

func (suite *ComplianceServiceTestSuite) TestConcentration_EmptyPortfolioNoIssues() {
	ctx := context.Background()
	accountID := uuid.NewString()
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, accountID).
		Return([]domain.Position{}, nil).Once()

	req := dto.EvaluateComplianceRequest{AccountID: &accountID, CheckType: domain.CheckConcentration}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(report.Issues)
	suite.mockPositionRepo.AssertNotCalled(suite.T(), "FindSectorsBySecurityIDs")
}

func (suite *ComplianceServiceTestSuite) TestDocuments_ExpiringDocumentCreatesRenewalTask() {
	ctx := context.Background()
	expiry := suite.now.AddDate(0, 0, 14)
	documents := []domain.Document{
		{
			DocumentID:   uuid.NewString(),
			ClientID:     suite.clientID,
			Name:         "Passport",
			DocumentType: "identity",
			Status:       domain.DocumentApproved,
			ExpiryDate:   &expiry,
		},
	}

	// The cutoff handed to the ledger is exactly 30 days out; a document
	// expiring on day 30 is included, day 31 is not.
	suite.mockDocumentRepo.On("FindApprovedDocumentsExpiringBy", ctx, suite.now.AddDate(0, 0, 30)).
		Return(documents, nil).Once()
	suite.mockTaskRepo.On("SaveTask", ctx, mock.MatchedBy(func(t domain.ComplianceTask) bool {
		return t.TaskType == domain.TaskDocumentRenewal &&
			t.DueDate.Equal(expiry) &&
			t.ClientID != nil && *t.ClientID == suite.clientID
	})).Return(nil).Once()

	req := dto.EvaluateComplianceRequest{CheckType: domain.CheckDocuments}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Issues, 1)
	suite.Equal(domain.IssueDocumentExpiry, report.Issues[0].IssueType)
	suite.Equal(domain.SeverityMedium, report.Issues[0].Severity)
	suite.Require().Len(report.TasksCreated, 1)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestTasks_OverdueSweepReportsSingleAggregateIssue() {
	ctx := context.Background()
	overdue := []domain.ComplianceTask{
		{TaskID: uuid.NewString(), Status: domain.TaskOverdue},
		{TaskID: uuid.NewString(), Status: domain.TaskOverdue},
		{TaskID: uuid.NewString(), Status: domain.TaskOverdue},
	}
	suite.mockTaskRepo.On("MarkPendingTasksOverdue", ctx, suite.startOfDay, suite.now, suite.userID).
		Return(overdue, nil).Once()

	req := dto.EvaluateComplianceRequest{CheckType: domain.CheckTasks}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Issues, 1)
	issue := report.Issues[0]
	suite.Equal(domain.IssueOverdueTasks, issue.IssueType)
	suite.Equal(domain.SeverityHigh, issue.Severity)
	suite.Len(issue.TaskIDs, 3)
	suite.Equal(1, report.Summary.HighSeverity)
}

func (suite *ComplianceServiceTestSuite) TestTasks_NothingOverdueNoIssue() {
	ctx := context.Background()
	suite.mockTaskRepo.On("MarkPendingTasksOverdue", ctx, suite.startOfDay, suite.now, suite.userID).
		Return([]domain.ComplianceTask{}, nil).Once()

	req := dto.EvaluateComplianceRequest{CheckType: domain.CheckTasks}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(report.Issues)
}

// A task due earlier on the evaluation day is not yet overdue: the sweep
// cutoff is the start of the current day, not the evaluation timestamp.
func (suite *ComplianceServiceTestSuite) TestTasks_SweepCutoffIsStartOfDay() {
	ctx := context.Background()
	suite.mockTaskRepo.On("MarkPendingTasksOverdue",
		ctx,
		mock.MatchedBy(func(cutoff time.Time) bool {
			return cutoff.Equal(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))
		}),
		suite.now,
		suite.userID,
	).Return([]domain.ComplianceTask{}, nil).Once()

	req := dto.EvaluateComplianceRequest{CheckType: domain.CheckTasks}
	_, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestEvaluate_DefaultsToAllChecks() {
	ctx := context.Background()
	accountID := uuid.NewString()

	pending := suite.client
	pending.KYCStatus = domain.KYCPending
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).Return(&pending, nil).Once()
	suite.mockPositionRepo.On("FindOpenPositionsByAccountID", ctx, accountID).
		Return([]domain.Position{}, nil).Once()
	suite.mockDocumentRepo.On("FindApprovedDocumentsExpiringBy", ctx, suite.now.AddDate(0, 0, 30)).
		Return([]domain.Document{}, nil).Once()
	suite.mockTaskRepo.On("MarkPendingTasksOverdue", ctx, suite.startOfDay, suite.now, suite.userID).
		Return([]domain.ComplianceTask{}, nil).Once()
	suite.mockTaskRepo.On("SaveTask", ctx, mock.AnythingOfType("domain.ComplianceTask")).Return(nil).Once()

	// Empty check type runs every rule
	req := dto.EvaluateComplianceRequest{ClientID: &suite.clientID, AccountID: &accountID}
	report, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(report.Issues, 1)
	suite.mockClientRepo.AssertExpectations(suite.T())
	suite.mockPositionRepo.AssertExpectations(suite.T())
	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestEvaluate_CheckTypeIsolation() {
	ctx := context.Background()

	// A kyc-only run must not touch documents or tasks
	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).Return(&suite.client, nil).Once()

	_, err := suite.service.EvaluateCompliance(ctx, suite.kycReq(), suite.userID)

	suite.Require().NoError(err)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "FindApprovedDocumentsExpiringBy")
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "MarkPendingTasksOverdue")
	suite.mockPositionRepo.AssertNotCalled(suite.T(), "FindOpenPositionsByAccountID")
}

func (suite *ComplianceServiceTestSuite) TestEvaluate_UnknownCheckType() {
	ctx := context.Background()
	req := dto.EvaluateComplianceRequest{CheckType: domain.CheckType("sanctions")}

	_, err := suite.service.EvaluateCompliance(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownCheckType)
}

func (suite *ComplianceServiceTestSuite) TestListTasks_FiltersForwarded() {
	ctx := context.Background()
	status := "pending"
	expected := []domain.ComplianceTask{{TaskID: uuid.NewString(), Status: domain.TaskPending}}
	suite.mockTaskRepo.On("ListTasks", ctx, mock.MatchedBy(func(s *domain.TaskStatus) bool {
		return s != nil && *s == domain.TaskPending
	}), (*string)(nil), 20, 0).Return(expected, nil).Once()

	tasks, err := suite.service.ListTasks(ctx, dto.ListTasksParams{Status: &status, Limit: 20})

	suite.Require().NoError(err)
	suite.Len(tasks, 1)
}

func TestComplianceService(t *testing.T) {
	suite.Run(t, new(ComplianceServiceTestSuite))
}
