package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
	"github.com/summitwm/wealth_backoffice_app/internal/core/services"
	"github.com/summitwm/wealth_backoffice_app/internal/dto"
	"github.com/summitwm/wealth_backoffice_app/internal/middleware"
)

// complianceHandler handles HTTP requests related to compliance evaluation.
type complianceHandler struct {
	complianceService portssvc.ComplianceSvcFacade
}

// newComplianceHandler creates a new complianceHandler.
func newComplianceHandler(cs portssvc.ComplianceSvcFacade) *complianceHandler {
	return &complianceHandler{
		complianceService: cs,
	}
}

// registerComplianceRoutes registers routes related to compliance evaluation and tasks.
func registerComplianceRoutes(rg *gin.RouterGroup, complianceService portssvc.ComplianceSvcFacade) {
	h := newComplianceHandler(complianceService)

	// Evaluation writes follow-up tasks, keep a per-IP rate limit on it
	rate, _ := limiter.NewRateFromFormatted("60-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	compliance := rg.Group("/compliance")
	{
		compliance.POST("/evaluate", middleware.RateLimit(ipLimiter), h.evaluateCompliance)
	}

	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.listTasks)
	}
}

// evaluateCompliance godoc
// @Summary Evaluate compliance rules
// @Description Runs the selected compliance rule(s), records follow-up tasks and returns the findings
// @Tags compliance
// @Accept  json
// @Produce  json
// @Param   request body dto.EvaluateComplianceRequest true "Evaluation parameters"
// @Success 200 {object} dto.EvaluateComplianceResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced client or account not found"
// @Failure 500 {object} map[string]string "Failed to evaluate compliance"
// @Security BearerAuth
// @Router /compliance/evaluate [post]
func (h *complianceHandler) evaluateCompliance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EvaluateComplianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EvaluateCompliance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to evaluate compliance", slog.String("check_type", string(req.CheckType)))

	report, err := h.complianceService.EvaluateCompliance(c.Request.Context(), req, callerUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownCheckType), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error evaluating compliance", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Referenced entity not found for compliance evaluation", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": "Referenced client or account not found"})
		default:
			logger.Error("Failed to evaluate compliance in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate compliance"})
		}
		return
	}

	logger.Info("Compliance evaluated successfully", slog.Int("issues", report.Summary.TotalIssues))
	c.JSON(http.StatusOK, dto.ToEvaluateComplianceResponse(report))
}

// listTasks godoc
// @Summary List compliance tasks
// @Description Retrieves compliance tasks, optionally filtered by status and client
// @Tags compliance
// @Produce  json
// @Param   status query string false "Task status filter" Enums(pending, overdue, completed, cancelled)
// @Param   clientID query string false "Client ID filter"
// @Param   limit query int false "Max tasks to return (default 20)"
// @Param   offset query int false "Offset for pagination (default 0)"
// @Success 200 {object} dto.ListTasksResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tasks"
// @Security BearerAuth
// @Router /tasks [get]
func (h *complianceHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTasks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	tasks, err := h.complianceService.ListTasks(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list compliance tasks in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, dto.ListTasksResponse{Tasks: dto.ToTaskResponses(tasks)})
}
