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

// feeHandler handles HTTP requests related to fee calculation.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

// newFeeHandler creates a new feeHandler.
func newFeeHandler(fs portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{
		feeService: fs,
	}
}

// registerFeeRoutes registers routes related to fee calculation.
func registerFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	// Calculation writes to the ledger, keep a per-IP rate limit on it
	rate, _ := limiter.NewRateFromFormatted("60-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	fees := rg.Group("/fees")
	{
		fees.POST("/calculate", middleware.RateLimit(ipLimiter), h.calculateFee)
		fees.GET("/:feeID", h.getFee)
	}
}

// getFee godoc
// @Summary Get a fee with its retrocessions
// @Description Retrieves a persisted fee by ID together with the retrocession payouts derived from it
// @Tags fees
// @Produce  json
// @Param   feeID path string true "Fee ID"
// @Success 200 {object} dto.FeeDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fee not found"
// @Failure 500 {object} map[string]string "Failed to get fee"
// @Security BearerAuth
// @Router /fees/{feeID} [get]
func (h *feeHandler) getFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	feeID := c.Param("feeID")

	fee, retros, err := h.feeService.GetFeeByID(c.Request.Context(), feeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fee not found", slog.String("fee_id", feeID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee not found"})
			return
		}
		logger.Error("Failed to get fee", slog.String("error", err.Error()), slog.String("fee_id", feeID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get fee"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeDetailResponse(fee, retros))
}

// calculateFee godoc
// @Summary Calculate a fee for an account
// @Description Computes a fee of the requested type for an account over a billing period, persists it and allocates any retrocessions
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   request body dto.CalculateFeeRequest true "Fee calculation parameters"
// @Success 200 {object} dto.CalculateFeeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to calculate fee"
// @Security BearerAuth
// @Router /fees/calculate [post]
func (h *feeHandler) calculateFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CalculateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateFee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID), slog.String("fee_type", string(req.FeeType)))
	logger.Info("Received request to calculate fee")

	fee, retros, err := h.feeService.CalculateFee(c.Request.Context(), req, callerUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownFeeType),
			errors.Is(err, services.ErrInvalidPeriod),
			errors.Is(err, services.ErrAccountNotActive),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error calculating fee", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Account not found for fee calculation", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			logger.Error("Failed to calculate fee in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate fee"})
		}
		return
	}

	logger.Info("Fee calculated successfully", slog.String("fee_id", fee.FeeID), slog.String("amount", fee.Amount.String()))
	c.JSON(http.StatusOK, dto.ToCalculateFeeResponse(fee, retros))
}
