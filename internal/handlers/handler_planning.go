package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/SscSPs/mma_ledger/internal/core/money"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/SscSPs/mma_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// planningHandler serves read-only projections and repayment plans.
type planningHandler struct {
	planningService portssvc.PlanningSvcFacade
}

func newPlanningHandler(ps portssvc.PlanningSvcFacade) *planningHandler {
	return &planningHandler{planningService: ps}
}

func registerPlanningRoutes(rg *gin.RouterGroup, planningService portssvc.PlanningSvcFacade) {
	h := newPlanningHandler(planningService)

	rg.GET("/debts/:debtID/projection", h.projectDebt)
	plans := rg.Group("/plans")
	{
		plans.POST("", h.plan)
		plans.POST("/compare", h.compare)
	}
}

func (h *planningHandler) projectDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ProjectionParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for Project", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payment, err := money.Parse(params.MonthlyPayment)
	if err != nil {
		logger.Warn("Invalid monthly payment", slog.String("monthly_payment", params.MonthlyPayment))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid monthlyPayment: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	debtID := c.Param("debtID")
	projection, err := h.planningService.Project(c.Request.Context(), debtID, payment, params.Schedule, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("debt_id", debtID)), "Project", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectionResponse(projection))
}

func (h *planningHandler) plan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Plan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		respondError(c, logger, "Plan", err)
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	outcome, err := h.planningService.Plan(c.Request.Context(), userID, req.ExtraBudget, strategy)
	if err != nil {
		respondError(c, logger, "Plan", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanResponse(outcome))
}

func (h *planningHandler) compare(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Compare", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	comparison, err := h.planningService.Compare(c.Request.Context(), userID, req.ExtraBudget)
	if err != nil {
		respondError(c, logger, "Compare", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompareResponse(comparison))
}
