package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/SscSPs/mma_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type debtHandler struct {
	debtService portssvc.DebtSvcFacade
}

func newDebtHandler(ds portssvc.DebtSvcFacade) *debtHandler {
	return &debtHandler{debtService: ds}
}

// registerDebtRoutes registers debt routes. The projection route lives in
// the planning handler.
func registerDebtRoutes(rg *gin.RouterGroup, debtService portssvc.DebtSvcFacade) {
	h := newDebtHandler(debtService)

	debts := rg.Group("/debts")
	{
		debts.POST("", h.createDebt)
		debts.GET("", h.listDebts)
		debts.GET("/:debtID", h.getDebt)
		debts.POST("/:debtID/payments", h.makePayment)
	}
}

func (h *debtHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create debt", slog.String("debt_name", req.Name), slog.String("debt_type", string(req.Type)))
	debt, err := h.debtService.CreateDebt(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, "CreateDebt", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

func (h *debtHandler) listDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDebtsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListDebts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), userID, params.IncludeArchived)
	if err != nil {
		respondError(c, logger, "ListDebts", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDebtResponse(debts))
}

func (h *debtHandler) getDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	debtID := c.Param("debtID")
	debt, err := h.debtService.GetDebt(c.Request.Context(), debtID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("debt_id", debtID)), "GetDebt", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

func (h *debtHandler) makePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MakePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	debtID := c.Param("debtID")
	logger = logger.With(slog.String("debt_id", debtID), slog.String("asset_id", req.AssetID))
	logger.Info("Received request to make payment", slog.String("amount", req.Amount.String()), slog.String("payment_type", string(req.Type)))

	result, err := h.debtService.MakePayment(c.Request.Context(), req.ToPaymentRecord(debtID), userID)
	if err != nil {
		respondError(c, logger, "MakePayment", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(result))
}
