package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/dto"
	"github.com/SscSPs/mma_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// assetHandler handles HTTP requests for assets and their ledger entries.
type assetHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newAssetHandler(ls portssvc.LedgerSvcFacade) *assetHandler {
	return &assetHandler{ledgerService: ls}
}

// registerAssetRoutes registers asset and entry routes.
func registerAssetRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newAssetHandler(ledgerService)

	assets := rg.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("", h.listAssets)
		assets.GET("/:assetID", h.getAsset)
		assets.GET("/:assetID/verify", h.verifyAsset)
		assets.POST("/:assetID/entries", h.recordEntry)
	}
	rg.DELETE("/entries/:entryID", h.deleteEntry)
}

func (h *assetHandler) createAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create asset", slog.String("asset_name", req.Name), slog.String("asset_type", string(req.Type)))
	asset, err := h.ledgerService.CreateAsset(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, "CreateAsset", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssetResponse(asset))
}

func (h *assetHandler) listAssets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	assets, err := h.ledgerService.ListAssets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, "ListAssets", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAssetResponse(assets))
}

func (h *assetHandler) getAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	assetID := c.Param("assetID")
	asset, err := h.ledgerService.GetAsset(c.Request.Context(), assetID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("asset_id", assetID)), "GetAsset", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssetResponse(asset))
}

func (h *assetHandler) verifyAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	assetID := c.Param("assetID")
	check, err := h.ledgerService.VerifyAssetBalance(c.Request.Context(), assetID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("asset_id", assetID)), "VerifyAssetBalance", err)
		return
	}

	c.JSON(http.StatusOK, check)
}

func (h *assetHandler) recordEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	assetID := c.Param("assetID")
	logger = logger.With(slog.String("asset_id", assetID))
	logger.Info("Received request to record entry", slog.String("kind", string(req.Kind)), slog.String("amount", req.Amount.String()))

	entry, asset, err := h.ledgerService.RecordEntry(c.Request.Context(), assetID, req, userID)
	if err != nil {
		respondError(c, logger, "RecordEntry", err)
		return
	}

	c.JSON(http.StatusCreated, dto.RecordEntryResponse{
		Entry: dto.ToEntryResponse(entry),
		Asset: dto.ToAssetResponse(asset),
	})
}

// deleteEntry reverts an entry. A second delete of the same entry is a 409.
func (h *assetHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))
	logger.Info("Received request to delete entry")

	asset, err := h.ledgerService.DeleteEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, logger, "DeleteEntry", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssetResponse(asset))
}
