package handler

import (
	"net/http"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/service"
	"github.com/gin-gonic/gin"
)

// ScanHandler handles invoice scan ingestion
type ScanHandler struct {
	scanner *service.ScannerService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanner *service.ScannerService) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

// Ingest applies a scan result to the inventory
// @Summary      Ingest invoice scan
// @Description  Applies each detected item as an inventory restock; invalid items are skipped
// @Tags         scan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.ScanRequest true "Detected items"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/scan [post]
func (h *ScanHandler) Ingest(c *gin.Context) {
	log := logger.FromGin(c)

	var req model.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.scanner.Ingest(c.Request.Context(), req.Items)
	if err != nil {
		log.Error().Err(err).Msg("Erro ao processar escaneamento")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao processar escaneamento",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    updated,
	})
}
