package handler

import (
	"net/http"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles settings requests
type SettingsHandler struct {
	session *session.Session
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(sess *session.Session) *SettingsHandler {
	return &SettingsHandler{session: sess}
}

// GetSettings returns the household settings
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    h.session.Settings(),
	})
}

// UpdateSettings saves the user-editable settings
// @Summary      Update settings
// @Description  Saves user-editable settings; lifecycle fields are preserved
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.Settings true "Settings to save"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	log := logger.FromGin(c)

	var req model.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	settings, err := h.session.UpdateSettings(req)
	if err != nil {
		log.Error().Err(err).Msg("Erro ao salvar configurações")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao salvar configurações",
			Details: err.Error(),
		})
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:   logger.AuditActionSettingsUpdate,
		Resource: "settings",
		ClientIP: c.ClientIP(),
		Success:  true,
		Details: map[string]interface{}{
			"auto_rollover":         settings.AutoRollover,
			"notifications_enabled": settings.NotificationsEnabled,
			"notif_window":          settings.NotifWindow,
		},
	})

	log.Info().Msg("Configurações salvas com sucesso")

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    settings,
	})
}

// RegisterMarket records a market trip at the current instant
// @Summary      Register market trip
// @Description  Anchors the market cadence at now
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/market/register [post]
func (h *SettingsHandler) RegisterMarket(c *gin.Context) {
	log := logger.FromGin(c)

	settings, err := h.session.RegisterMarket()
	if err != nil {
		log.Error().Err(err).Msg("Erro ao registrar mercado")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao registrar mercado",
			Details: err.Error(),
		})
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:   logger.AuditActionMarketRegister,
		Resource: "settings",
		ClientIP: c.ClientIP(),
		Success:  true,
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    settings,
	})
}
