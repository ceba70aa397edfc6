package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles inventory requests
type InventoryHandler struct {
	session *session.Session
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(sess *session.Session) *InventoryHandler {
	return &InventoryHandler{session: sess}
}

// ListInventory returns the inventory ledger
// @Summary      List inventory
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	items := h.session.Inventory()
	if items == nil {
		items = []model.InventoryItem{}
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    items,
	})
}

// Restock adds a batch to an item, creating it if needed
// @Summary      Restock inventory item
// @Description  Merges by case-insensitive name; resulting quantity never goes negative
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.RestockRequest true "Item and batch quantity"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/inventory [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	log := logger.FromGin(c)

	var req model.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	item, err := h.session.UpdateInventory(req.Name, req.Quantity)
	if err != nil {
		if errors.Is(err, model.ErrNegativeQuantity) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Error:   "quantidade resultante seria negativa",
			})
			return
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Erro ao repor inventário")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao repor inventário",
			Details: err.Error(),
		})
		return
	}

	metrics.Get().IncrementInventoryRestock()
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionInventoryRestock,
		Resource:   "inventory",
		ResourceID: strconv.FormatInt(item.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"name":     item.Name,
			"batch":    req.Quantity,
			"quantity": item.Quantity,
		},
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    item,
	})
}

// Consume debits an item's balance
// @Summary      Consume inventory item
// @Description  Debits the balance; insufficient balance leaves the item untouched
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Item ID"
// @Param        request body model.ConsumeRequest false "Amount (default 1)"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.ErrorResponse
// @Failure      409 {object} model.ErrorResponse
// @Router       /api/v1/inventory/{id}/consume [post]
func (h *InventoryHandler) Consume(c *gin.Context) {
	log := logger.FromGin(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ConsumeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Error:   "payload inválido",
				Details: err.Error(),
			})
			return
		}
	}

	item, err := h.session.ConsumeItem(id, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Success: false,
				Error:   "item não encontrado",
			})
		case errors.Is(err, model.ErrInsufficientQuantity):
			metrics.Get().IncrementInventoryConsume(false)
			c.JSON(http.StatusConflict, model.ErrorResponse{
				Success: false,
				Error:   "saldo insuficiente",
			})
		default:
			log.Error().Err(err).Int64("item_id", id).Msg("Erro ao consumir item")
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{
				Success: false,
				Error:   "erro ao consumir item",
				Details: err.Error(),
			})
		}
		return
	}

	metrics.Get().IncrementInventoryConsume(true)
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionInventoryConsume,
		Resource:   "inventory",
		ResourceID: strconv.FormatInt(item.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"name":     item.Name,
			"quantity": item.Quantity,
			"consumed": item.Consumed,
		},
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    item,
	})
}
