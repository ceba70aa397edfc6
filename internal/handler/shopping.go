package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/gin-gonic/gin"
)

// ShoppingHandler handles shopping list requests
type ShoppingHandler struct {
	session *session.Session
}

// NewShoppingHandler creates a new shopping handler
func NewShoppingHandler(sess *session.Session) *ShoppingHandler {
	return &ShoppingHandler{session: sess}
}

// ListShopping returns the shopping list
// @Summary      List shopping items
// @Tags         shopping
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/shopping [get]
func (h *ShoppingHandler) ListShopping(c *gin.Context) {
	items := h.session.ShoppingItems()
	if items == nil {
		items = []model.ShoppingItem{}
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    items,
	})
}

// AddItem creates a shopping list item
// @Summary      Add shopping item
// @Tags         shopping
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.AddShoppingItemRequest true "Item to add"
// @Success      201 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/shopping [post]
func (h *ShoppingHandler) AddItem(c *gin.Context) {
	log := logger.FromGin(c)

	var req model.AddShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	item, err := h.session.AddShoppingItem(req.Name, req.Quantity, req.FrequencyDays)
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Erro ao adicionar item de compras")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao adicionar item",
			Details: err.Error(),
		})
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionShoppingUpdate,
		Resource:   "shopping",
		ResourceID: strconv.FormatInt(item.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"name":      item.Name,
			"operation": "add",
		},
	})

	c.JSON(http.StatusCreated, model.Response{
		Success: true,
		Data:    item,
	})
}

// DeleteItem removes a shopping list item
// @Summary      Delete shopping item
// @Tags         shopping
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Item ID"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/shopping/{id} [delete]
func (h *ShoppingHandler) DeleteItem(c *gin.Context) {
	log := logger.FromGin(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.session.DeleteShoppingItem(id); err != nil {
		if errors.Is(err, model.ErrShoppingItemNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Success: false,
				Error:   "item não encontrado",
			})
			return
		}
		log.Error().Err(err).Int64("item_id", id).Msg("Erro ao remover item de compras")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao remover item",
			Details: err.Error(),
		})
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionShoppingUpdate,
		Resource:   "shopping",
		ResourceID: strconv.FormatInt(id, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"operation": "delete",
		},
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
	})
}

// PurchaseItem marks a shopping item as purchased now
// @Summary      Purchase shopping item
// @Description  Anchors the item's cadence at now and clears the needed flag
// @Tags         shopping
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Item ID"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/shopping/{id}/purchase [post]
func (h *ShoppingHandler) PurchaseItem(c *gin.Context) {
	log := logger.FromGin(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.session.PurchaseShoppingItem(id)
	if err != nil {
		if errors.Is(err, model.ErrShoppingItemNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Success: false,
				Error:   "item não encontrado",
			})
			return
		}
		log.Error().Err(err).Int64("item_id", id).Msg("Erro ao registrar compra")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao registrar compra",
			Details: err.Error(),
		})
		return
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionShoppingUpdate,
		Resource:   "shopping",
		ResourceID: strconv.FormatInt(item.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"name":      item.Name,
			"operation": "purchase",
		},
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    item,
	})
}

// Alerts evaluates cadences and returns the items currently needed
// @Summary      Shopping alerts
// @Description  Marks items past their purchase cadence as needed and returns them
// @Tags         shopping
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/shopping/alerts [get]
func (h *ShoppingHandler) Alerts(c *gin.Context) {
	log := logger.FromGin(c)

	marked, err := h.session.MarkNeededItems()
	if err != nil {
		log.Error().Err(err).Msg("Erro ao avaliar alertas de compras")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao avaliar alertas",
			Details: err.Error(),
		})
		return
	}

	needed := []model.ShoppingItem{}
	for _, item := range h.session.ShoppingItems() {
		if item.Needed {
			needed = append(needed, item)
		}
	}

	if marked > 0 {
		log.Info().Int("marked", marked).Msg("Itens de compra marcados como necessários")
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data: gin.H{
			"marked": marked,
			"items":  needed,
		},
	})
}
