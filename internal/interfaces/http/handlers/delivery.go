// internal/interfaces/http/handlers/delivery.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/document"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// DeliveryHandler handles delivery endpoints
type DeliveryHandler struct {
	documentService *document.Service
	config          *config.Config
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(documentService *document.Service, cfg *config.Config) *DeliveryHandler {
	return &DeliveryHandler{
		documentService: documentService,
		config:          cfg,
	}
}

// CreateDelivery handles POST /deliveries
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req document.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	delivery, err := h.documentService.CreateDelivery(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Delivery created successfully",
		"data":    delivery,
	})
}

// GetDelivery handles GET /deliveries/:id
func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	delivery, err := h.documentService.GetDelivery(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": delivery,
	})
}

// ListDeliveries handles GET /deliveries
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	result, err := h.documentService.ListDeliveries(c.Request.Context(), parseDocumentFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve deliveries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// UpdateDeliveryItems handles PUT /deliveries/:id/items
func (h *DeliveryHandler) UpdateDeliveryItems(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req document.UpdateDeliveryItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	delivery, err := h.documentService.UpdateDeliveryItems(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery items updated successfully",
		"data":    delivery,
	})
}

// ChangeDeliveryStatus handles POST /deliveries/:id/status
func (h *DeliveryHandler) ChangeDeliveryStatus(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	delivery, err := h.documentService.TransitionDelivery(c.Request.Context(), id, req.Status, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery status updated successfully",
		"data":    delivery,
	})
}

// GetDeliveryStatusHistory handles GET /deliveries/:id/history
func (h *DeliveryHandler) GetDeliveryStatusHistory(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}
	respondStatusHistory(c, h.documentService, document.TypeDelivery, id)
}
