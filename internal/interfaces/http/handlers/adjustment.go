// internal/interfaces/http/handlers/adjustment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/document"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// AdjustmentHandler handles stock adjustment endpoints
type AdjustmentHandler struct {
	documentService *document.Service
	config          *config.Config
}

// NewAdjustmentHandler creates a new adjustment handler
func NewAdjustmentHandler(documentService *document.Service, cfg *config.Config) *AdjustmentHandler {
	return &AdjustmentHandler{
		documentService: documentService,
		config:          cfg,
	}
}

// CreateAdjustment handles POST /adjustments
func (h *AdjustmentHandler) CreateAdjustment(c *gin.Context) {
	var req document.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adjustment, err := h.documentService.CreateAdjustment(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Adjustment created successfully",
		"data":    adjustment,
	})
}

// GetAdjustment handles GET /adjustments/:id
func (h *AdjustmentHandler) GetAdjustment(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	adjustment, err := h.documentService.GetAdjustment(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": adjustment,
	})
}

// ListAdjustments handles GET /adjustments
func (h *AdjustmentHandler) ListAdjustments(c *gin.Context) {
	result, err := h.documentService.ListAdjustments(c.Request.Context(), parseDocumentFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve adjustments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// ChangeAdjustmentStatus handles POST /adjustments/:id/status
func (h *AdjustmentHandler) ChangeAdjustmentStatus(c *gin.Context) {
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

	adjustment, err := h.documentService.TransitionAdjustment(c.Request.Context(), id, req.Status, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Adjustment status updated successfully",
		"data":    adjustment,
	})
}

// GetAdjustmentStatusHistory handles GET /adjustments/:id/history
func (h *AdjustmentHandler) GetAdjustmentStatusHistory(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}
	respondStatusHistory(c, h.documentService, document.TypeAdjustment, id)
}
