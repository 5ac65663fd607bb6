// internal/interfaces/http/handlers/receipt.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/document"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// ReceiptHandler handles receipt endpoints
type ReceiptHandler struct {
	documentService *document.Service
	config          *config.Config
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(documentService *document.Service, cfg *config.Config) *ReceiptHandler {
	return &ReceiptHandler{
		documentService: documentService,
		config:          cfg,
	}
}

// CreateReceipt handles POST /receipts
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var req document.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	receipt, err := h.documentService.CreateReceipt(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Receipt created successfully",
		"data":    receipt,
	})
}

// GetReceipt handles GET /receipts/:id
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	receipt, err := h.documentService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": receipt,
	})
}

// ListReceipts handles GET /receipts
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	result, err := h.documentService.ListReceipts(c.Request.Context(), parseDocumentFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve receipts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// UpdateReceiptItems handles PUT /receipts/:id/items
func (h *ReceiptHandler) UpdateReceiptItems(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req document.UpdateReceiptItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	receipt, err := h.documentService.UpdateReceiptItems(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt items updated successfully",
		"data":    receipt,
	})
}

// ChangeReceiptStatus handles POST /receipts/:id/status
func (h *ReceiptHandler) ChangeReceiptStatus(c *gin.Context) {
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

	receipt, err := h.documentService.TransitionReceipt(c.Request.Context(), id, req.Status, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt status updated successfully",
		"data":    receipt,
	})
}

// GetReceiptStatusHistory handles GET /receipts/:id/history
func (h *ReceiptHandler) GetReceiptStatusHistory(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}
	respondStatusHistory(c, h.documentService, document.TypeReceipt, id)
}
