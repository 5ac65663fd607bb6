// internal/interfaces/http/handlers/transfer.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/document"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// TransferHandler handles transfer endpoints
type TransferHandler struct {
	documentService *document.Service
	config          *config.Config
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(documentService *document.Service, cfg *config.Config) *TransferHandler {
	return &TransferHandler{
		documentService: documentService,
		config:          cfg,
	}
}

// CreateTransfer handles POST /transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req document.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	transfer, err := h.documentService.CreateTransfer(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transfer created successfully",
		"data":    transfer,
	})
}

// GetTransfer handles GET /transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	transfer, err := h.documentService.GetTransfer(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": transfer,
	})
}

// ListTransfers handles GET /transfers
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	result, err := h.documentService.ListTransfers(c.Request.Context(), parseDocumentFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve transfers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// UpdateTransferItems handles PUT /transfers/:id/items
func (h *TransferHandler) UpdateTransferItems(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req document.UpdateTransferItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	transfer, err := h.documentService.UpdateTransferItems(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer items updated successfully",
		"data":    transfer,
	})
}

// ChangeTransferStatus handles POST /transfers/:id/status
func (h *TransferHandler) ChangeTransferStatus(c *gin.Context) {
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

	transfer, err := h.documentService.TransitionTransfer(c.Request.Context(), id, req.Status, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer status updated successfully",
		"data":    transfer,
	})
}

// GetTransferStatusHistory handles GET /transfers/:id/history
func (h *TransferHandler) GetTransferStatusHistory(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}
	respondStatusHistory(c, h.documentService, document.TypeTransfer, id)
}
