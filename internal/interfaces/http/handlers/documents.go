// internal/interfaces/http/handlers/documents.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/domain/document"
)

// StatusChangeRequest asks for a workflow document transition
type StatusChangeRequest struct {
	Status document.Status `json:"status" binding:"required"`
}

func parseDocumentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid document ID",
		})
		return 0, false
	}
	return uint(id), true
}

func parseDocumentFilter(c *gin.Context) document.ListFilter {
	filter := document.ListFilter{
		Status: document.Status(c.Query("status")),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if v, err := strconv.ParseUint(c.Query("warehouse_id"), 10, 32); err == nil {
		filter.WarehouseID = uint(v)
	}
	return filter
}

func respondStatusHistory(c *gin.Context, svc *document.Service, docType document.Type, docID uint) {
	history, err := svc.GetStatusHistory(c.Request.Context(), docType, docID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve status history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": history,
	})
}
