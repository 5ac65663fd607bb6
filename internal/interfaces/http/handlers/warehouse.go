// internal/interfaces/http/handlers/warehouse.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// WarehouseHandler handles warehouse endpoints
type WarehouseHandler struct {
	warehouseService *warehouse.Service
	config           *config.Config
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(db *gorm.DB, cfg *config.Config) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouse.NewService(db, cfg),
		config:           cfg,
	}
}

// CreateWarehouse handles POST /warehouses
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req warehouse.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.warehouseService.CreateWarehouse(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Warehouse created successfully",
		"data":    created,
	})
}

// GetWarehouse handles GET /warehouses/:id
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid warehouse ID",
		})
		return
	}

	found, err := h.warehouseService.GetWarehouse(uint(id))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": found,
	})
}

// ListWarehouses handles GET /warehouses
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	warehouses, err := h.warehouseService.ListWarehouses(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve warehouses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": warehouses,
	})
}

// UpdateWarehouse handles PUT /warehouses/:id
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid warehouse ID",
		})
		return
	}

	var req warehouse.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.warehouseService.UpdateWarehouse(uint(id), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse updated successfully",
		"data":    updated,
	})
}

// DeactivateWarehouse handles DELETE /warehouses/:id
func (h *WarehouseHandler) DeactivateWarehouse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid warehouse ID",
		})
		return
	}

	if err := h.warehouseService.DeactivateWarehouse(uint(id)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse deactivated successfully",
	})
}
