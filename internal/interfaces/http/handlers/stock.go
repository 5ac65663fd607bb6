// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/stock"
)

// StockHandler handles stock level and ledger endpoints. All stock reads go
// through the ledger service; no endpoint mutates levels directly.
type StockHandler struct {
	ledgerService *stock.LedgerService
	config        *config.Config
}

// NewStockHandler creates a new stock handler
func NewStockHandler(ledgerService *stock.LedgerService, cfg *config.Config) *StockHandler {
	return &StockHandler{
		ledgerService: ledgerService,
		config:        cfg,
	}
}

// ReservationRequest identifies a reservation target and quantity
type ReservationRequest struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	WarehouseID uint    `json:"warehouse_id" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
}

// ListStockLevels handles GET /stock/levels
func (h *StockHandler) ListStockLevels(c *gin.Context) {
	filter := stock.LevelFilter{
		LowStock: c.DefaultQuery("low_stock", "false") == "true",
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if v, err := strconv.ParseUint(c.Query("product_id"), 10, 32); err == nil {
		filter.ProductID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("warehouse_id"), 10, 32); err == nil {
		filter.WarehouseID = uint(v)
	}

	levels, total, err := h.ledgerService.ListStockLevels(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock levels",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  levels,
		"total": total,
	})
}

// GetStockLevel handles GET /stock/levels/:productId/:warehouseId
func (h *StockHandler) GetStockLevel(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}
	warehouseID, err := strconv.ParseUint(c.Param("warehouseId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid warehouse ID",
		})
		return
	}

	level, err := h.ledgerService.GetCurrentStock(c.Request.Context(), uint(productID), uint(warehouseID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":               level,
		"available_quantity": level.AvailableQuantity(),
	})
}

// GetLedgerHistory handles GET /stock/ledger
func (h *StockHandler) GetLedgerHistory(c *gin.Context) {
	filter := stock.LedgerFilter{}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if v, err := strconv.ParseUint(c.Query("product_id"), 10, 32); err == nil {
		filter.ProductID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("warehouse_id"), 10, 32); err == nil {
		filter.WarehouseID = uint(v)
	}
	if v, err := time.Parse(time.RFC3339, c.Query("start_date")); err == nil {
		filter.StartDate = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("end_date")); err == nil {
		filter.EndDate = &v
	}

	history, err := h.ledgerService.GetLedgerHistory(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve ledger history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": history,
	})
}

// ReserveStock handles POST /stock/reservations
func (h *StockHandler) ReserveStock(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.ledgerService.ReserveStock(c.Request.Context(), req.ProductID, req.WarehouseID, req.Quantity); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock reserved successfully",
	})
}

// ReleaseReservation handles POST /stock/reservations/release
func (h *StockHandler) ReleaseReservation(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.ledgerService.ReleaseReservation(c.Request.Context(), req.ProductID, req.WarehouseID, req.Quantity); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservation released successfully",
	})
}
