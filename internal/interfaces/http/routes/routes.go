// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/document"
	"github.com/your-org/inventory-backend/internal/domain/numbering"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/interfaces/http/handlers"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
	"github.com/your-org/inventory-backend/internal/pkg/logger"
)

// SetupRoutes wires every API route. The ledger and document services are
// built once here and shared, so there is exactly one stock mutator in the
// process.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	log := logger.New(cfg)

	ledgerService := stock.NewLedgerService(stock.NewGormStore(db), cfg, log)
	numberingService := numbering.NewService(redisClient, log)
	documentService := document.NewService(document.NewGormStore(db), ledgerService, numberingService, cfg, log)

	setupMasterDataRoutes(rg, db, cfg)
	setupStockRoutes(rg, ledgerService, cfg)
	setupDocumentRoutes(rg, documentService, cfg)
}

// setupMasterDataRoutes sets up product and warehouse routes
func setupMasterDataRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	warehouseHandler := handlers.NewWarehouseHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)

		protected := products.Group("")
		protected.Use(middleware.Identity())
		{
			protected.POST("", productHandler.CreateProduct)
			protected.PUT("/:id", productHandler.UpdateProduct)
			protected.DELETE("/:id", productHandler.DeactivateProduct)
		}
	}

	warehouses := rg.Group("/warehouses")
	{
		warehouses.GET("", warehouseHandler.ListWarehouses)
		warehouses.GET("/:id", warehouseHandler.GetWarehouse)

		protected := warehouses.Group("")
		protected.Use(middleware.Identity())
		{
			protected.POST("", warehouseHandler.CreateWarehouse)
			protected.PUT("/:id", warehouseHandler.UpdateWarehouse)
			protected.DELETE("/:id", warehouseHandler.DeactivateWarehouse)
		}
	}
}

// setupStockRoutes sets up stock level, ledger and reservation routes
func setupStockRoutes(rg *gin.RouterGroup, ledgerService *stock.LedgerService, cfg *config.Config) {
	stockHandler := handlers.NewStockHandler(ledgerService, cfg)

	stockGroup := rg.Group("/stock")
	{
		stockGroup.GET("/levels", stockHandler.ListStockLevels)
		stockGroup.GET("/levels/:productId/:warehouseId", stockHandler.GetStockLevel)
		stockGroup.GET("/ledger", stockHandler.GetLedgerHistory)

		protected := stockGroup.Group("")
		protected.Use(middleware.Identity())
		{
			protected.POST("/reservations", stockHandler.ReserveStock)
			protected.POST("/reservations/release", stockHandler.ReleaseReservation)
		}
	}
}

// setupDocumentRoutes sets up the four workflow document route groups
func setupDocumentRoutes(rg *gin.RouterGroup, documentService *document.Service, cfg *config.Config) {
	receiptHandler := handlers.NewReceiptHandler(documentService, cfg)
	deliveryHandler := handlers.NewDeliveryHandler(documentService, cfg)
	transferHandler := handlers.NewTransferHandler(documentService, cfg)
	adjustmentHandler := handlers.NewAdjustmentHandler(documentService, cfg)

	receipts := rg.Group("/receipts")
	receipts.Use(middleware.Identity())
	{
		receipts.POST("", receiptHandler.CreateReceipt)
		receipts.GET("", receiptHandler.ListReceipts)
		receipts.GET("/:id", receiptHandler.GetReceipt)
		receipts.PUT("/:id/items", receiptHandler.UpdateReceiptItems)
		receipts.POST("/:id/status", receiptHandler.ChangeReceiptStatus)
		receipts.GET("/:id/history", receiptHandler.GetReceiptStatusHistory)
	}

	deliveries := rg.Group("/deliveries")
	deliveries.Use(middleware.Identity())
	{
		deliveries.POST("", deliveryHandler.CreateDelivery)
		deliveries.GET("", deliveryHandler.ListDeliveries)
		deliveries.GET("/:id", deliveryHandler.GetDelivery)
		deliveries.PUT("/:id/items", deliveryHandler.UpdateDeliveryItems)
		deliveries.POST("/:id/status", deliveryHandler.ChangeDeliveryStatus)
		deliveries.GET("/:id/history", deliveryHandler.GetDeliveryStatusHistory)
	}

	transfers := rg.Group("/transfers")
	transfers.Use(middleware.Identity())
	{
		transfers.POST("", transferHandler.CreateTransfer)
		transfers.GET("", transferHandler.ListTransfers)
		transfers.GET("/:id", transferHandler.GetTransfer)
		transfers.PUT("/:id/items", transferHandler.UpdateTransferItems)
		transfers.POST("/:id/status", transferHandler.ChangeTransferStatus)
		transfers.GET("/:id/history", transferHandler.GetTransferStatusHistory)
	}

	adjustments := rg.Group("/adjustments")
	adjustments.Use(middleware.Identity())
	{
		adjustments.POST("", adjustmentHandler.CreateAdjustment)
		adjustments.GET("", adjustmentHandler.ListAdjustments)
		adjustments.GET("/:id", adjustmentHandler.GetAdjustment)
		adjustments.POST("/:id/status", adjustmentHandler.ChangeAdjustmentStatus)
		adjustments.GET("/:id/history", adjustmentHandler.GetAdjustmentStatusHistory)
	}
}
