// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/your-org/inventory-backend/internal/domain/document"
	"github.com/your-org/inventory-backend/internal/domain/product"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/warehouse"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// Master data
		&product.Product{},
		&warehouse.Warehouse{},

		// Stock ledger and projection
		&stock.StockLevel{},
		&stock.LedgerEntry{},

		// Workflow documents
		&document.Receipt{},
		&document.ReceiptItem{},
		&document.Delivery{},
		&document.DeliveryItem{},
		&document.Transfer{},
		&document.TransferItem{},
		&document.Adjustment{},
		&document.StatusHistoryEntry{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Ledger indexes: history reads are always per pair, newest first
		"CREATE INDEX IF NOT EXISTS idx_stock_ledger_pair_date ON stock_ledger(product_id, warehouse_id, transaction_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_ledger_reference ON stock_ledger(reference_type, reference_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_ledger_type ON stock_ledger(transaction_type)",

		// Stock level indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_levels_warehouse ON stock_levels(warehouse_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_levels_product ON stock_levels(product_id)",

		// Document listing indexes
		"CREATE INDEX IF NOT EXISTS idx_receipts_warehouse_status ON receipts(warehouse_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_receipts_created_at ON receipts(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_deliveries_warehouse_status ON deliveries(warehouse_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_deliveries_created_at ON deliveries(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_from_status ON transfers(from_warehouse_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_to_warehouse ON transfers(to_warehouse_id)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_created_at ON transfers(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_adjustments_warehouse_status ON adjustments(warehouse_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_adjustments_product ON adjustments(product_id)",

		// Status history reads are per document, in change order
		"CREATE INDEX IF NOT EXISTS idx_status_history_doc_changed ON document_status_history(document_type, document_id, changed_at)",

		// Master data indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_reorder_level ON products(reorder_level)",
		"CREATE INDEX IF NOT EXISTS idx_warehouses_active ON warehouses(is_active)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}
