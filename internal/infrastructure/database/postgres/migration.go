// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shopease-cart/internal/domain/cart"
	"github.com/your-org/shopease-cart/internal/domain/catalog"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	models := []interface{}{
		&catalog.Product{},
		&cart.CartRecord{},
	}

	for _, model := range models {
		m.log.Infof("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_carts_updated_at ON carts(updated_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts sample products for local development. No-op when
// the catalog already has rows.
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	intPtr := func(n int) *int { return &n }

	products := []catalog.Product{
		{
			SKU:           "WIDGET-001",
			Name:          "Widget",
			Description:   "A dependable widget.",
			Price:         decimal.RequireFromString("10.00"),
			StockQuantity: intPtr(5),
			IsActive:      true,
		},
		{
			SKU:           "GADGET-001",
			Name:          "Gadget Pro",
			Description:   "The premium gadget.",
			Price:         decimal.RequireFromString("2499.00"),
			StockQuantity: intPtr(12),
			IsActive:      true,
		},
		{
			SKU:           "GIZMO-001",
			Name:          "Gizmo Mini",
			Description:   "Small but mighty.",
			Price:         decimal.RequireFromString("349.50"),
			StockQuantity: nil, // stock untracked, default cart limit applies
			IsActive:      true,
		},
		{
			SKU:           "DOODAD-001",
			Name:          "Doodad",
			Description:   "Currently unavailable.",
			Price:         decimal.RequireFromString("99.99"),
			StockQuantity: intPtr(0),
			IsActive:      true,
		},
	}

	if err := m.db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	m.log.Infof("Seeded %d sample products", len(products))
	return nil
}
