package product

import (
	"testing"

	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func seedTestProduct(t *testing.T, conn *gorm.DB, id string, priceCents int64, inStock bool, maxOrderable int) *models.Product {
	t.Helper()

	row := &models.Product{
		ID:           id,
		SellerID:     "seller-001",
		SellerName:   "Electronics Plus",
		Title:        "Catalog Item " + id,
		PriceCents:   priceCents,
		Currency:     "PLN",
		InStock:      inStock,
		MaxOrderable: maxOrderable,
	}
	require.NoError(t, conn.Create(row).Error)
	return row
}
