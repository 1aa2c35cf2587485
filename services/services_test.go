package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bravoke/bravo-suppliers-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.CategoryImage{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.HeroMiddle{},
		&models.HeroBanner{},
		&models.HotSale{},
		&models.ScrapeJob{},
	))
	return db
}

func createCategory(t *testing.T, db *gorm.DB, name string, parentID *uint) models.Category {
	t.Helper()
	category := models.Category{Name: name, ParentID: parentID}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, name string, price, discount float64, categoryID uint) models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Price:      price,
		Discount:   discount,
		CategoryID: categoryID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func deactivate(t *testing.T, db *gorm.DB, product models.Product) {
	t.Helper()
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)
}
