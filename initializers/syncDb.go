package initializers

import (
	"go.uber.org/zap"

	"github.com/bravoke/bravo-suppliers-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
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
	)
	if err != nil {
		zap.S().Fatalf("database migration failed: %v", err)
	}
	zap.S().Info("Database synced successfully.")
}
