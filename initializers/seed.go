package initializers

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/models"
)

var initialCategories = []struct {
	Name     string
	Children []string
}{
	{"Audio Electricals", []string{"Home Theatres", "Party Speakers", "Sound Bars", "TVs", "Woofers/Subwoofers"}},
	{"Kitchenware", []string{"Blenders", "Coffee Makers", "Microwaves", "Toasters", "Food Processors"}},
	{"Car Essentials", []string{"Car Jacks", "Jump Starters", "Car Chargers", "Car Audio", "GPS Systems"}},
	{"Gym Equipments", []string{"Treadmills", "Dumbbells", "Yoga Mats", "Resistance Bands", "Exercise Bikes"}},
	{"Solar Lights", []string{"Solar Garden Lights", "Solar Street Lights", "Solar Flood Lights", "Solar Lanterns", "Solar Panels"}},
	{"Home Decor", []string{"Wall Art", "Vases", "Candles", "Curtains", "Rugs"}},
	{"Commercial Kitchen", nil},
	{"Computing", nil},
	{"Cookers", nil},
	{"Coolers", nil},
	{"Households", nil},
	{"Washing Machines", nil},
	{"Home Appliances", nil},
	{"Home Security", nil},
}

// SeedAdmin creates or promotes the back-office account named by
// ADMIN_USERNAME/ADMIN_PASSWORD.
func SeedAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		zap.S().Warn("ADMIN_USERNAME and/or ADMIN_PASSWORD not set, admin user not created")
		return
	}

	var admin models.User
	err := DB.Where("username = ?", username).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			zap.S().Errorf("failed to hash admin password: %v", hashErr)
			return
		}
		admin = models.User{Username: username, Password: string(hash), IsAdmin: true}
		if createErr := DB.Create(&admin).Error; createErr != nil {
			zap.S().Errorf("failed to create admin user: %v", createErr)
			return
		}
		zap.S().Info("Admin user created from environment variables")
	case err != nil:
		zap.S().Errorf("failed to look up admin user: %v", err)
	case !admin.IsAdmin:
		if updateErr := DB.Model(&admin).Update("is_admin", true).Error; updateErr != nil {
			zap.S().Errorf("failed to promote admin user: %v", updateErr)
			return
		}
		zap.S().Info("Existing user promoted to admin")
	}
}

// SeedCategories creates the default category tree, skipping names that
// already exist.
func SeedCategories() {
	created := false
	for _, entry := range initialCategories {
		parent, ok := ensureCategory(entry.Name, nil, &created)
		if !ok {
			continue
		}
		for _, childName := range entry.Children {
			ensureCategory(childName, &parent.ID, &created)
		}
	}
	if created {
		zap.S().Info("Created initial categories")
	}
}

func ensureCategory(name string, parentID *uint, created *bool) (*models.Category, bool) {
	var category models.Category
	err := DB.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.S().Errorf("failed to look up category %q: %v", name, err)
		return nil, false
	}

	category = models.Category{Name: name, ParentID: parentID}
	if err := DB.Create(&category).Error; err != nil {
		zap.S().Errorf("failed to create category %q: %v", name, err)
		return nil, false
	}
	*created = true
	return &category, true
}
