package models

import "gorm.io/gorm"

// HeroMiddle is the large promotional block in the middle of the homepage.
// It is hidden whenever title, description or image is missing.
type HeroMiddle struct {
	gorm.Model
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Image              string  `json:"image"`
	DiscountPercentage float64 `json:"discountPercentage"`
	IsActive           bool    `json:"isActive" gorm:"default:true"`
}

type HeroBanner struct {
	gorm.Model
	Image    string `json:"image"`
	IsActive bool   `json:"isActive" gorm:"default:true"`
}

// HotSale pins a product onto the homepage carousel. Image, when set,
// overrides the product's own image.
type HotSale struct {
	gorm.Model
	ProductID uint   `json:"productId"`
	Position  int    `json:"position"`
	Image     string `json:"image"`
}
