package models

import "gorm.io/gorm"

// Product rows are soft deleted through IsActive so historical order items
// keep a valid reference after a product is pulled from the storefront.
type Product struct {
	gorm.Model
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Discount    float64 `json:"discount"`
	Image       string  `json:"image"`
	CategoryID  uint    `json:"categoryId" binding:"required"`
	IsScraped   bool    `json:"isScraped"`
	OriginalURL string  `json:"originalUrl" gorm:"size:500"`
	IsActive    bool    `json:"isActive" gorm:"default:true"`
}

// DiscountedPrice is the unit price a customer actually pays.
func (p Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.Discount/100)
}
