package models

import "gorm.io/gorm"

// CartItem is one line of an authenticated visitor's cart. Guest carts never
// touch this table; they live in the cookie session as productID -> quantity.
type CartItem struct {
	gorm.Model
	UserID    uint `json:"userId" gorm:"uniqueIndex:idx_cart_user_product"`
	ProductID uint `json:"productId" gorm:"uniqueIndex:idx_cart_user_product"`
	Quantity  int  `json:"quantity" gorm:"default:1"`
}
