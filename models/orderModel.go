package models

import "gorm.io/gorm"

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

type Order struct {
	gorm.Model
	OrderNumber string      `json:"orderNumber" gorm:"uniqueIndex;size:40"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	Notes       string      `json:"notes"`
	TotalAmount float64     `json:"totalAmount"`
	Status      string      `json:"status" gorm:"size:20;default:Pending"`
	OrderItems  []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots name, quantity and the discounted unit price at the
// moment of purchase; later product edits never change it.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `json:"orderId"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
