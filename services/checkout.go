package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/utils"
)

var ErrEmptyCart = errors.New("cart is empty")

type ContactInfo struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email"`
	Address   string `json:"address" binding:"required"`
	Notes     string `json:"notes"`
}

// CheckoutService converts a cart into an order. The notifier runs after a
// successful commit; its failure never fails the order.
type CheckoutService struct {
	db          *gorm.DB
	deliveryFee float64
	orderPrefix string
	notify      func(models.Order, []models.OrderItem) error
}

func NewCheckoutService(db *gorm.DB, deliveryFee float64, orderPrefix string, notify func(models.Order, []models.OrderItem) error) *CheckoutService {
	return &CheckoutService{
		db:          db,
		deliveryFee: deliveryFee,
		orderPrefix: orderPrefix,
		notify:      notify,
	}
}

func (s *CheckoutService) DeliveryFee() float64 {
	return s.deliveryFee
}

// PlaceOrder recomputes totals from current cart state, never from anything
// the client submitted, and commits the order, its lines and the member
// cart clearing in one transaction. Guest session carts are cleared only
// once the commit has succeeded.
func (s *CheckoutService) PlaceOrder(cart CartStore, contact ContactInfo) (*models.Order, error) {
	lines, err := cart.Lines()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal, _, err := cart.Totals()
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber: s.generateOrderNumber(),
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Phone:       contact.Phone,
		Email:       contact.Email,
		Address:     contact.Address,
		Notes:       contact.Notes,
		TotalAmount: subtotal + s.deliveryFee,
		Status:      models.OrderStatusPending,
	}

	var items []models.OrderItem
	place := func() error {
		order.ID = 0
		items = items[:0]
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			for _, line := range lines {
				item := models.OrderItem{
					OrderID:   order.ID,
					ProductID: line.Product.ID,
					Name:      line.Product.Name,
					Quantity:  line.Quantity,
					Price:     line.Product.DiscountedPrice(),
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				items = append(items, item)
			}
			if dbCart, ok := cart.(*DBCart); ok {
				return dbCart.clearIn(tx)
			}
			return nil
		})
	}

	err = place()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Two placements in the same second collided on the order number.
		suffix, codeErr := utils.GenerateCode(2)
		if codeErr != nil {
			return nil, fmt.Errorf("creating order: %w", err)
		}
		order.OrderNumber += "-" + suffix
		err = place()
	}
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	if _, ok := cart.(*SessionCart); ok {
		if err := cart.Clear(); err != nil {
			zap.S().Warnf("failed to clear guest cart after order %s: %v", order.OrderNumber, err)
		}
	}

	if s.notify != nil {
		if err := s.notify(order, items); err != nil {
			zap.S().Errorf("order email failed for %s: %v", order.OrderNumber, err)
		}
	}

	order.OrderItems = items
	return &order, nil
}

func (s *CheckoutService) generateOrderNumber() string {
	return fmt.Sprintf("%s-%s", s.orderPrefix, time.Now().Format("20060102150405"))
}
