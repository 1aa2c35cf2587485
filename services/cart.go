package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/models"
)

var (
	ErrProductUnavailable = errors.New("product not available")
	ErrLineNotFound       = errors.New("cart item not found")
)

// Visitor is the per-request identity a cart belongs to: an authenticated
// user id, or for guests the session-held cart map plus a callback that
// writes it back to the session.
type Visitor struct {
	UserID    uint
	GuestCart map[string]int
	Persist   func(map[string]int) error
}

func (v Visitor) Authenticated() bool {
	return v.UserID != 0
}

// CartLine pairs a still-active product with its quantity. ID is the cart
// row id for member carts and the product id for guest carts.
type CartLine struct {
	ID       uint           `json:"id"`
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// CartStore is the single cart contract with two implementations: database
// rows for members, a session map for guests.
type CartStore interface {
	// Add increments the quantity for productID by one, creating the line
	// when absent. The product must exist and be active.
	Add(productID uint) (models.Product, error)
	// Update sets the quantity of a line, removing it when quantity <= 0.
	// A line whose product went inactive is removed and reported with
	// ErrProductUnavailable.
	Update(itemID uint, quantity int) (removed bool, err error)
	Remove(itemID uint) error
	Clear() error
	// Lines returns the active-product lines. Lines referencing inactive
	// products are skipped, not removed; cleanup happens on mutation only.
	Lines() ([]CartLine, error)
	Count() (int, error)
	// Totals returns the discounted subtotal and the accumulated discount
	// amount over active lines.
	Totals() (subtotal, discounts float64, err error)
}

// CartFor selects the cart implementation for a visitor.
func CartFor(db *gorm.DB, visitor Visitor) CartStore {
	if visitor.Authenticated() {
		return &DBCart{db: db, userID: visitor.UserID}
	}
	return &SessionCart{db: db, items: visitor.GuestCart, persist: visitor.Persist}
}

func activeProduct(db *gorm.DB, productID uint) (models.Product, error) {
	var product models.Product
	err := db.First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrProductUnavailable
	}
	if err != nil {
		return product, fmt.Errorf("loading product %d: %w", productID, err)
	}
	if !product.IsActive {
		return product, ErrProductUnavailable
	}
	return product, nil
}

func totalsOf(lines []CartLine) (subtotal, discounts float64) {
	for _, line := range lines {
		qty := float64(line.Quantity)
		subtotal += line.Product.DiscountedPrice() * qty
		discounts += line.Product.Price * (line.Product.Discount / 100) * qty
	}
	return subtotal, discounts
}

// DBCart stores lines as CartItem rows keyed by (user, product).
type DBCart struct {
	db     *gorm.DB
	userID uint
}

func (c *DBCart) Add(productID uint) (models.Product, error) {
	product, err := activeProduct(c.db, productID)
	if err != nil {
		return product, err
	}

	var item models.CartItem
	err = c.db.Where("user_id = ? AND product_id = ?", c.userID, productID).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: c.userID, ProductID: productID, Quantity: 1}
		if err := c.db.Create(&item).Error; err != nil {
			return product, fmt.Errorf("creating cart item: %w", err)
		}
	case err != nil:
		return product, fmt.Errorf("loading cart item: %w", err)
	default:
		if err := c.db.Model(&item).Update("quantity", item.Quantity+1).Error; err != nil {
			return product, fmt.Errorf("updating cart item: %w", err)
		}
	}
	return product, nil
}

func (c *DBCart) Update(itemID uint, quantity int) (bool, error) {
	var item models.CartItem
	err := c.db.Where("id = ? AND user_id = ?", itemID, c.userID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrLineNotFound
	}
	if err != nil {
		return false, fmt.Errorf("loading cart item: %w", err)
	}

	if _, err := activeProduct(c.db, item.ProductID); err != nil {
		if errors.Is(err, ErrProductUnavailable) {
			if delErr := c.db.Unscoped().Delete(&item).Error; delErr != nil {
				return false, fmt.Errorf("removing unavailable cart item: %w", delErr)
			}
			return true, ErrProductUnavailable
		}
		return false, err
	}

	if quantity <= 0 {
		if err := c.db.Unscoped().Delete(&item).Error; err != nil {
			return false, fmt.Errorf("removing cart item: %w", err)
		}
		return true, nil
	}

	if err := c.db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return false, fmt.Errorf("updating cart item: %w", err)
	}
	return false, nil
}

func (c *DBCart) Remove(itemID uint) error {
	return c.db.Unscoped().
		Where("id = ? AND user_id = ?", itemID, c.userID).
		Delete(&models.CartItem{}).Error
}

func (c *DBCart) Clear() error {
	return c.clearIn(c.db)
}

func (c *DBCart) clearIn(tx *gorm.DB) error {
	return tx.Unscoped().Where("user_id = ?", c.userID).Delete(&models.CartItem{}).Error
}

func (c *DBCart) Lines() ([]CartLine, error) {
	var items []models.CartItem
	if err := c.db.Where("user_id = ?", c.userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		product, err := activeProduct(c.db, item.ProductID)
		if errors.Is(err, ErrProductUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, CartLine{ID: item.ID, Product: product, Quantity: item.Quantity})
	}
	return lines, nil
}

func (c *DBCart) Count() (int, error) {
	var count int64
	err := c.db.Model(&models.CartItem{}).Where("user_id = ?", c.userID).Count(&count).Error
	return int(count), err
}

func (c *DBCart) Totals() (float64, float64, error) {
	lines, err := c.Lines()
	if err != nil {
		return 0, 0, err
	}
	subtotal, discounts := totalsOf(lines)
	return subtotal, discounts, nil
}

// SessionCart stores lines as productID -> quantity in the guest session.
type SessionCart struct {
	db      *gorm.DB
	items   map[string]int
	persist func(map[string]int) error
}

func (c *SessionCart) save() error {
	if c.persist == nil {
		return nil
	}
	return c.persist(c.items)
}

func (c *SessionCart) Add(productID uint) (models.Product, error) {
	product, err := activeProduct(c.db, productID)
	if err != nil {
		return product, err
	}

	if c.items == nil {
		c.items = map[string]int{}
	}
	key := strconv.FormatUint(uint64(productID), 10)
	c.items[key]++
	return product, c.save()
}

func (c *SessionCart) Update(itemID uint, quantity int) (bool, error) {
	key := strconv.FormatUint(uint64(itemID), 10)
	if _, ok := c.items[key]; !ok {
		return false, ErrLineNotFound
	}

	if _, err := activeProduct(c.db, itemID); err != nil {
		if errors.Is(err, ErrProductUnavailable) {
			delete(c.items, key)
			if saveErr := c.save(); saveErr != nil {
				return false, saveErr
			}
			return true, ErrProductUnavailable
		}
		return false, err
	}

	if quantity <= 0 {
		delete(c.items, key)
		return true, c.save()
	}
	c.items[key] = quantity
	return false, c.save()
}

func (c *SessionCart) Remove(itemID uint) error {
	delete(c.items, strconv.FormatUint(uint64(itemID), 10))
	return c.save()
}

func (c *SessionCart) Clear() error {
	c.items = map[string]int{}
	return c.save()
}

func (c *SessionCart) Lines() ([]CartLine, error) {
	ids := make([]uint, 0, len(c.items))
	for key := range c.items {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := make([]CartLine, 0, len(ids))
	for _, id := range ids {
		product, err := activeProduct(c.db, id)
		if errors.Is(err, ErrProductUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		key := strconv.FormatUint(uint64(id), 10)
		lines = append(lines, CartLine{ID: id, Product: product, Quantity: c.items[key]})
	}
	return lines, nil
}

func (c *SessionCart) Count() (int, error) {
	return len(c.items), nil
}

func (c *SessionCart) Totals() (float64, float64, error) {
	lines, err := c.Lines()
	if err != nil {
		return 0, 0, err
	}
	subtotal, discounts := totalsOf(lines)
	return subtotal, discounts, nil
}
