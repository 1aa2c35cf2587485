package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Both cart implementations must behave identically through the CartStore
// interface, so most tests run against both.
func cartVariants(db *gorm.DB) map[string]CartStore {
	return map[string]CartStore{
		"member": CartFor(db, Visitor{UserID: 1}),
		"guest":  CartFor(db, Visitor{GuestCart: map[string]int{}}),
	}
}

func TestCartAddAccumulatesQuantity(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 1000, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			returned, err := cart.Add(product.ID)
			require.NoError(t, err)
			assert.Equal(t, "Kettle", returned.Name)

			_, err = cart.Add(product.ID)
			require.NoError(t, err)

			lines, err := cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, 2, lines[0].Quantity)

			count, err := cart.Count()
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestCartAddInactiveProduct(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 1000, 0, category.ID)
	deactivate(t, db, product)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(product.ID)
			assert.ErrorIs(t, err, ErrProductUnavailable)

			_, err = cart.Add(999)
			assert.ErrorIs(t, err, ErrProductUnavailable)
		})
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 1000, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(product.ID)
			require.NoError(t, err)

			lines, err := cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 1)

			removed, err := cart.Update(lines[0].ID, 5)
			require.NoError(t, err)
			assert.False(t, removed)

			lines, err = cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, 5, lines[0].Quantity)
		})
	}
}

func TestCartUpdateToZeroRemovesLine(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 1000, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(product.ID)
			require.NoError(t, err)

			lines, err := cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 1)

			removed, err := cart.Update(lines[0].ID, 0)
			require.NoError(t, err)
			assert.True(t, removed)

			lines, err = cart.Lines()
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

func TestCartUpdateMissingLine(t *testing.T) {
	db := testDB(t)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Update(42, 3)
			assert.ErrorIs(t, err, ErrLineNotFound)
		})
	}
}

func TestCartTotals(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	discounted := createProduct(t, db, "Kettle", 100, 10, category.ID)
	plain := createProduct(t, db, "Toaster", 50, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(discounted.ID)
			require.NoError(t, err)
			_, err = cart.Add(discounted.ID)
			require.NoError(t, err)
			_, err = cart.Add(plain.ID)
			require.NoError(t, err)

			subtotal, discounts, err := cart.Totals()
			require.NoError(t, err)
			// 2 x 100 at 10% off = 180, plus 50.
			assert.InDelta(t, 230, subtotal, 0.001)
			assert.InDelta(t, 20, discounts, 0.001)
		})
	}
}

func TestCartSkipsInactiveProductsOnRead(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	stays := createProduct(t, db, "Kettle", 100, 0, category.ID)
	goes := createProduct(t, db, "Toaster", 50, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(stays.ID)
			require.NoError(t, err)
			_, err = cart.Add(goes.ID)
			require.NoError(t, err)

			deactivate(t, db, goes)
			t.Cleanup(func() {
				require.NoError(t, db.Model(&goes).Update("is_active", true).Error)
			})

			lines, err := cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, stays.ID, lines[0].Product.ID)

			subtotal, _, err := cart.Totals()
			require.NoError(t, err)
			assert.InDelta(t, 100, subtotal, 0.001)
		})
	}
}

func TestCartUpdateInactiveProductRemovesLine(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 100, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(product.ID)
			require.NoError(t, err)

			lines, err := cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 1)
			lineID := lines[0].ID

			deactivate(t, db, product)
			t.Cleanup(func() {
				require.NoError(t, db.Model(&product).Update("is_active", true).Error)
			})

			removed, err := cart.Update(lineID, 3)
			assert.True(t, removed)
			assert.ErrorIs(t, err, ErrProductUnavailable)

			removed, err = cart.Update(lineID, 3)
			assert.False(t, removed)
			assert.ErrorIs(t, err, ErrLineNotFound)
		})
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	first := createProduct(t, db, "Kettle", 100, 0, category.ID)
	second := createProduct(t, db, "Toaster", 50, 0, category.ID)

	for name, cart := range cartVariants(db) {
		t.Run(name, func(t *testing.T) {
			_, err := cart.Add(first.ID)
			require.NoError(t, err)
			_, err = cart.Add(second.ID)
			require.NoError(t, err)

			lines, err := cart.Lines()
			require.NoError(t, err)
			require.Len(t, lines, 2)

			require.NoError(t, cart.Remove(lines[0].ID))
			lines, err = cart.Lines()
			require.NoError(t, err)
			assert.Len(t, lines, 1)

			require.NoError(t, cart.Clear())
			lines, err = cart.Lines()
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

// A guest cart must survive the add/remove cycle of another product being
// re-added after deletion; the unique (user, product) index on member carts
// must not trip on it either.
func TestMemberCartReAddAfterRemove(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 100, 0, category.ID)

	cart := CartFor(db, Visitor{UserID: 7})

	_, err := cart.Add(product.ID)
	require.NoError(t, err)

	lines, err := cart.Lines()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NoError(t, cart.Remove(lines[0].ID))

	_, err = cart.Add(product.ID)
	require.NoError(t, err)

	lines, err = cart.Lines()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestGuestCartPersistCallback(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 100, 0, category.ID)

	var saved map[string]int
	cart := CartFor(db, Visitor{
		GuestCart: map[string]int{},
		Persist: func(items map[string]int) error {
			saved = items
			return nil
		},
	})

	_, err := cart.Add(product.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved["1"])

	_, err = cart.Add(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, saved["1"])

	require.NoError(t, cart.Clear())
	assert.Empty(t, saved)
}

func TestCartsAreIndependentPerUser(t *testing.T) {
	db := testDB(t)
	category := createCategory(t, db, "Electronics", nil)
	product := createProduct(t, db, "Kettle", 100, 0, category.ID)

	alice := CartFor(db, Visitor{UserID: 1})
	bob := CartFor(db, Visitor{UserID: 2})

	_, err := alice.Add(product.ID)
	require.NoError(t, err)

	lines, err := bob.Lines()
	require.NoError(t, err)
	assert.Empty(t, lines)
}
