package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/services"
)

// visitorFrom builds the cart-owning identity for this request: an
// authenticated non-admin user, or a guest backed by the cookie session.
// Admins browse without a cart, like any guest.
func visitorFrom(ctx *gin.Context) services.Visitor {
	if value, ok := ctx.Get("user"); ok {
		if claims, ok := value.(jwt.MapClaims); ok {
			isAdmin, _ := claims["isAdmin"].(bool)
			if id, ok := claims["user_id"].(float64); ok && !isAdmin {
				return services.Visitor{UserID: uint(id)}
			}
		}
	}

	session, err := initializers.SessionStore.Get(ctx.Request, initializers.SessionName)
	if err != nil {
		// A stale or tampered cookie decodes to a fresh session.
		zap.S().Warnf("failed to decode session: %v", err)
	}

	items := map[string]int{}
	if stored, ok := session.Values["cart"].(map[string]int); ok {
		for key, quantity := range stored {
			items[key] = quantity
		}
	}

	return services.Visitor{
		GuestCart: items,
		Persist: func(cart map[string]int) error {
			session.Values["cart"] = cart
			return session.Save(ctx.Request, ctx.Writer)
		},
	}
}

func cartFor(ctx *gin.Context) services.CartStore {
	return services.CartFor(initializers.DB, visitorFrom(ctx))
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// GetCart returns the cart lines and totals for the current visitor.
func GetCart(ctx *gin.Context) {
	cart := cartFor(ctx)

	lines, err := cart.Lines()
	if err != nil {
		zap.S().Errorf("failed to load cart: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	subtotal, discounts, err := cart.Totals()
	if err != nil {
		zap.S().Errorf("failed to compute cart totals: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	fee := deliveryFee()
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"items":       lines,
		"subtotal":    subtotal,
		"discounts":   discounts,
		"deliveryFee": fee,
		"total":       subtotal + fee,
	})
}

// AddToCart increments the quantity for a product by one.
func AddToCart(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "productID")
	if !ok {
		return
	}

	cart := cartFor(ctx)
	product, err := cart.Add(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductUnavailable) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not available")
			return
		}
		zap.S().Errorf("failed to add to cart: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	count, err := cart.Count()
	if err != nil {
		zap.S().Errorf("failed to count cart items: %v", err)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":   product.Name + " added to cart!",
		"cartCount": count,
	})
}

// UpdateCartItem sets a line's quantity; zero or less removes the line. The
// response always carries fresh totals so the cart view can update in place.
func UpdateCartItem(ctx *gin.Context) {
	itemID, ok := parseUintParam(ctx, "itemID")
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cart := cartFor(ctx)
	removed, err := cart.Update(itemID, body.Quantity)
	switch {
	case errors.Is(err, services.ErrLineNotFound):
		sendJSONResponse(ctx, http.StatusNotFound, gin.H{"success": false, "message": "Item not found"})
		return
	case errors.Is(err, services.ErrProductUnavailable):
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"success": false,
			"removed": true,
			"message": "Product no longer available",
		})
		return
	case err != nil:
		zap.S().Errorf("failed to update cart item: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	subtotal, discounts, err := cart.Totals()
	if err != nil {
		zap.S().Errorf("failed to compute cart totals: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":   true,
		"removed":   removed,
		"subtotal":  subtotal,
		"discounts": discounts,
		"total":     subtotal + deliveryFee(),
	})
}

// RemoveFromCart deletes a line outright.
func RemoveFromCart(ctx *gin.Context) {
	itemID, ok := parseUintParam(ctx, "itemID")
	if !ok {
		return
	}

	cart := cartFor(ctx)
	if err := cart.Remove(itemID); err != nil {
		zap.S().Errorf("failed to remove cart item: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func ClearCart(ctx *gin.Context) {
	cart := cartFor(ctx)
	if err := cart.Clear(); err != nil {
		zap.S().Errorf("failed to clear cart: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
