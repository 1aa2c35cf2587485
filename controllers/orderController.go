package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/services"
	"github.com/bravoke/bravo-suppliers-api/utils"
)

func deliveryFee() float64 {
	if value := os.Getenv("DELIVERY_FEE"); value != "" {
		return cast.ToFloat64(value)
	}
	return 300
}

func orderPrefix() string {
	if value := os.Getenv("ORDER_PREFIX"); value != "" {
		return value
	}
	return "BRAVO"
}

func checkoutService() *services.CheckoutService {
	fee := deliveryFee()
	return services.NewCheckoutService(initializers.DB, fee, orderPrefix(),
		func(order models.Order, items []models.OrderItem) error {
			return utils.SendOrderEmail(order, items, fee)
		})
}

// PlaceOrder converts the visitor's cart into an order.
func PlaceOrder(ctx *gin.Context) {
	var contact services.ContactInfo
	if err := ctx.ShouldBindJSON(&contact); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cart := cartFor(ctx)
	order, err := checkoutService().PlaceOrder(cart, contact)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			sendErrorResponse(ctx, http.StatusBadRequest, "Your cart is empty")
			return
		}
		zap.S().Errorf("failed to place order: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to place order")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":     "Order placed successfully.",
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount,
	})
}

// GetOrders lists orders newest-first with per-status counts, total revenue
// and the last-7-days count.
func GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")
	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}

	var orders []models.Order
	result := query.Order("created_at " + sortOrder).Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_number LIKE ?", "%"+search+"%")
	}
	countQuery.Count(&count)

	statusCounts := gin.H{}
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		var statusCount int64
		initializers.DB.Model(&models.Order{}).Where("status = ?", status).Count(&statusCount)
		statusCounts[status] = statusCount
	}

	var totalRevenue float64
	initializers.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue)

	var recentOrders int64
	initializers.DB.Model(&models.Order{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -7)).
		Count(&recentOrders)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders":       orders,
		"statusCounts": statusCounts,
		"totalRevenue": totalRevenue,
		"recentOrders": recentOrders,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
		},
	})
}

func GetOrderByID(ctx *gin.Context) {
	orderID, ok := parseUintParam(ctx, "orderID")
	if !ok {
		return
	}

	var order models.Order
	err := initializers.DB.Preload("OrderItems").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		zap.S().Errorf("failed to fetch order: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func UpdateOrderStatus(ctx *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderID, ok := parseUintParam(ctx, "orderID")
	if !ok {
		return
	}

	result := initializers.DB.Model(&models.Order{}).Where("id = ?", orderID).Update("status", body.Status)
	if result.Error != nil {
		zap.S().Errorf("failed to update order status: %v", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully."})
}
