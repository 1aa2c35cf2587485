package routes

import (
	"github.com/bravoke/bravo-suppliers-api/controllers"
	"github.com/bravoke/bravo-suppliers-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	server.POST("/checkout", controllers.PlaceOrder)

	orders := server.Group("/orders", middlewares.RequireAdmin())
	{
		orders.GET("", controllers.GetOrders)
		orders.GET("/:orderID", controllers.GetOrderByID)
		orders.PATCH("/:orderID", controllers.UpdateOrderStatus)
	}
}
