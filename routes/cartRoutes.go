package routes

import (
	"github.com/bravoke/bravo-suppliers-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	server.GET("/cart", controllers.GetCart)
	server.POST("/cart/add/:productID", controllers.AddToCart)
	server.POST("/cart/update/:itemID", controllers.UpdateCartItem)
	server.POST("/cart/remove/:itemID", controllers.RemoveFromCart)
	server.POST("/cart/clear", controllers.ClearCart)
}
