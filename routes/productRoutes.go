package routes

import (
	"github.com/bravoke/bravo-suppliers-api/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/products", controllers.GetProducts)
	server.GET("/products/:id", controllers.GetProduct)
	server.GET("/search", controllers.SearchProducts)
}
