package routes

import (
	"github.com/bravoke/bravo-suppliers-api/controllers"
	"github.com/gin-gonic/gin"
)

func CategoryRoutes(server *gin.Engine) {
	server.GET("/categories", controllers.GetCategories)
	server.GET("/categories/:id", controllers.GetCategory)
}
