package routes

import (
	"github.com/bravoke/bravo-suppliers-api/controllers"
	"github.com/bravoke/bravo-suppliers-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine) {
	admin := server.Group("/admin", middlewares.RequireAdmin())
	{
		products := admin.Group("/products")
		{
			products.GET("", controllers.AdminGetProducts)
			products.POST("", controllers.CreateProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.POST("/:id/deactivate", controllers.DeactivateProduct)
			products.POST("/:id/reactivate", controllers.ReactivateProduct)
			products.DELETE("/:id", controllers.DeleteProductPermanent)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", controllers.AdminGetCategories)
			categories.POST("", controllers.CreateCategory)
			categories.DELETE("/:id", controllers.DeleteCategory)
			categories.POST("/:id/images", controllers.UploadCategoryImages)
		}
		admin.DELETE("/category-images/:id", controllers.DeleteCategoryImage)

		admin.GET("/hero-middle", controllers.GetHeroMiddle)
		admin.PUT("/hero-middle", controllers.UpdateHeroMiddle)
		admin.DELETE("/hero-middle", controllers.ClearHeroMiddle)

		admin.GET("/hero-banner", controllers.GetHeroBanner)
		admin.PUT("/hero-banner", controllers.UpdateHeroBanner)
		admin.DELETE("/hero-banner", controllers.ClearHeroBanner)

		admin.GET("/hot-sales", controllers.GetHotSales)
		admin.PUT("/hot-sales", controllers.UpdateHotSales)

		admin.POST("/scrape", controllers.ScrapeProducts)
		admin.GET("/test-email", controllers.TestEmail)
	}
}
