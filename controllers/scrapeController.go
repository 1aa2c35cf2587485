package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/services"
)

// ScrapeProducts pulls product listings from an external page into a
// category. The request blocks until the scrape finishes.
func ScrapeProducts(ctx *gin.Context) {
	var body struct {
		URL        string `json:"url" binding:"required"`
		CategoryID uint   `json:"categoryId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	scraper := services.NewScrapeService(initializers.DB, initializers.ScrapedImages, services.NewSelectorParser())
	result, err := scraper.Scrape(body.URL, body.CategoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
			return
		}
		zap.S().Errorf("scrape of %s failed: %v", body.URL, err)
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to fetch the page")
		return
	}

	var category models.Category
	initializers.DB.First(&category, body.CategoryID)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d products scraped and added to %s successfully!", result.ItemsAdded, category.Name),
		"result":  result,
	})
}
