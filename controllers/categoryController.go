package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/services"
)

// GetCategories returns the top-level categories with their children.
func GetCategories(ctx *gin.Context) {
	categories, err := catalog().TopCategories()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns a category page: the category, its subcategories and
// the active products of the subtree.
func GetCategory(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	page, err := catalog().Category(categoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch category", err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// AdminGetCategories returns the flattened tree for admin dropdowns.
func AdminGetCategories(ctx *gin.Context) {
	nodes, err := catalog().HierarchicalCategories()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": nodes})
}

func CreateCategory(ctx *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		ParentID *uint  `json:"parentId"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existing models.Category
	err := initializers.DB.Where("name = ?", body.Name).First(&existing).Error
	if err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Category already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.S().Errorf("category lookup failed: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	category := models.Category{Name: body.Name, ParentID: body.ParentID}
	if err := initializers.DB.Create(&category).Error; err != nil {
		zap.S().Errorf("category creation failed: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create category")
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// DeleteCategory refuses to remove a category that still has products or
// subcategories.
func DeleteCategory(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := initializers.DB.First(&category, categoryID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		return
	}

	var productCount int64
	initializers.DB.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&productCount)

	var childCount int64
	initializers.DB.Model(&models.Category{}).Where("parent_id = ?", categoryID).Count(&childCount)

	if productCount > 0 || childCount > 0 {
		sendErrorResponse(ctx, http.StatusConflict, "Cannot delete category with products or subcategories")
		return
	}

	if err := initializers.DB.Unscoped().Delete(&category).Error; err != nil {
		zap.S().Errorf("category deletion failed: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully!"})
}
