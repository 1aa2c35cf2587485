package controllers

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/services"
	"github.com/bravoke/bravo-suppliers-api/storage"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func catalog() *services.CatalogService {
	return services.NewCatalogService(initializers.DB, initializers.Uploads, initializers.ScrapedImages)
}

// saveUpload stores an uploaded image under a timestamp-prefixed name so
// repeated uploads of the same file never overwrite each other.
func saveUpload(file *multipart.FileHeader) (string, error) {
	if !storage.AllowedFile(file.Filename) {
		return "", fmt.Errorf("file type not allowed: %s", file.Filename)
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	filename := fmt.Sprintf("%s-%s", time.Now().Format("20060102150405"), filepath.Base(file.Filename))
	return initializers.Uploads.Save(f, filename)
}

func removeUpload(filename string) {
	if filename == "" {
		return
	}
	if err := initializers.Uploads.Remove(filename); err != nil {
		zap.S().Errorf("error deleting image %s: %v", filename, err)
	}
}

// GetProducts lists active products with pagination and an optional name
// search.
func GetProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	offset := (page - 1) * limit

	query := initializers.DB.Where("is_active = ?", true)
	if search := ctx.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []models.Product
	result := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	initializers.DB.Model(&models.Product{}).Where("is_active = ?", true).Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total":      count,
			"page":       page,
			"limit":      limit,
			"totalPages": int(math.Ceil(float64(count) / float64(limit))),
		},
	})
}

// GetProduct returns an active product and its related products.
func GetProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := catalog().Product(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"product":  detail.Product,
		"imageUrl": catalog().ImageURL(detail.Product),
		"related":  detail.Related,
	})
}

// SearchProducts matches a query against name and description of active
// products and sorts post-filter.
func SearchProducts(ctx *gin.Context) {
	query := ctx.Query("q")
	sortBy := ctx.DefaultQuery("sort", services.SortRelevance)

	products, err := catalog().Search(query, sortBy)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Search failed", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"query":    query,
		"sort":     sortBy,
		"products": products,
	})
}

// AdminGetProducts lists all products, inactive ones included.
func AdminGetProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	var products []models.Product
	result := initializers.DB.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	initializers.DB.Model(&models.Product{}).Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{"total": count, "page": page, "limit": limit},
	})
}

func bindProductForm(ctx *gin.Context, product *models.Product) error {
	product.Name = ctx.PostForm("name")
	if product.Name == "" {
		return errors.New("name is required")
	}
	product.Description = ctx.PostForm("description")

	price, err := strconv.ParseFloat(ctx.PostForm("price"), 64)
	if err != nil {
		return errors.New("invalid price")
	}
	product.Price = price
	product.Discount = cast.ToFloat64(ctx.DefaultPostForm("discount", "0"))

	categoryID, err := strconv.ParseUint(ctx.PostForm("categoryId"), 10, 64)
	if err != nil {
		return errors.New("invalid categoryId")
	}
	product.CategoryID = uint(categoryID)

	var category models.Category
	if err := initializers.DB.First(&category, product.CategoryID).Error; err != nil {
		return errors.New("category not found")
	}
	return nil
}

// CreateProduct adds a product from a multipart form with an optional image.
func CreateProduct(ctx *gin.Context) {
	product := models.Product{IsActive: true}
	if err := bindProductForm(ctx, &product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if file, err := ctx.FormFile("image"); err == nil {
		filename, saveErr := saveUpload(file)
		if saveErr != nil {
			respondWithError(ctx, http.StatusBadRequest, "Failed to save image", saveErr)
			return
		}
		product.Image = filename
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// UpdateProduct edits a product from a multipart form. A new image replaces
// and deletes the old file; delete_image=on drops the image entirely.
func UpdateProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load product", err)
		return
	}

	if err := bindProductForm(ctx, &product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	// A new upload wins over the delete flag; never discard a file the
	// request just provided.
	if file, err := ctx.FormFile("image"); err == nil {
		filename, saveErr := saveUpload(file)
		if saveErr != nil {
			respondWithError(ctx, http.StatusBadRequest, "Failed to save image", saveErr)
			return
		}
		removeUpload(product.Image)
		product.Image = filename
	} else if ctx.PostForm("delete_image") == "on" {
		removeUpload(product.Image)
		product.Image = ""
	}

	if err := initializers.DB.Save(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// DeactivateProduct soft-deletes a product and pulls it off the hot sales.
func DeactivateProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	if err := initializers.DB.Unscoped().Where("product_id = ?", productID).Delete(&models.HotSale{}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to deactivate product", err)
		return
	}
	if err := initializers.DB.Model(&product).Update("is_active", false).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to deactivate product", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deactivated successfully!"})
}

func ReactivateProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	result := initializers.DB.Model(&models.Product{}).Where("id = ?", productID).Update("is_active", true)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to reactivate product", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product reactivated successfully!"})
}

// DeleteProductPermanent removes a product row for good, but only when no
// order line references it; orders must keep their product references.
func DeleteProductPermanent(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	var orderItemCount int64
	initializers.DB.Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&orderItemCount)
	if orderItemCount > 0 {
		respondWithError(ctx, http.StatusConflict, "Cannot delete product permanently because it exists in orders", nil)
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&models.HotSale{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&product).Error
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", err)
		return
	}

	removeUpload(product.Image)
	ctx.JSON(http.StatusOK, gin.H{"message": "Product permanently deleted!"})
}
