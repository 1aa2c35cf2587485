package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/storage"
)

// setupProductTest wires the package globals to throwaway backends and
// returns a router with the product routes, admin guard left off.
func setupProductTest(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.HotSale{},
	))
	initializers.DB = db

	uploadDir := t.TempDir()
	initializers.Uploads, err = storage.NewLocal(uploadDir, "/static/uploads")
	require.NoError(t, err)
	initializers.ScrapedImages, err = storage.NewLocal(t.TempDir(), "/static/scraped_images")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/products", GetProducts)
	router.PUT("/admin/products/:id", UpdateProduct)
	router.DELETE("/admin/products/:id", DeleteProductPermanent)
	return router, uploadDir
}

func seedProduct(t *testing.T, name string) models.Product {
	t.Helper()

	var category models.Category
	err := initializers.DB.Where("name = ?", "Electronics").First(&category).Error
	if err != nil {
		category = models.Category{Name: "Electronics"}
		require.NoError(t, initializers.DB.Create(&category).Error)
	}

	product := models.Product{Name: name, Price: 100, CategoryID: category.ID, IsActive: true}
	require.NoError(t, initializers.DB.Create(&product).Error)
	return product
}

func productNames(t *testing.T, body *bytes.Buffer) []string {
	t.Helper()
	var response struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &response))
	names := make([]string, len(response.Products))
	for i, product := range response.Products {
		names[i] = product.Name
	}
	return names
}

func TestGetProductsSearchIsCaseInsensitive(t *testing.T) {
	router, _ := setupProductTest(t)
	seedProduct(t, "Electric Kettle")
	seedProduct(t, "Wooden Spoon")

	for _, search := range []string{"kettle", "Kettle", "KETTLE"} {
		t.Run(search, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/products?search="+search, nil)
			router.ServeHTTP(recorder, request)

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, []string{"Electric Kettle"}, productNames(t, recorder.Body))
		})
	}
}

func TestDeleteProductPermanentRefusedWhileOrdered(t *testing.T) {
	router, uploadDir := setupProductTest(t)
	product := seedProduct(t, "Kettle")

	imagePath := filepath.Join(uploadDir, "kettle.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("img"), 0o644))
	require.NoError(t, initializers.DB.Model(&product).Update("image", "kettle.jpg").Error)

	order := models.Order{OrderNumber: "BRAVO-1", Status: models.OrderStatusPending}
	require.NoError(t, initializers.DB.Create(&order).Error)
	item := models.OrderItem{OrderID: order.ID, ProductID: product.ID, Name: "Kettle", Quantity: 1, Price: 100}
	require.NoError(t, initializers.DB.Create(&item).Error)

	require.NoError(t, initializers.DB.Create(&models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2}).Error)
	require.NoError(t, initializers.DB.Create(&models.HotSale{ProductID: product.ID, Position: 0}).Error)

	url := fmt.Sprintf("/admin/products/%d", product.ID)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, url, nil))
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var count int64
	initializers.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 1, count, "refused delete must not touch the product")
	initializers.DB.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 1, count, "refused delete must not touch cart lines")
	_, err := os.Stat(imagePath)
	assert.NoError(t, err, "refused delete must keep the image file")

	// With the order line gone the cascade may run.
	require.NoError(t, initializers.DB.Unscoped().Delete(&item).Error)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, url, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	initializers.DB.Unscoped().Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	initializers.DB.Unscoped().Model(&models.CartItem{}).Count(&count)
	assert.Zero(t, count)
	initializers.DB.Unscoped().Model(&models.HotSale{}).Count(&count)
	assert.Zero(t, count)
	_, err = os.Stat(imagePath)
	assert.True(t, os.IsNotExist(err))
}

func updateProductForm(t *testing.T, product models.Product, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	defaults := map[string]string{
		"name":       product.Name,
		"price":      "100",
		"categoryId": fmt.Sprint(product.CategoryID),
	}
	for key, value := range fields {
		defaults[key] = value
	}
	for key, value := range defaults {
		require.NoError(t, writer.WriteField(key, value))
	}

	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write([]byte("new image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUpdateProductNewImageWinsOverDeleteFlag(t *testing.T) {
	router, uploadDir := setupProductTest(t)
	product := seedProduct(t, "Kettle")

	oldPath := filepath.Join(uploadDir, "old.jpg")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))
	require.NoError(t, initializers.DB.Model(&product).Update("image", "old.jpg").Error)

	body, contentType := updateProductForm(t, product, map[string]string{"delete_image": "on"}, "new.jpg")
	request := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID), body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Product
	require.NoError(t, initializers.DB.First(&updated, product.ID).Error)
	require.NotEmpty(t, updated.Image)
	assert.True(t, strings.HasSuffix(updated.Image, "new.jpg"))

	saved, err := os.ReadFile(filepath.Join(uploadDir, updated.Image))
	require.NoError(t, err)
	assert.Equal(t, "new image bytes", string(saved))

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err), "replaced image file must be removed")
}

func TestUpdateProductDeleteFlagAlone(t *testing.T) {
	router, uploadDir := setupProductTest(t)
	product := seedProduct(t, "Kettle")

	oldPath := filepath.Join(uploadDir, "old.jpg")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))
	require.NoError(t, initializers.DB.Model(&product).Update("image", "old.jpg").Error)

	body, contentType := updateProductForm(t, product, map[string]string{"delete_image": "on"}, "")
	request := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID), body)
	request.Header.Set("Content-Type", contentType)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Product
	require.NoError(t, initializers.DB.First(&updated, product.ID).Error)
	assert.Empty(t, updated.Image)
	_, err := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
}
