package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/initializers"
	"github.com/bravoke/bravo-suppliers-api/models"
)

// Up to eight hero images per category card.
const maxCategoryImages = 8

// activeHeroMiddle returns the active hero-middle row, creating an empty
// one on first use so the admin form always has something to edit.
func activeHeroMiddle() (*models.HeroMiddle, error) {
	var hero models.HeroMiddle
	err := initializers.DB.Where("is_active = ?", true).First(&hero).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hero = models.HeroMiddle{IsActive: true}
		if err := initializers.DB.Create(&hero).Error; err != nil {
			return nil, err
		}
		return &hero, nil
	}
	if err != nil {
		return nil, err
	}
	return &hero, nil
}

func GetHeroMiddle(ctx *gin.Context) {
	hero, err := activeHeroMiddle()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load hero section", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"heroMiddle": hero})
}

// UpdateHeroMiddle edits the homepage hero block from a multipart form.
func UpdateHeroMiddle(ctx *gin.Context) {
	hero, err := activeHeroMiddle()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load hero section", err)
		return
	}

	hero.Title = ctx.PostForm("title")
	hero.Description = ctx.PostForm("description")
	hero.DiscountPercentage = cast.ToFloat64(ctx.DefaultPostForm("discount_percentage", "0"))

	if file, err := ctx.FormFile("image"); err == nil {
		filename, saveErr := saveUpload(file)
		if saveErr != nil {
			respondWithError(ctx, http.StatusBadRequest, "Failed to save image", saveErr)
			return
		}
		removeUpload(hero.Image)
		hero.Image = filename
	}

	if err := initializers.DB.Save(hero).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update hero section", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Hero section updated successfully!", "heroMiddle": hero})
}

// ClearHeroMiddle wipes the hero block and deletes its image file.
func ClearHeroMiddle(ctx *gin.Context) {
	hero, err := activeHeroMiddle()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load hero section", err)
		return
	}

	removeUpload(hero.Image)
	hero.Title = ""
	hero.Description = ""
	hero.DiscountPercentage = 0
	hero.Image = ""

	if err := initializers.DB.Save(hero).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to clear hero section", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Hero section cleared successfully!"})
}

func activeHeroBanner() (*models.HeroBanner, error) {
	var banner models.HeroBanner
	err := initializers.DB.Where("is_active = ?", true).First(&banner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		banner = models.HeroBanner{IsActive: true}
		if err := initializers.DB.Create(&banner).Error; err != nil {
			return nil, err
		}
		return &banner, nil
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func GetHeroBanner(ctx *gin.Context) {
	banner, err := activeHeroBanner()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load banner", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"heroBanner": banner})
}

func UpdateHeroBanner(ctx *gin.Context) {
	banner, err := activeHeroBanner()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load banner", err)
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No image uploaded", nil)
		return
	}

	filename, saveErr := saveUpload(file)
	if saveErr != nil {
		respondWithError(ctx, http.StatusBadRequest, "Failed to save image", saveErr)
		return
	}
	removeUpload(banner.Image)
	banner.Image = filename

	if err := initializers.DB.Save(banner).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update banner", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Banner updated successfully!", "heroBanner": banner})
}

func ClearHeroBanner(ctx *gin.Context) {
	banner, err := activeHeroBanner()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load banner", err)
		return
	}

	removeUpload(banner.Image)
	banner.Image = ""
	if err := initializers.DB.Save(banner).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to clear banner", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Banner cleared successfully!"})
}

// UploadCategoryImages adds hero images to a category, capped at eight.
func UploadCategoryImages(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := initializers.DB.First(&category, categoryID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	var uploaded []models.CategoryImage
	for _, file := range files {
		var existingCount int64
		initializers.DB.Model(&models.CategoryImage{}).Where("category_id = ?", categoryID).Count(&existingCount)
		if existingCount >= maxCategoryImages {
			sendErrorResponse(ctx, http.StatusBadRequest, "Cannot upload more than 8 images per category")
			break
		}

		filename, saveErr := saveUpload(file)
		if saveErr != nil {
			zap.S().Errorf("error saving category image %s: %v", file.Filename, saveErr)
			continue
		}

		image := models.CategoryImage{CategoryID: categoryID, Filename: filename}
		if err := initializers.DB.Create(&image).Error; err != nil {
			zap.S().Errorf("error saving category image record: %v", err)
			continue
		}
		uploaded = append(uploaded, image)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Category images uploaded successfully!",
		"images":  uploaded,
	})
}

func DeleteCategoryImage(ctx *gin.Context) {
	imageID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var image models.CategoryImage
	if err := initializers.DB.First(&image, imageID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Image not found")
		return
	}

	removeUpload(image.Filename)
	if err := initializers.DB.Unscoped().Delete(&image).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete image", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Category image deleted successfully!"})
}

// GetHotSales returns the carousel entries with their resolved images.
func GetHotSales(ctx *gin.Context) {
	sales, err := catalog().HotSales()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to load hot sales", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"hotSales": sales})
}

// UpdateHotSales replaces the whole carousel. The multipart form carries
// product_ids[] in display order and an optional image_<position> file per
// entry.
func UpdateHotSales(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	productIDs := form.Value["product_ids[]"]

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.HotSale{}).Error; err != nil {
			return err
		}

		for position, rawID := range productIDs {
			if rawID == "" {
				continue
			}
			productID, err := strconv.ParseUint(rawID, 10, 64)
			if err != nil {
				continue
			}

			image := ""
			fileKey := "image_" + strconv.Itoa(position)
			if files := form.File[fileKey]; len(files) > 0 {
				filename, saveErr := saveUpload(files[0])
				if saveErr != nil {
					zap.S().Errorf("error saving hot sale image: %v", saveErr)
				} else {
					image = filename
				}
			}

			sale := models.HotSale{ProductID: uint(productID), Position: position, Image: image}
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update hot sales", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Hot Sales updated successfully!"})
}
