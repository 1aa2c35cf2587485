package initializers

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/bravoke/bravo-suppliers-api/storage"
)

// Uploads holds product and merchandising images; ScrapedImages holds
// images pulled in by the scraper.
var (
	Uploads       storage.Storage
	ScrapedImages storage.Storage
)

func InitStorage() {
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "s3" {
		bucket := os.Getenv("S3_BUCKET")
		s3Store, err := storage.NewS3(context.Background(), bucket)
		if err != nil {
			zap.S().Fatalf("failed to configure S3 storage: %v", err)
		}
		Uploads = s3Store
		ScrapedImages = s3Store
		zap.S().Infof("Using S3 image storage, bucket: %s", bucket)
		return
	}

	uploadDir := getEnvDefault("UPLOAD_DIR", "static/uploads")
	scrapedDir := getEnvDefault("SCRAPED_IMAGES_DIR", "static/scraped_images")

	var err error
	Uploads, err = storage.NewLocal(uploadDir, "/static/uploads")
	if err != nil {
		zap.S().Fatalf("failed to configure upload storage: %v", err)
	}
	ScrapedImages, err = storage.NewLocal(scrapedDir, "/static/scraped_images")
	if err != nil {
		zap.S().Fatalf("failed to configure scraped-image storage: %v", err)
	}
}
