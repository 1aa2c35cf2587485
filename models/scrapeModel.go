package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScrapeJob is the audit record of one scrape run: where it pulled from,
// how many products landed, and which listings were skipped.
type ScrapeJob struct {
	gorm.Model
	URL        string         `json:"url" gorm:"size:500"`
	CategoryID uint           `json:"categoryId"`
	ItemsAdded int            `json:"itemsAdded"`
	Failures   datatypes.JSON `json:"failures"`
}
