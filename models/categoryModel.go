package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name     string     `json:"name" gorm:"uniqueIndex;size:100" binding:"required"`
	ParentID *uint      `json:"parentId"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

// CategoryImage holds one of up to eight hero images shown on a top-level
// category card.
type CategoryImage struct {
	gorm.Model
	CategoryID uint   `json:"categoryId"`
	Filename   string `json:"filename"`
}
