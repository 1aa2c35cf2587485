package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/storage"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

const placeholderImage = "/static/images/no-image.png"

// Sort keys accepted by Search.
const (
	SortRelevance    = "relevance"
	SortPriceLowHigh = "price_low_high"
	SortPriceHighLow = "price_high_low"
	SortNameAsc      = "name_asc"
	SortNameDesc     = "name_desc"
)

// CatalogService serves the customer-facing read paths: homepage widgets,
// category pages, product detail and search.
type CatalogService struct {
	db      *gorm.DB
	uploads storage.Storage
	scraped storage.Storage
}

func NewCatalogService(db *gorm.DB, uploads, scraped storage.Storage) *CatalogService {
	return &CatalogService{db: db, uploads: uploads, scraped: scraped}
}

// CategoryNode is one row of the flattened category tree used by admin
// dropdowns.
type CategoryNode struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

type HotSaleView struct {
	models.HotSale
	Product      models.Product `json:"product"`
	DisplayImage string         `json:"displayImage"`
}

type CategorySection struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

type HomePage struct {
	HeroMiddle     *models.HeroMiddle `json:"heroMiddle"`
	HeroBanner     *models.HeroBanner `json:"heroBanner"`
	HotSales       []HotSaleView      `json:"hotSales"`
	Sections       []CategorySection  `json:"sections"`
	CategoryImages map[uint]string    `json:"categoryImages"`
}

type CategoryPage struct {
	Category      models.Category   `json:"category"`
	Subcategories []models.Category `json:"subcategories"`
	Products      []models.Product  `json:"products"`
}

type ProductDetail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related"`
}

// ImageURL resolves a product's image against the directory it was stored
// in; scraped products keep their images apart from admin uploads.
func (s *CatalogService) ImageURL(product models.Product) string {
	if product.Image == "" {
		return placeholderImage
	}
	if product.IsScraped {
		return s.scraped.URL(product.Image)
	}
	return s.uploads.URL(product.Image)
}

func (s *CatalogService) TopCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Preload("Children").Where("parent_id IS NULL").Order("id").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("loading top categories: %w", err)
	}
	return categories, nil
}

// HierarchicalCategories flattens the category tree depth-first, tagging
// every node with its depth.
func (s *CatalogService) HierarchicalCategories() ([]CategoryNode, error) {
	var categories []models.Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	children := map[uint][]models.Category{}
	for _, category := range categories {
		parent := uint(0)
		if category.ParentID != nil {
			parent = *category.ParentID
		}
		children[parent] = append(children[parent], category)
	}

	var nodes []CategoryNode
	var walk func(parentID uint, depth int)
	walk = func(parentID uint, depth int) {
		for _, category := range children[parentID] {
			nodes = append(nodes, CategoryNode{ID: category.ID, Name: category.Name, Depth: depth})
			walk(category.ID, depth+1)
		}
	}
	walk(0, 0)
	return nodes, nil
}

// Category returns the category page: the category, its direct children and
// the active products of the whole subtree.
func (s *CatalogService) Category(categoryID uint) (*CategoryPage, error) {
	var category models.Category
	err := s.db.Preload("Children").First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading category %d: %w", categoryID, err)
	}

	ids := []uint{category.ID}
	for _, child := range category.Children {
		ids = append(ids, child.ID)
	}

	var products []models.Product
	err = s.db.Where("category_id IN ? AND is_active = ?", ids, true).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("loading category products: %w", err)
	}

	return &CategoryPage{Category: category, Subcategories: category.Children, Products: products}, nil
}

// Product returns an active product and up to four active products from the
// same category.
func (s *CatalogService) Product(productID uint) (*ProductDetail, error) {
	var product models.Product
	err := s.db.First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading product %d: %w", productID, err)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	var related []models.Product
	err = s.db.
		Where("category_id = ? AND id <> ? AND is_active = ?", product.CategoryID, product.ID, true).
		Limit(4).
		Find(&related).Error
	if err != nil {
		return nil, fmt.Errorf("loading related products: %w", err)
	}

	return &ProductDetail{Product: product, Related: related}, nil
}

// Search matches the query case-insensitively against name and description
// of active products, then sorts entirely post-filter.
func (s *CatalogService) Search(query, sortBy string) ([]models.Product, error) {
	if query == "" {
		return []models.Product{}, nil
	}

	term := "%" + strings.ToLower(query) + "%"
	var products []models.Product
	err := s.db.
		Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?) AND is_active = ?", term, term, true).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}

	switch sortBy {
	case SortPriceLowHigh:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceHighLow:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) > strings.ToLower(products[j].Name)
		})
	}
	// SortRelevance keeps insertion order.
	return products, nil
}

// Home assembles the storefront homepage payload.
func (s *CatalogService) Home() (*HomePage, error) {
	page := &HomePage{CategoryImages: map[uint]string{}}

	var heroMiddle models.HeroMiddle
	err := s.db.Where("is_active = ?", true).Order("created_at DESC").First(&heroMiddle).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading hero middle: %w", err)
	}
	if err == nil && heroMiddle.Image != "" && heroMiddle.Title != "" && heroMiddle.Description != "" {
		page.HeroMiddle = &heroMiddle
	}

	var heroBanner models.HeroBanner
	err = s.db.Where("is_active = ?", true).Order("created_at DESC").First(&heroBanner).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading hero banner: %w", err)
	}
	if err == nil && heroBanner.Image != "" {
		page.HeroBanner = &heroBanner
	}

	hotSales, err := s.hotSales()
	if err != nil {
		return nil, err
	}
	page.HotSales = hotSales

	topCategories, err := s.TopCategories()
	if err != nil {
		return nil, err
	}
	for _, category := range topCategories {
		ids := []uint{category.ID}
		for _, child := range category.Children {
			ids = append(ids, child.ID)
		}

		var products []models.Product
		err := s.db.
			Where("category_id IN ? AND is_active = ?", ids, true).
			Order("created_at DESC").
			Limit(8).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("loading products for category %d: %w", category.ID, err)
		}
		page.Sections = append(page.Sections, CategorySection{Category: category, Products: products})

		var image models.CategoryImage
		err = s.db.Where("category_id = ?", category.ID).Order("id").First(&image).Error
		if err == nil {
			page.CategoryImages[category.ID] = s.uploads.URL(image.Filename)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loading category image: %w", err)
		}
	}

	return page, nil
}

// HotSales returns the homepage carousel entries for active products in
// position order.
func (s *CatalogService) HotSales() ([]HotSaleView, error) {
	return s.hotSales()
}

func (s *CatalogService) hotSales() ([]HotSaleView, error) {
	var sales []models.HotSale
	err := s.db.
		Joins("JOIN products ON products.id = hot_sales.product_id").
		Where("products.is_active = ?", true).
		Order("hot_sales.position").
		Limit(8).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("loading hot sales: %w", err)
	}

	views := make([]HotSaleView, 0, len(sales))
	for _, sale := range sales {
		var product models.Product
		if err := s.db.First(&product, sale.ProductID).Error; err != nil {
			return nil, fmt.Errorf("loading hot sale product %d: %w", sale.ProductID, err)
		}
		views = append(views, HotSaleView{
			HotSale:      sale,
			Product:      product,
			DisplayImage: s.hotSaleImage(sale, product),
		})
	}
	return views, nil
}

// The sale's own image wins, then the product image, then the placeholder.
func (s *CatalogService) hotSaleImage(sale models.HotSale, product models.Product) string {
	if !product.IsActive {
		return placeholderImage
	}
	if sale.Image != "" {
		return s.uploads.URL(sale.Image)
	}
	if product.Image != "" {
		return s.ImageURL(product)
	}
	return placeholderImage
}
