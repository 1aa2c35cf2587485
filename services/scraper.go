package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bravoke/bravo-suppliers-api/models"
	"github.com/bravoke/bravo-suppliers-api/storage"
)

// Listing is one product parsed off an external listing page.
type Listing struct {
	Name     string
	Price    float64
	ImageURL string
	URL      string
}

// ListingParser extracts listings from a page; the parsing strategy is
// coupled to one site's markup, so it stays pluggable.
type ListingParser interface {
	// Parse returns the listings it could extract and a description of
	// every item it had to skip.
	Parse(r io.Reader) (listings []Listing, failures []string, err error)
}

// SelectorParser parses listings with a fixed set of CSS selectors.
type SelectorParser struct {
	Item  string
	Name  string
	Price string
	Image string
	Link  string
}

func NewSelectorParser() *SelectorParser {
	return &SelectorParser{
		Item:  ".product-item",
		Name:  ".product-name",
		Price: ".price",
		Image: ".product-image img",
		Link:  ".product-name a",
	}
}

func (p *SelectorParser) Parse(r io.Reader) ([]Listing, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing page: %w", err)
	}

	var listings []Listing
	var failures []string
	doc.Find(p.Item).Each(func(i int, sel *goquery.Selection) {
		listing, err := p.parseItem(sel)
		if err != nil {
			zap.S().Errorf("error scraping product %d: %v", i, err)
			failures = append(failures, fmt.Sprintf("item %d: %v", i, err))
			return
		}
		listings = append(listings, listing)
	})
	return listings, failures, nil
}

func (p *SelectorParser) parseItem(sel *goquery.Selection) (Listing, error) {
	name := strings.TrimSpace(sel.Find(p.Name).First().Text())
	if name == "" {
		return Listing{}, errors.New("missing product name")
	}

	priceText := sel.Find(p.Price).First().Text()
	priceText = strings.ReplaceAll(priceText, "KSh", "")
	priceText = strings.ReplaceAll(priceText, ",", "")
	price, err := strconv.ParseFloat(strings.TrimSpace(priceText), 64)
	if err != nil {
		return Listing{}, fmt.Errorf("invalid price %q", priceText)
	}

	imageURL, ok := sel.Find(p.Image).First().Attr("src")
	if !ok {
		return Listing{}, errors.New("missing product image")
	}

	productURL, ok := sel.Find(p.Link).First().Attr("href")
	if !ok {
		return Listing{}, errors.New("missing product link")
	}

	return Listing{Name: name, Price: price, ImageURL: imageURL, URL: productURL}, nil
}

type ScrapeResult struct {
	CategoryID uint `json:"categoryId"`
	ItemsAdded int  `json:"itemsAdded"`
	Skipped    int  `json:"skipped"`
}

// ScrapeService pulls product listings off an external page into a
// category. No retries, no rate limiting, no dedup against existing rows.
type ScrapeService struct {
	db     *gorm.DB
	client *resty.Client
	parser ListingParser
	images storage.Storage
}

func NewScrapeService(db *gorm.DB, images storage.Storage, parser ListingParser) *ScrapeService {
	return &ScrapeService{
		db:     db,
		client: resty.New(),
		parser: parser,
		images: images,
	}
}

// Scrape fetches url, parses its listings and bulk-inserts them as products
// of the given category. A page-level fetch failure aborts the run;
// per-item failures are logged and skipped.
func (s *ScrapeService) Scrape(url string, categoryID uint) (*ScrapeResult, error) {
	var category models.Category
	err := s.db.First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading category %d: %w", categoryID, err)
	}

	resp, err := s.client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode())
	}

	listings, failures, err := s.parser.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}

	var products []models.Product
	for _, listing := range listings {
		filename, err := s.downloadImage(listing.ImageURL)
		if err != nil {
			zap.S().Errorf("error downloading image %s: %v", listing.ImageURL, err)
			failures = append(failures, fmt.Sprintf("%s: image download failed", listing.Name))
			continue
		}
		products = append(products, models.Product{
			Name:        listing.Name,
			Price:       listing.Price,
			Image:       filename,
			CategoryID:  categoryID,
			IsScraped:   true,
			OriginalURL: listing.URL,
			IsActive:    true,
		})
	}

	if len(products) > 0 {
		if err := s.db.Create(&products).Error; err != nil {
			return nil, fmt.Errorf("saving scraped products: %w", err)
		}
	}

	s.recordJob(url, categoryID, len(products), failures)

	return &ScrapeResult{
		CategoryID: categoryID,
		ItemsAdded: len(products),
		Skipped:    len(failures),
	}, nil
}

func (s *ScrapeService) downloadImage(url string) (string, error) {
	resp, err := s.client.R().Get(url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	filename := fmt.Sprintf("%s.%s", name, storage.NormalizeExt(url))
	return s.images.Save(bytes.NewReader(resp.Body()), filename)
}

func (s *ScrapeService) recordJob(url string, categoryID uint, added int, failures []string) {
	if failures == nil {
		failures = []string{}
	}
	payload, err := json.Marshal(failures)
	if err != nil {
		zap.S().Errorf("failed to encode scrape failures: %v", err)
		payload = []byte("[]")
	}

	job := models.ScrapeJob{
		URL:        url,
		CategoryID: categoryID,
		ItemsAdded: added,
		Failures:   datatypes.JSON(payload),
	}
	if err := s.db.Create(&job).Error; err != nil {
		zap.S().Errorf("failed to record scrape job: %v", err)
	}
}
