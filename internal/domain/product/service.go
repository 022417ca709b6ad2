// internal/domain/product/service.go
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/jupani/storefront/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrSlugTaken   = errors.New("slug already in use")
	ErrInvalidSlug = errors.New("slug must contain letters or digits")
)

const (
	// PlaceholderImage is used when a product is created without images
	PlaceholderImage = "/images/products/bolo-red-velvet.svg"
	// PendingInfo fills descriptive fields the owner has not written yet
	PendingInfo = "A definir"

	DefaultPageSize = 9
	maxPageSize     = 50
	showcaseLimit   = 8

	featuredCacheKey  = "products:featured"
	favoritesCacheKey = "products:favorites"
)

// Cache stores the storefront showcase lists
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	cache  Cache
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new product service. cache may be nil.
func NewService(db *gorm.DB, cache Cache, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

// ListRequest represents the catalog query parameters
type ListRequest struct {
	Query           string
	Category        string
	Featured        bool
	Favorite        bool
	IncludeInactive bool
	Page            int
	PageSize        int
}

// ListResponse is one page of the catalog
type ListResponse struct {
	Items      []Product `json:"items"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name            string   `json:"name" binding:"required,min=2"`
	Slug            string   `json:"slug" binding:"omitempty,min=2"`
	Description     string   `json:"description" binding:"required,min=10"`
	Price           int64    `json:"price" binding:"required,gt=0"`
	Category        string   `json:"category" binding:"required,min=2"`
	Images          []string `json:"images"`
	Ingredients     *string  `json:"ingredients"`
	Calories        *int     `json:"calories" binding:"omitempty,gte=0"`
	PrepTimeMinutes *int     `json:"prepTimeMinutes" binding:"omitempty,gte=0"`
	YieldInfo       *string  `json:"yieldInfo"`
	IsFeatured      bool     `json:"isFeatured"`
	IsFavorite      bool     `json:"isFavorite"`
	PopularityScore int      `json:"popularityScore"`
	Active          *bool    `json:"active"`
}

// UpdateRequest represents a partial product update. Calories and
// PrepTimeMinutes accept an explicit null to clear the value.
type UpdateRequest struct {
	Name            *string     `json:"name" binding:"omitempty,min=2"`
	Slug            *string     `json:"slug" binding:"omitempty,min=2"`
	Description     *string     `json:"description" binding:"omitempty,min=10"`
	Price           *int64      `json:"price" binding:"omitempty,gt=0"`
	Category        *string     `json:"category" binding:"omitempty,min=2"`
	Images          []string    `json:"images"`
	Ingredients     *string     `json:"ingredients"`
	Calories        OptionalInt `json:"calories"`
	PrepTimeMinutes OptionalInt `json:"prepTimeMinutes"`
	YieldInfo       *string     `json:"yieldInfo"`
	IsFeatured      *bool       `json:"isFeatured"`
	IsFavorite      *bool       `json:"isFavorite"`
	PopularityScore *int        `json:"popularityScore"`
	Active          *bool       `json:"active"`
}

// OptionalInt distinguishes an absent field from an explicit null
type OptionalInt struct {
	Set   bool
	Value *int
}

// UnmarshalJSON marks the field as present
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// List retrieves catalog products ordered by popularity, newest first on ties
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	switch {
	case pageSize == 0:
		pageSize = DefaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	query := s.db.WithContext(ctx).Model(&Product{})

	if !req.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if req.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if req.Favorite {
		query = query.Where("is_favorite = ?", true)
	}
	if category := strings.TrimSpace(req.Category); category != "" && category != CategoryAll {
		query = query.Where("category = ?", category)
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err := query.
		Order("popularity_score DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}

	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages < 1 {
		pages = 1
	}

	return &ListResponse{
		Items:      products,
		Total:      total,
		TotalPages: pages,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Featured returns the top active products flagged as featured
func (s *Service) Featured(ctx context.Context) ([]Product, error) {
	return s.showcase(ctx, featuredCacheKey, "is_featured")
}

// Favorites returns the top active products flagged as customer favorites
func (s *Service) Favorites(ctx context.Context) ([]Product, error) {
	return s.showcase(ctx, favoritesCacheKey, "is_favorite")
}

func (s *Service) showcase(ctx context.Context, key, flag string) ([]Product, error) {
	if s.cache != nil {
		var cached []Product
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		s.logger.WithField("key", key).WithError(err).Debug("Product cache miss")
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Where("active = ? AND "+flag+" = ?", true, true).
		Order("popularity_score DESC, created_at DESC").
		Limit(showcaseLimit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s products: %w", flag, err)
	}
	if products == nil {
		products = []Product{}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, products, s.config.Store.ProductCacheTTL); err != nil {
			s.logger.WithField("key", key).WithError(err).Warn("Failed to cache products")
		}
	}

	return products, nil
}

// GetBySlug retrieves an active product by slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Where("slug = ? AND active = ?", slug, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// GetByID retrieves a product by ID regardless of its active flag
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// Create adds a product to the catalog, filling defaults for omitted fields
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Product, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}

	product := &Product{
		Name:            strings.TrimSpace(req.Name),
		Slug:            slug,
		Description:     req.Description,
		Price:           req.Price,
		Category:        strings.TrimSpace(req.Category),
		Images:          req.Images,
		Ingredients:     PendingInfo,
		Calories:        req.Calories,
		PrepTimeMinutes: req.PrepTimeMinutes,
		YieldInfo:       PendingInfo,
		IsFeatured:      req.IsFeatured,
		IsFavorite:      req.IsFavorite,
		PopularityScore: req.PopularityScore,
		Active:          true,
	}
	if len(product.Images) == 0 {
		product.Images = []string{PlaceholderImage}
	}
	if req.Ingredients != nil {
		product.Ingredients = *req.Ingredients
	}
	if req.YieldInfo != nil {
		product.YieldInfo = *req.YieldInfo
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureSlugFree(tx, product.Slug, ""); err != nil {
			return err
		}
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.WithFields(logrus.Fields{"product_id": product.ID, "slug": product.Slug}).Info("Product created")

	return product, nil
}

// Update applies the fields present in req
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Product, error) {
	var product Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve product: %w", err)
		}

		if req.Slug != nil {
			slug := strings.TrimSpace(*req.Slug)
			if slug == "" {
				return ErrInvalidSlug
			}
			if err := s.ensureSlugFree(tx, slug, product.ID); err != nil {
				return err
			}
			product.Slug = slug
		}
		if req.Name != nil {
			product.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.Category != nil {
			product.Category = strings.TrimSpace(*req.Category)
		}
		if req.Images != nil {
			product.Images = req.Images
			if len(product.Images) == 0 {
				product.Images = []string{PlaceholderImage}
			}
		}
		if req.Ingredients != nil {
			product.Ingredients = *req.Ingredients
		}
		if req.Calories.Set {
			product.Calories = req.Calories.Value
		}
		if req.PrepTimeMinutes.Set {
			product.PrepTimeMinutes = req.PrepTimeMinutes.Value
		}
		if req.YieldInfo != nil {
			product.YieldInfo = *req.YieldInfo
		}
		if req.IsFeatured != nil {
			product.IsFeatured = *req.IsFeatured
		}
		if req.IsFavorite != nil {
			product.IsFavorite = *req.IsFavorite
		}
		if req.PopularityScore != nil {
			product.PopularityScore = *req.PopularityScore
		}
		if req.Active != nil {
			product.Active = *req.Active
		}

		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.WithField("product_id", product.ID).Info("Product updated")

	return &product, nil
}

func (s *Service) ensureSlugFree(tx *gorm.DB, slug, exceptID string) error {
	query := tx.Model(&Product{}).Where("slug = ?", slug)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, featuredCacheKey, favoritesCacheKey); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate product cache")
	}
}

// Slugify builds a URL-friendly slug: accents stripped, lower case, words
// joined by hyphens
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
