// internal/domain/product/category_service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// CategoryAll is the listing filter value that disables category filtering
const CategoryAll = "all"

// Category is a catalog section shown in the storefront filters
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var knownCategories = []Category{
	{Value: "bolos", Label: "Bolos"},
	{Value: "doces", Label: "Doces"},
	{Value: "tortas", Label: "Tortas"},
	{Value: "kits", Label: "Kits"},
	{Value: "salgados", Label: "Salgados"},
	{Value: "sem lactose", Label: "Sem Lactose"},
}

var titleCaser = cases.Title(language.BrazilianPortuguese, cases.NoLower)

// KnownCategories returns the fixed storefront categories in display order
func KnownCategories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// CategoryLabel returns the display label of a category value.
// Unknown values are title-cased word by word.
func CategoryLabel(value string) string {
	for _, c := range knownCategories {
		if c.Value == value {
			return c.Label
		}
	}

	words := strings.Fields(value)
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// CategoryService lists the categories offered in the catalog
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// GetCategories returns the known categories followed by any other category
// used by an active product
func (s *CategoryService) GetCategories(ctx context.Context) ([]Category, error) {
	var used []string
	err := s.db.WithContext(ctx).Model(&Product{}).
		Where("active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &used).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := KnownCategories()
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		seen[c.Value] = true
	}
	for _, value := range used {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		categories = append(categories, Category{Value: value, Label: CategoryLabel(value)})
	}

	return categories, nil
}
