// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog item. Price is in centavos.
type Product struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name            string    `gorm:"not null;size:255" json:"name"`
	Slug            string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Price           int64     `gorm:"not null" json:"price"`
	Images          []string  `gorm:"serializer:json;type:text" json:"images"`
	Category        string    `gorm:"not null;size:64;index" json:"category"`
	Ingredients     string    `gorm:"type:text" json:"ingredients"`
	Calories        *int      `json:"calories"`
	PrepTimeMinutes *int      `json:"prepTimeMinutes"`
	YieldInfo       string    `gorm:"size:255" json:"yieldInfo"`
	IsFeatured      bool      `gorm:"not null;index" json:"isFeatured"`
	IsFavorite      bool      `gorm:"not null;index" json:"isFavorite"`
	PopularityScore int       `gorm:"not null" json:"popularityScore"`
	Active          bool      `gorm:"not null;index" json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName overrides the table name
func (Product) TableName() string { return "products" }

// BeforeCreate assigns the identifier
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PrimaryImage returns the first image or the placeholder
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return PlaceholderImage
	}
	return p.Images[0]
}
