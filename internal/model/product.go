package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product categories. The set is closed; anything else is rejected on write.
const (
	CategoryFungicides       = "Fungicides"
	CategoryInsecticides     = "Insecticides"
	CategoryGrowthRegulators = "Plant Growth Regulators"
	CategoryHerbicides       = "Herbicides"
	CategoryOther            = "Other"
)

// Categories lists the accepted product categories in display order.
var Categories = []string{
	CategoryFungicides,
	CategoryInsecticides,
	CategoryGrowthRegulators,
	CategoryHerbicides,
	CategoryOther,
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog item.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Price       string    `json:"price" gorm:"size:64;not null"`
	Category    string    `json:"category" gorm:"size:64;not null;index"`
	Image       string    `json:"image" gorm:"size:1024;not null"`
	Featured    bool      `json:"featured" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Apply copies the writable fields of in onto p. Identity and timestamps are
// left untouched.
func (p *Product) Apply(in ProductInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.Image = in.Image
	p.Featured = in.Featured
}

// ProductInput is the validated write payload for a product. POST and PATCH
// both take the complete object.
type ProductInput struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=10"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required,category"`
	Image       string `json:"image" validate:"required,url"`
	Featured    bool   `json:"featured"`
}

// NewProduct builds an unsaved product from in.
func NewProduct(in ProductInput) *Product {
	p := &Product{}
	p.Apply(in)
	return p
}
