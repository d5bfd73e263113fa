package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is owned by the catalog; this engine only reads it and mutates
// stock/sold inside reservation transactions.
type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:100;not null" json:"name"`
	Description string           `gorm:"size:500" json:"description"`
	PricePaise  int64            `gorm:"not null" json:"price_paise"` // base price, used when no texture is selected
	Stock       int              `gorm:"not null;default:0" json:"stock"`
	Sold        int              `gorm:"not null;default:0" json:"sold"`
	Image       string           `gorm:"size:512" json:"image"`
	IsActive    bool             `gorm:"default:true" json:"is_active"`
	Textures    []ProductTexture `gorm:"foreignKey:ProductID" json:"textures,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductTexture is one variant in the product's price list. The texture name
// selected on a line item resolves to this price.
type ProductTexture struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	ProductID  uint   `gorm:"not null;index" json:"-"`
	Name       string `gorm:"size:100;not null" json:"name"`
	PricePaise int64  `gorm:"not null" json:"price_paise"`
}

func (ProductTexture) TableName() string {
	return "product_textures"
}
