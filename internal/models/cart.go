package models

import (
	"time"
)

// Cart is owned by the cart collaborator; the engine only clears it after a
// successful materialization when the checkout asked for it.
type Cart struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UserID uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID              uint    `gorm:"primaryKey" json:"-"`
	CartID          uint    `gorm:"not null;index" json:"-"`
	ProductID       uint    `gorm:"not null" json:"product_id"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	Area            float64 `json:"area,omitempty"`
	SelectedTexture string  `gorm:"size:100" json:"selected_texture,omitempty"`
	SelectedColor   string  `gorm:"size:100" json:"selected_color,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
