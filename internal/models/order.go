package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"size:64;not null;uniqueIndex" json:"order_number"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	AddressID     uint        `gorm:"not null" json:"address_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalPaise    int64       `gorm:"not null" json:"total_paise"`
	PaymentMethod string      `gorm:"size:20;not null" json:"payment_method"` // Online, COD
	PaymentID     *uint       `gorm:"index" json:"payment_id,omitempty"`
	Status        string      `gorm:"size:20;not null;index" json:"status"`

	History []OrderHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot taken at materialization time: name, image and unit
// price are copied from the product so later catalog edits cannot change what
// the customer bought.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"not null;index" json:"-"`
	ProductID       uint    `gorm:"not null" json:"product_id"`
	Name            string  `gorm:"size:100" json:"name"`
	Image           string  `gorm:"size:512" json:"image"`
	UnitPricePaise  int64   `gorm:"not null" json:"unit_price_paise"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	Area            float64 `json:"area,omitempty"`
	SelectedTexture string  `gorm:"size:100" json:"selected_texture,omitempty"`
	SelectedColor   string  `gorm:"size:100" json:"selected_color,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderHistory records every status change on an order.
type OrderHistory struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uint      `gorm:"not null;index" json:"-"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	Notes     string    `gorm:"size:255" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderHistory) TableName() string {
	return "order_history"
}
