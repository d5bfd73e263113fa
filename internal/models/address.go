package models

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	FirstName  string `gorm:"size:100;not null" json:"first_name"`
	LastName   string `gorm:"size:100" json:"last_name"`
	Phone      string `gorm:"size:20;not null" json:"phone"`
	Email      string `gorm:"size:255" json:"email"`
	Street     string `gorm:"size:255;not null" json:"street"`
	City       string `gorm:"size:100;not null" json:"city"`
	State      string `gorm:"size:100;not null" json:"state"`
	PostalCode string `gorm:"size:20;not null" json:"postal_code"`
	Country    string `gorm:"size:100;not null" json:"country"`
	GSTIN      string `gorm:"size:20" json:"gstin,omitempty"`
	IsDefault  bool   `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
