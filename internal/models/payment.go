package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment tracks one payment attempt against the gateway, from intent
// creation to a terminal success/failure. Metadata carries everything a later
// process needs to rebuild the order without request context: user id,
// address (or address id), serialized line items, method and the clear-cart
// flag. The webhook path has no HTTP session and reads only from here.
type Payment struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	UserID           uint   `gorm:"not null;index" json:"user_id"`
	GatewayOrderID   string `gorm:"size:255;not null;uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string `gorm:"size:255" json:"gateway_payment_id"`
	GatewaySignature string `gorm:"size:512" json:"-"`
	AmountPaise      int64  `gorm:"not null" json:"amount_paise"`
	Currency         string `gorm:"size:3;default:'INR'" json:"currency"`
	Status           string `gorm:"size:20;not null;index" json:"status"` // created, success, failed
	Method           string `gorm:"size:20" json:"method"`
	VerifiedVia      string `gorm:"size:20" json:"verified_via"` // client-verify, webhook
	ErrorCode        string `gorm:"size:50" json:"error_code,omitempty"`
	ErrorDescription string `gorm:"size:512" json:"error_description,omitempty"`
	Metadata         string `gorm:"type:text" json:"-"` // JSON, see CheckoutMetadata

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
