package repository

import (
	"errors"

	"decora/internal/models"

	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *CartRepository) FindByUser(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var c models.Cart
	err := r.conn(tx).Preload("Items").Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ClearCart removes the user's cart items. Missing cart is not an error.
func (r *CartRepository) ClearCart(tx *gorm.DB, userID uint) error {
	cart, err := r.FindByUser(tx, userID)
	if err != nil || cart == nil {
		return err
	}
	return r.conn(tx).Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}
