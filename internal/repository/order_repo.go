package repository

import (
	"errors"

	"decora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *OrderRepository) Create(tx *gorm.DB, o *models.Order) error {
	return r.conn(tx).Create(o).Error
}

func (r *OrderRepository) FindByID(tx *gorm.DB, id uint) (*models.Order, error) {
	var o models.Order
	err := r.conn(tx).Preload("Items").Preload("History").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByPaymentID(tx *gorm.DB, paymentID uint) (*models.Order, error) {
	var o models.Order
	err := r.conn(tx).Preload("Items").Where("payment_id = ?", paymentID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Save persists the order's own columns; items and history rows are written
// through their own paths.
func (r *OrderRepository) Save(tx *gorm.DB, o *models.Order) error {
	return r.conn(tx).Omit(clause.Associations).Save(o).Error
}

func (r *OrderRepository) AppendHistory(tx *gorm.DB, entry *models.OrderHistory) error {
	return r.conn(tx).Create(entry).Error
}
