package repository

import (
	"errors"

	"decora/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ProductRepository) FindByID(tx *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	err := r.conn(tx).Preload("Textures").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Reserve decrements stock and bumps the sold counter, but only when enough
// stock remains. The conditional update serializes concurrent reservations on
// the product row and can never drive stock negative. Returns false when the
// guard did not match (insufficient stock or unknown product).
func (r *ProductRepository) Reserve(tx *gorm.DB, productID uint, quantity int) (bool, error) {
	res := r.conn(tx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock - ?", quantity),
			"sold":  gorm.Expr("sold + ?", quantity),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Restock is the inverse of Reserve, used by compensation.
func (r *ProductRepository) Restock(tx *gorm.DB, productID uint, quantity int) error {
	return r.conn(tx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock + ?", quantity),
			"sold":  gorm.Expr("sold - ?", quantity),
		}).Error
}

func (r *ProductRepository) Save(tx *gorm.DB, p *models.Product) error {
	return r.conn(tx).Save(p).Error
}
