package repository

import (
	"errors"

	"decora/internal/models"

	"gorm.io/gorm"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *AddressRepository) FindByID(tx *gorm.DB, id uint) (*models.Address, error) {
	var a models.Address
	err := r.conn(tx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) Create(tx *gorm.DB, a *models.Address) error {
	return r.conn(tx).Create(a).Error
}
