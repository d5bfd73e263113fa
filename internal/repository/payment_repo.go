package repository

import (
	"errors"

	"decora/internal/domain"
	"decora/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// conn returns the transaction handle when one is active, else the root db.
func (r *PaymentRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) FindByGatewayOrderID(tx *gorm.DB, gatewayOrderID string) (*models.Payment, error) {
	var p models.Payment
	err := r.conn(tx).Where("gateway_order_id = ?", gatewayOrderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ClaimSuccess is the conditional transition Created -> Success. It is the
// mutual-exclusion point between the client-verify and webhook paths: the
// WHERE status = 'created' guard lets exactly one caller win, whichever
// isolation level the store runs at. Returns (claimed=false, nil) when the
// intent was already terminal, and (false, gorm.ErrRecordNotFound) when no
// intent exists for the gateway order id.
func (r *PaymentRepository) ClaimSuccess(tx *gorm.DB, gatewayOrderID, gatewayPaymentID, signature, verifiedVia string) (bool, error) {
	res := r.conn(tx).Model(&models.Payment{}).
		Where("gateway_order_id = ? AND status = ?", gatewayOrderID, domain.PaymentStatusCreated).
		Updates(map[string]interface{}{
			"status":             domain.PaymentStatusSuccess,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
			"verified_via":       verifiedVia,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	existing, err := r.FindByGatewayOrderID(tx, gatewayOrderID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, gorm.ErrRecordNotFound
	}
	return false, nil
}

// MarkFailed records a terminal failure with a machine-readable code. The
// status guard keeps it from downgrading an intent another path already
// drove to success; calling it twice with the same outcome is a no-op.
func (r *PaymentRepository) MarkFailed(tx *gorm.DB, gatewayOrderID, code, description string) error {
	return r.conn(tx).Model(&models.Payment{}).
		Where("gateway_order_id = ? AND status <> ?", gatewayOrderID, domain.PaymentStatusSuccess).
		Updates(map[string]interface{}{
			"status":            domain.PaymentStatusFailed,
			"error_code":        code,
			"error_description": description,
		}).Error
}

func (r *PaymentRepository) Update(tx *gorm.DB, p *models.Payment) error {
	return r.conn(tx).Save(p).Error
}
