package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"decora/config"
	"decora/internal/apperr"
	"decora/internal/domain"
	"decora/internal/models"
	"decora/internal/repository"
	"decora/pkg/gateway"

	"gorm.io/gorm"
)

// CheckoutMetadata is serialized onto the payment intent at creation time. It
// must be enough to rebuild the order with no request context at all, because
// the webhook path runs without an HTTP session.
type CheckoutMetadata struct {
	UserID        uint       `json:"user_id"`
	Items         []LineItem `json:"items"`
	Address       AddressRef `json:"address"`
	PaymentMethod string     `json:"payment_method"`
	ClearCart     bool       `json:"clear_cart"`
}

type PaymentService struct {
	db       *gorm.DB
	payments *repository.PaymentRepository
	orders   *repository.OrderRepository
	carts    *repository.CartRepository
	orderSvc *OrderService
	gw       gateway.Client
	notif    *NotificationService
	cfg      *config.GatewayConfig
}

func NewPaymentService(
	db *gorm.DB,
	payments *repository.PaymentRepository,
	orders *repository.OrderRepository,
	carts *repository.CartRepository,
	orderSvc *OrderService,
	gw gateway.Client,
	notif *NotificationService,
	cfg *config.GatewayConfig,
) *PaymentService {
	return &PaymentService{
		db:       db,
		payments: payments,
		orders:   orders,
		carts:    carts,
		orderSvc: orderSvc,
		gw:       gw,
		notif:    notif,
		cfg:      cfg,
	}
}

type CreateOrderInput struct {
	Items         []LineItem `json:"items"`
	Address       AddressRef `json:"address"`
	PaymentMethod string     `json:"payment_method"`
	ClearCart     bool       `json:"clear_cart"`
}

// CreatePaymentOrder prices the checkout against the catalog, opens a gateway
// intent for the total and records the payment in status created. The full
// checkout context is persisted as intent metadata for the webhook path.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, userID uint, in CreateOrderInput) (*gateway.Intent, *models.Payment, error) {
	if len(in.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: no line items", apperr.ErrInvalidCheckout)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentMethodOnline
	}

	amount, err := s.orderSvc.QuotePaise(in.Items)
	if err != nil {
		return nil, nil, err
	}

	meta := CheckoutMetadata{
		UserID:        userID,
		Items:         in.Items,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		ClearCart:     in.ClearCart,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, nil, err
	}

	intent, err := s.gw.CreateIntent(ctx, gateway.IntentRequest{
		AmountPaise: amount,
		Currency:    s.cfg.Currency,
		Receipt:     fmt.Sprintf("order_rcpt_%d", time.Now().UnixNano()),
		Notes:       map[string]string{"checkout": string(metaJSON)},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrGateway, err)
	}

	payment := &models.Payment{
		UserID:         userID,
		GatewayOrderID: intent.ID,
		AmountPaise:    amount,
		Currency:       s.cfg.Currency,
		Status:         domain.PaymentStatusCreated,
		Method:         in.PaymentMethod,
		Metadata:       string(metaJSON),
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, nil, err
	}
	return intent, payment, nil
}

type VerifyInput struct {
	GatewayOrderID   string     `json:"gateway_order_id"`
	GatewayPaymentID string     `json:"gateway_payment_id"`
	Signature        string     `json:"signature"`
	Items            []LineItem `json:"items"`
	Address          AddressRef `json:"address"`
	PaymentMethod    string     `json:"payment_method"`
	ClearCart        bool       `json:"clear_cart"`
}

// VerifyPayment is the client-verify reconciliation path: signature check,
// claim, transactional materialization, amount assertion, cart clearing. A
// payment already settled by the webhook path returns the existing order with
// no error and no state change.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID uint, in VerifyInput) (*models.Payment, *models.Order, error) {
	payment, err := s.payments.FindByGatewayOrderID(nil, in.GatewayOrderID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, fmt.Errorf("%w: gateway order %s", apperr.ErrPaymentNotFound, in.GatewayOrderID)
	}

	if !gateway.VerifyPaymentSignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature, s.cfg.KeySecret) {
		if err := s.payments.MarkFailed(nil, in.GatewayOrderID, domain.ErrCodeSignatureMismatch, "invalid signature"); err != nil {
			log.Printf("[payment] mark failed after signature mismatch: %v", err)
		}
		return nil, nil, apperr.ErrSignatureMismatch
	}

	meta := CheckoutMetadata{
		UserID:        userID,
		Items:         in.Items,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		ClearCart:     in.ClearCart,
	}
	if meta.PaymentMethod == "" {
		meta.PaymentMethod = payment.Method
	}
	order, err := s.settle(payment, meta, in.GatewayPaymentID, in.Signature, domain.VerifiedViaClient)
	if err != nil && !errors.Is(err, apperr.ErrAlreadyProcessed) {
		return nil, nil, err
	}

	settled, ferr := s.payments.FindByGatewayOrderID(nil, in.GatewayOrderID)
	if ferr == nil && settled != nil {
		payment = settled
	}
	return payment, order, nil
}

// settle drives the Created -> Success transition and materializes the order
// in one transaction. The claim is a conditional update, so when both paths
// race exactly one reaches the materializer; the loser gets the existing
// order back under ErrAlreadyProcessed. Any failure after the claim aborts
// the transaction and is then recorded on the intent in a separate write,
// since the transaction that carried the claim no longer exists.
func (s *PaymentService) settle(payment *models.Payment, meta CheckoutMetadata, gatewayPaymentID, signature, via string) (*models.Order, error) {
	var order *models.Order
	var claimed bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		claimed, err = s.payments.ClaimSuccess(tx, payment.GatewayOrderID, gatewayPaymentID, signature, via)
		if err != nil {
			return err
		}
		if !claimed {
			fresh, err := s.payments.FindByGatewayOrderID(tx, payment.GatewayOrderID)
			if err != nil {
				return err
			}
			if fresh != nil && fresh.Status == domain.PaymentStatusSuccess {
				order, err = s.orders.FindByPaymentID(tx, payment.ID)
				if err != nil {
					return err
				}
				return apperr.ErrAlreadyProcessed
			}
			return fmt.Errorf("payment %s already terminal, refusing to settle", payment.GatewayOrderID)
		}

		order, err = s.orderSvc.Materialize(tx, meta.UserID, meta.Items, meta.Address, meta.PaymentMethod, payment.ID)
		if err != nil {
			return err
		}
		if payment.AmountPaise != order.TotalPaise {
			return fmt.Errorf("%w: intent %d, order %d", apperr.ErrAmountMismatch, payment.AmountPaise, order.TotalPaise)
		}
		if meta.ClearCart {
			if err := s.carts.ClearCart(tx, meta.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyProcessed) {
			return order, err
		}
		// The transaction that carried the claim is gone; record the failure
		// in its own write. Claim-phase errors never got that far and must
		// not clobber whatever terminal state the intent already holds.
		if claimed {
			if merr := s.payments.MarkFailed(nil, payment.GatewayOrderID, apperr.Code(err), err.Error()); merr != nil {
				log.Printf("[payment] mark failed for %s: %v", payment.GatewayOrderID, merr)
			}
		}
		return nil, err
	}

	s.notifySuccess(meta.UserID, order)
	return order, nil
}

// SettleFromMetadata reconciles a captured payment using only the metadata
// stored at intent creation; this is the webhook path's entry point.
func (s *PaymentService) SettleFromMetadata(gatewayOrderID, gatewayPaymentID string, fallbackNotes map[string]string) (*models.Order, error) {
	payment, err := s.payments.FindByGatewayOrderID(nil, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: gateway order %s", apperr.ErrPaymentNotFound, gatewayOrderID)
	}
	// Primary defense against duplicate delivery: an intent that is already
	// success settled earlier, via either path.
	if payment.Status == domain.PaymentStatusSuccess {
		order, _ := s.orders.FindByPaymentID(nil, payment.ID)
		return order, apperr.ErrAlreadyProcessed
	}

	var meta CheckoutMetadata
	raw := payment.Metadata
	if raw == "" {
		raw = fallbackNotes["checkout"]
	}
	if raw == "" || json.Unmarshal([]byte(raw), &meta) != nil || len(meta.Items) == 0 {
		return nil, fmt.Errorf("payment %s carries no usable checkout metadata", gatewayOrderID)
	}
	if meta.PaymentMethod == "" {
		meta.PaymentMethod = payment.Method
	}
	return s.settle(payment, meta, gatewayPaymentID, "", domain.VerifiedViaWebhook)
}

// RecordFailure handles a payment.failed event: records the terminal failure
// and, if an order was somehow materialized for this intent, compensates it.
func (s *PaymentService) RecordFailure(gatewayOrderID, reason string) error {
	payment, err := s.payments.FindByGatewayOrderID(nil, gatewayOrderID)
	if err != nil {
		return err
	}
	if payment == nil {
		return fmt.Errorf("%w: gateway order %s", apperr.ErrPaymentNotFound, gatewayOrderID)
	}
	if err := s.payments.MarkFailed(nil, gatewayOrderID, domain.ErrCodeGatewayError, reason); err != nil {
		return err
	}

	// Defensive: a failure report for an already-materialized order unwinds it.
	order, err := s.orders.FindByPaymentID(nil, payment.ID)
	if err != nil {
		return err
	}
	if order != nil && order.Status != domain.OrderStatusCancelled {
		if _, err := s.orderSvc.Cancel(order.ID, "payment failed: "+reason); err != nil {
			return err
		}
	}
	s.notifyFailure(payment, reason)
	return nil
}

func (s *PaymentService) notifySuccess(userID uint, order *models.Order) {
	if order == nil {
		return
	}
	s.notif.OrderConfirmed(userID, order)
}

func (s *PaymentService) notifyFailure(payment *models.Payment, reason string) {
	if payment == nil {
		return
	}
	s.notif.PaymentFailed(payment.UserID, payment.GatewayOrderID, reason)
}
