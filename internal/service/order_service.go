package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"decora/internal/apperr"
	"decora/internal/domain"
	"decora/internal/models"
	"decora/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineItem is a checkout line as supplied by the client. UnitPricePaise is
// optional; when present it is checked against the catalog price and any
// difference is a hard error.
type LineItem struct {
	ProductID       uint    `json:"product_id" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	Area            float64 `json:"area,omitempty"`
	SelectedTexture string  `json:"selected_texture,omitempty"`
	SelectedColor   string  `json:"selected_color,omitempty"`
	UnitPricePaise  int64   `json:"unit_price_paise,omitempty"`
}

// AddressFields are the inline-new-address variant of AddressRef.
type AddressFields struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	GSTIN      string `json:"gstin,omitempty"`
}

// AddressRef is a tagged variant: an existing address id or inline fields for
// a new one. Exactly one side must be set.
type AddressRef struct {
	ID  uint           `json:"id,omitempty"`
	New *AddressFields `json:"new,omitempty"`
}

type OrderService struct {
	db        *gorm.DB
	orders    *repository.OrderRepository
	products  *repository.ProductRepository
	addresses *repository.AddressRepository
}

func NewOrderService(db *gorm.DB, orders *repository.OrderRepository, products *repository.ProductRepository, addresses *repository.AddressRepository) *OrderService {
	return &OrderService{db: db, orders: orders, products: products, addresses: addresses}
}

// ResolveUnitPrice returns the authoritative paise price for a product and an
// optionally selected texture. An empty selection bills at the base price; a
// selection missing from the product's texture list is VariantNotFound.
func ResolveUnitPrice(p *models.Product, texture string) (int64, error) {
	if texture == "" {
		return p.PricePaise, nil
	}
	for _, t := range p.Textures {
		if t.Name == texture {
			return t.PricePaise, nil
		}
	}
	return 0, fmt.Errorf("%w: %q on product %q", apperr.ErrVariantNotFound, texture, p.Name)
}

// LineTotalPaise applies the minimum-area billing rule: areas below the floor
// (and absent areas) bill as the floor amount.
func LineTotalPaise(unitPaise int64, quantity int, area float64) int64 {
	effective := area
	if effective < domain.MinBillableArea {
		effective = domain.MinBillableArea
	}
	return int64(math.Round(float64(unitPaise*int64(quantity)) * effective))
}

// QuotePaise prices a set of line items against the catalog without touching
// stock. Intent creation uses it so the intent amount is computed by the same
// resolver the materializer will apply later.
func (s *OrderService) QuotePaise(items []LineItem) (int64, error) {
	var total int64
	for _, item := range items {
		product, err := s.products.FindByID(nil, item.ProductID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, fmt.Errorf("%w: id %d", apperr.ErrProductNotFound, item.ProductID)
		}
		unit, err := ResolveUnitPrice(product, item.SelectedTexture)
		if err != nil {
			return 0, err
		}
		total += LineTotalPaise(unit, item.Quantity, item.Area)
	}
	return total, nil
}

// Materialize builds and persists the order for a successful payment: resolves
// the address, reserves stock at catalog prices and writes the order with its
// snapshot items, all on the caller's transaction. It refuses to run without
// one so the orchestrator keeps control of the abort/compensation boundary.
func (s *OrderService) Materialize(tx *gorm.DB, userID uint, items []LineItem, addr AddressRef, paymentMethod string, paymentID uint) (*models.Order, error) {
	if tx == nil {
		return nil, apperr.ErrNoTransaction
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no line items", apperr.ErrInvalidCheckout)
	}

	addressID, err := s.resolveAddress(tx, userID, addr)
	if err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	var total int64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", apperr.ErrInvalidCheckout)
		}
		product, err := s.products.FindByID(tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: id %d", apperr.ErrProductNotFound, item.ProductID)
		}
		unit, err := ResolveUnitPrice(product, item.SelectedTexture)
		if err != nil {
			return nil, err
		}
		if item.UnitPricePaise != 0 && item.UnitPricePaise != unit {
			return nil, fmt.Errorf("%w: %q quoted %d, catalog %d", apperr.ErrPriceMismatch, product.Name, item.UnitPricePaise, unit)
		}
		ok, err := s.products.Reserve(tx, product.ID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Re-read for the remaining count; the reserve itself is the guard.
			if fresh, ferr := s.products.FindByID(tx, product.ID); ferr == nil && fresh != nil {
				product = fresh
			}
			return nil, fmt.Errorf("%w: only %d left for %q", apperr.ErrInsufficientStock, product.Stock, product.Name)
		}

		total += LineTotalPaise(unit, item.Quantity, item.Area)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:       product.ID,
			Name:            product.Name,
			Image:           product.Image,
			UnitPricePaise:  unit,
			Quantity:        item.Quantity,
			Area:            item.Area,
			SelectedTexture: item.SelectedTexture,
			SelectedColor:   item.SelectedColor,
		})
	}

	order := &models.Order{
		OrderNumber:   newOrderNumber(),
		UserID:        userID,
		AddressID:     addressID,
		Items:         orderItems,
		TotalPaise:    total,
		PaymentMethod: paymentMethod,
		PaymentID:     &paymentID,
		Status:        domain.OrderStatusProcessing,
		History: []models.OrderHistory{
			{Status: domain.OrderStatusProcessing, Notes: "Order created"},
		},
	}
	if err := s.orders.Create(tx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel unwinds a materialized order: marks it Cancelled and restores the
// stock every item had reserved. Idempotent at the order level; cancelling an
// already-cancelled order changes nothing.
func (s *OrderService) Cancel(orderID uint, reason string) (*models.Order, error) {
	var cancelled *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByID(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: id %d", apperr.ErrOrderNotFound, orderID)
		}
		if order.Status == domain.OrderStatusCancelled {
			cancelled = order
			return nil
		}
		for _, item := range order.Items {
			if err := s.products.Restock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		now := time.Now()
		order.Status = domain.OrderStatusCancelled
		order.CancelledAt = &now
		order.CancellationReason = reason
		if err := s.orders.Save(tx, order); err != nil {
			return err
		}
		if err := s.orders.AppendHistory(tx, &models.OrderHistory{
			OrderID: order.ID,
			Status:  domain.OrderStatusCancelled,
			Notes:   reason,
		}); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *OrderService) GetByID(userID, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(nil, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, fmt.Errorf("%w: id %d", apperr.ErrOrderNotFound, orderID)
	}
	return order, nil
}

func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	return s.orders.FindByUser(userID)
}

func (s *OrderService) resolveAddress(tx *gorm.DB, userID uint, addr AddressRef) (uint, error) {
	switch {
	case addr.ID != 0 && addr.New != nil:
		return 0, fmt.Errorf("%w: both address id and inline address given", apperr.ErrAddressInvalid)
	case addr.ID != 0:
		existing, err := s.addresses.FindByID(tx, addr.ID)
		if err != nil {
			return 0, err
		}
		if existing == nil || existing.UserID != userID {
			return 0, fmt.Errorf("%w: id %d", apperr.ErrAddressInvalid, addr.ID)
		}
		return existing.ID, nil
	case addr.New != nil:
		f := addr.New
		if missing := missingAddressFields(f); len(missing) > 0 {
			return 0, fmt.Errorf("%w: missing %s", apperr.ErrAddressInvalid, strings.Join(missing, ", "))
		}
		record := &models.Address{
			UserID:     userID,
			FirstName:  f.FirstName,
			LastName:   f.LastName,
			Phone:      f.Phone,
			Email:      f.Email,
			Street:     f.Street,
			City:       f.City,
			State:      f.State,
			PostalCode: f.PostalCode,
			Country:    f.Country,
			GSTIN:      f.GSTIN,
		}
		if err := s.addresses.Create(tx, record); err != nil {
			return 0, err
		}
		return record.ID, nil
	default:
		return 0, fmt.Errorf("%w: no address given", apperr.ErrAddressInvalid)
	}
}

func missingAddressFields(f *AddressFields) []string {
	var missing []string
	require := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	require("first_name", f.FirstName)
	require("phone", f.Phone)
	require("street", f.Street)
	require("city", f.City)
	require("state", f.State)
	require("postal_code", f.PostalCode)
	require("country", f.Country)
	return missing
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102-150405"), suffix)
}
