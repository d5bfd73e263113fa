package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"decora/config"
	"decora/internal/database"
	"decora/internal/domain"
	"decora/internal/models"
	"decora/internal/repository"
	"decora/internal/service"
	"decora/pkg/gateway"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const webhookSecret = "test-webhook-secret"

type webhookHarness struct {
	engine *gin.Engine
	svc    *service.PaymentService
	db     *gorm.DB
}

func newWebhookHarness(t *testing.T) *webhookHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.GatewayConfig{
		KeySecret:     "test-key-secret",
		WebhookSecret: webhookSecret,
		Currency:      "INR",
	}
	orderSvc := service.NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewAddressRepository(db),
	)
	svc := service.NewPaymentService(
		db,
		repository.NewPaymentRepository(db),
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		orderSvc,
		&gateway.StubClient{},
		service.NewNotificationService(nil),
		cfg,
	)

	engine := gin.New()
	engine.POST("/api/v1/webhooks/payment", NewWebhookHandler(svc, cfg).Handle)
	return &webhookHarness{engine: engine, svc: svc, db: db}
}

// seedIntent seeds a product and opens a payment intent against it, returning
// the gateway order id and product id.
func (h *webhookHarness) seedIntent(t *testing.T) (string, uint) {
	t.Helper()
	p := &models.Product{Name: "Linen Weave", PricePaise: 50000, Stock: 10, IsActive: true}
	require.NoError(t, h.db.Create(p).Error)

	intent, _, err := h.svc.CreatePaymentOrder(context.Background(), 7, service.CreateOrderInput{
		Items: []service.LineItem{{ProductID: p.ID, Quantity: 2, Area: 1}},
		Address: service.AddressRef{New: &service.AddressFields{
			FirstName:  "Asha",
			Phone:      "+91-9876543210",
			Street:     "14 MG Road",
			City:       "Bengaluru",
			State:      "Karnataka",
			PostalCode: "560001",
			Country:    "India",
		}},
	})
	require.NoError(t, err)
	return intent.ID, p.ID
}

func (h *webhookHarness) post(t *testing.T, event map[string]interface{}, signature string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	if signature == "" {
		signature = gateway.SignPayload(body, webhookSecret)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Razorpay-Signature", signature)
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func capturedEvent(gatewayOrderID, paymentID string) map[string]interface{} {
	return map[string]interface{}{
		"event": domain.EventPaymentCaptured,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":       paymentID,
					"order_id": gatewayOrderID,
					"status":   "captured",
				},
			},
		},
	}
}

func (h *webhookHarness) paymentFor(t *testing.T, gatewayOrderID string) *models.Payment {
	t.Helper()
	var p models.Payment
	require.NoError(t, h.db.Where("gateway_order_id = ?", gatewayOrderID).First(&p).Error)
	return &p
}

func (h *webhookHarness) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := newWebhookHarness(t)
	orderID, _ := h.seedIntent(t)

	rec := h.post(t, capturedEvent(orderID, "pay_test_1"), "deadbeef")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No state moved: the intent is still open and no order exists.
	assert.Equal(t, domain.PaymentStatusCreated, h.paymentFor(t, orderID).Status)
	assert.Zero(t, h.orderCount(t))
}

func TestWebhookCapturedMaterializesOrder(t *testing.T) {
	h := newWebhookHarness(t)
	orderID, productID := h.seedIntent(t)

	rec := h.post(t, capturedEvent(orderID, "pay_test_1"), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())

	payment := h.paymentFor(t, orderID)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, domain.VerifiedViaWebhook, payment.VerifiedVia)
	assert.Equal(t, "pay_test_1", payment.GatewayPaymentID)

	assert.Equal(t, int64(1), h.orderCount(t))
	var p models.Product
	require.NoError(t, h.db.First(&p, productID).Error)
	assert.Equal(t, 8, p.Stock)
}

func TestWebhookDuplicateDeliveryIsAcknowledged(t *testing.T) {
	h := newWebhookHarness(t)
	orderID, productID := h.seedIntent(t)

	for i := 0; i < 3; i++ {
		rec := h.post(t, capturedEvent(orderID, "pay_test_1"), "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, int64(1), h.orderCount(t))
	var p models.Product
	require.NoError(t, h.db.First(&p, productID).Error)
	assert.Equal(t, 8, p.Stock)
}

func TestWebhookPaymentFailed(t *testing.T) {
	h := newWebhookHarness(t)
	orderID, _ := h.seedIntent(t)

	rec := h.post(t, map[string]interface{}{
		"event": domain.EventPaymentFailed,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":                "pay_test_1",
					"order_id":          orderID,
					"status":            "failed",
					"error_description": "card declined",
				},
			},
		},
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	payment := h.paymentFor(t, orderID)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.Equal(t, domain.ErrCodeGatewayError, payment.ErrorCode)
	assert.Equal(t, "card declined", payment.ErrorDescription)
	assert.Zero(t, h.orderCount(t))
}

func TestWebhookUnknownEventAcknowledged(t *testing.T) {
	h := newWebhookHarness(t)
	orderID, _ := h.seedIntent(t)

	rec := h.post(t, map[string]interface{}{"event": "refund.created"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, domain.PaymentStatusCreated, h.paymentFor(t, orderID).Status)
	assert.Zero(t, h.orderCount(t))
}
