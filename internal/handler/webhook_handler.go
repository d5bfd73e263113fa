package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"decora/config"
	"decora/internal/apperr"
	"decora/internal/domain"
	"decora/internal/service"
	"decora/pkg/gateway"

	"github.com/gin-gonic/gin"
)

// webhookEvent mirrors the gateway's webhook envelope.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string            `json:"id"`
				OrderID          string            `json:"order_id"`
				AmountPaise      int64             `json:"amount"`
				Status           string            `json:"status"`
				ErrorReason      string            `json:"error_reason"`
				ErrorDescription string            `json:"error_description"`
				Notes            map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type WebhookHandler struct {
	paymentSvc *service.PaymentService
	cfg        *config.GatewayConfig
}

func NewWebhookHandler(paymentSvc *service.PaymentService, cfg *config.GatewayConfig) *WebhookHandler {
	return &WebhookHandler{paymentSvc: paymentSvc, cfg: cfg}
}

// Handle processes gateway webhook deliveries. Signature failures get a 400
// and touch no state. Once the signature checks out the handler always
// acknowledges with 200: gateways disable delivery after repeated non-2xx
// responses, so downstream materialization failures are logged for the
// operational reconciliation sweep instead of forcing redelivery.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	sig := c.GetHeader("X-Razorpay-Signature")
	if !gateway.VerifyWebhookSignature(body, sig, h.cfg.WebhookSecret) {
		log.Printf("[webhook] invalid signature from %s", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	entity := event.Payload.Payment.Entity

	switch event.Event {
	case domain.EventPaymentCaptured, domain.EventOrderPaid:
		if entity.OrderID == "" {
			log.Printf("[webhook] %s without order_id, acknowledging", event.Event)
			break
		}
		order, err := h.paymentSvc.SettleFromMetadata(entity.OrderID, entity.ID, entity.Notes)
		switch {
		case errors.Is(err, apperr.ErrAlreadyProcessed):
			log.Printf("[webhook] %s for %s already processed", event.Event, entity.OrderID)
		case err != nil:
			log.Printf("[webhook] materialization failed for %s: %v", entity.OrderID, err)
		default:
			log.Printf("[webhook] order %s created for %s", order.OrderNumber, entity.OrderID)
		}

	case domain.EventPaymentFailed:
		reason := entity.ErrorReason
		if reason == "" {
			reason = entity.ErrorDescription
		}
		if reason == "" {
			reason = "unknown"
		}
		if entity.OrderID == "" {
			log.Printf("[webhook] payment.failed without order_id, acknowledging")
			break
		}
		if err := h.paymentSvc.RecordFailure(entity.OrderID, reason); err != nil {
			log.Printf("[webhook] failure handling for %s: %v", entity.OrderID, err)
		}

	default:
		log.Printf("[webhook] ignoring event %s", event.Event)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
