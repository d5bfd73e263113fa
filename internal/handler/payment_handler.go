package handler

import (
	"errors"
	"net/http"

	"decora/internal/apperr"
	"decora/internal/middleware"
	"decora/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentSvc *service.PaymentService
}

func NewPaymentHandler(paymentSvc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// CreateOrder opens a gateway intent for the checkout and returns it together
// with the recorded payment, so the client can hand the intent to the
// gateway's checkout widget.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID := middleware.GetUserID(c)

	intent, payment, err := h.paymentSvc.CreatePaymentOrder(c.Request.Context(), userID, in)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment order created",
		"order":   intent,
		"payment": payment,
	})
}

// Verify is the client-verify reconciliation entry point, called by the
// paying browser after the gateway redirects back.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var in service.VerifyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gateway_order_id, gateway_payment_id and signature are required"})
		return
	}
	userID := middleware.GetUserID(c)

	payment, order, err := h.paymentSvc.VerifyPayment(c.Request.Context(), userID, in)
	if err != nil {
		if errors.Is(err, apperr.ErrSignatureMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment verification failed"})
			return
		}
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment verified & order created",
		"payment": payment,
		"order":   order,
	})
}
