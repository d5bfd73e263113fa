package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-webhook-secret"

func TestVerifyPaymentSignature(t *testing.T) {
	orderID := "order_MkWd9qFqXr"
	paymentID := "pay_NkQe8rGr1s"
	sig := SignPayload([]byte(orderID+"|"+paymentID), testSecret)

	assert.True(t, VerifyPaymentSignature(orderID, paymentID, sig, testSecret))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, sig, "other-secret"))
	assert.False(t, VerifyPaymentSignature(orderID, "pay_other", sig, testSecret))
	assert.False(t, VerifyPaymentSignature(orderID, paymentID, "", testSecret))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	sig := SignPayload(body, testSecret)

	assert.True(t, VerifyWebhookSignature(body, sig, testSecret))

	// Any altered byte must invalidate the signature.
	for i := range body {
		altered := append([]byte(nil), body...)
		altered[i] ^= 0x01
		assert.False(t, VerifyWebhookSignature(altered, sig, testSecret), "altered byte %d accepted", i)
	}
}

func TestVerifyWebhookSignatureRejectsReserialization(t *testing.T) {
	body := []byte(`{"event": "payment.captured"}`)
	compact := []byte(`{"event":"payment.captured"}`)
	sig := SignPayload(body, testSecret)

	assert.True(t, VerifyWebhookSignature(body, sig, testSecret))
	assert.False(t, VerifyWebhookSignature(compact, sig, testSecret))
}
