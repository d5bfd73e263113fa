package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayload returns the hex HMAC-SHA256 of payload under secret.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks the client-verify callback signature, which
// the gateway computes over "orderID|paymentID".
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	expected := SignPayload([]byte(orderID+"|"+paymentID), secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// VerifyWebhookSignature checks the webhook signature over the exact raw
// request body. The body must not be re-serialized before verification.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := SignPayload(body, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
