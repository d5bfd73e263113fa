package gateway

import (
	"context"
)

// IntentRequest describes a payment intent to be opened with the gateway.
// Amount is in minor currency units (paise). Notes travel with the gateway
// order and come back on webhook events.
type IntentRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Intent is the gateway-side order the customer pays against.
type Intent struct {
	ID          string            `json:"id"`
	AmountPaise int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Status      string            `json:"status"`
	Notes       map[string]string `json:"notes,omitempty"`
}

type Client interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
