package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"decora/internal/domain"
)

func TestCode(t *testing.T) {
	wrapped := fmt.Errorf("line 2: %w", ErrInsufficientStock)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "signature", err: ErrSignatureMismatch, want: domain.ErrCodeSignatureMismatch},
		{name: "amount", err: ErrAmountMismatch, want: domain.ErrCodeAmountMismatch},
		{name: "price", err: ErrPriceMismatch, want: domain.ErrCodePriceMismatch},
		{name: "stock", err: ErrInsufficientStock, want: domain.ErrCodeInsufficientStock},
		{name: "stock_wrapped", err: wrapped, want: domain.ErrCodeInsufficientStock},
		{name: "variant", err: ErrVariantNotFound, want: domain.ErrCodeVariantNotFound},
		{name: "address", err: ErrAddressInvalid, want: domain.ErrCodeAddressInvalid},
		{name: "gateway", err: ErrGateway, want: domain.ErrCodeGatewayError},
		{name: "unknown", err: errors.New("boom"), want: domain.ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", ErrPriceMismatch)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "signature", err: ErrSignatureMismatch, want: http.StatusBadRequest},
		{name: "price_wrapped", err: wrapped, want: http.StatusBadRequest},
		{name: "variant", err: ErrVariantNotFound, want: http.StatusNotFound},
		{name: "payment_not_found", err: ErrPaymentNotFound, want: http.StatusNotFound},
		{name: "gateway", err: ErrGateway, want: http.StatusBadGateway},
		{name: "no_transaction", err: ErrNoTransaction, want: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
