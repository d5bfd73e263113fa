package apperr

import (
	"errors"
	"net/http"

	"decora/internal/domain"
)

var (
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrAmountMismatch    = errors.New("payment amount mismatch")
	ErrPriceMismatch     = errors.New("line item price mismatch")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrAddressInvalid    = errors.New("invalid address")
	ErrInvalidCheckout   = errors.New("invalid checkout")
	ErrProductNotFound   = errors.New("product not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrGateway           = errors.New("gateway request failed")
	ErrNoTransaction     = errors.New("materializer requires an active transaction")

	// ErrAlreadyProcessed is the idempotency short-circuit, not a failure:
	// another path already claimed the payment and materialized the order.
	ErrAlreadyProcessed = errors.New("payment already processed")
)

// Code maps an error chain to the machine-readable code stored on a failed
// payment intent.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSignatureMismatch):
		return domain.ErrCodeSignatureMismatch
	case errors.Is(err, ErrAmountMismatch):
		return domain.ErrCodeAmountMismatch
	case errors.Is(err, ErrPriceMismatch):
		return domain.ErrCodePriceMismatch
	case errors.Is(err, ErrInsufficientStock):
		return domain.ErrCodeInsufficientStock
	case errors.Is(err, ErrVariantNotFound):
		return domain.ErrCodeVariantNotFound
	case errors.Is(err, ErrAddressInvalid):
		return domain.ErrCodeAddressInvalid
	case errors.Is(err, ErrGateway):
		return domain.ErrCodeGatewayError
	default:
		return domain.ErrCodeUnknown
	}
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrSignatureMismatch),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrPriceMismatch),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrAddressInvalid),
		errors.Is(err, ErrInvalidCheckout):
		return http.StatusBadRequest
	case errors.Is(err, ErrVariantNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
