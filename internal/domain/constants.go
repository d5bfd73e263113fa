package domain

const (
	PaymentStatusCreated = "created"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

const (
	VerifiedViaClient  = "client-verify"
	VerifiedViaWebhook = "webhook"
)

const (
	PaymentMethodOnline = "Online"
	PaymentMethodCOD    = "COD"
)

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Webhook event types as delivered by the gateway.
const (
	EventPaymentCaptured = "payment.captured"
	EventOrderPaid       = "order.paid"
	EventPaymentFailed   = "payment.failed"
)

// Machine-readable failure codes recorded on a payment intent.
const (
	ErrCodeSignatureMismatch = "SIGNATURE_MISMATCH"
	ErrCodeAmountMismatch    = "AMOUNT_MISMATCH"
	ErrCodePriceMismatch     = "PRICE_MISMATCH"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeVariantNotFound   = "VARIANT_NOT_FOUND"
	ErrCodeAddressInvalid    = "ADDRESS_INVALID"
	ErrCodeGatewayError      = "GATEWAY_ERROR"
	ErrCodeUnknown           = "UNKNOWN"
)

// MinBillableArea is the floor for per-area billing: line items with an area
// below this are billed as if they covered exactly this much, so near-zero
// areas can never price a line near zero. Items without an area bill as 1.
const MinBillableArea = 1.0
