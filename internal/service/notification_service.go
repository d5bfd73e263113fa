package service

import (
	"log"

	"decora/internal/models"
	"decora/pkg/queue"
)

// Enqueuer is the narrow surface of the notification dispatcher. A nil
// *queue.Publisher satisfies it and reports unavailable, which callers treat
// as non-fatal.
type Enqueuer interface {
	Enqueue(kind string, job queue.Job) (string, error)
}

// NotificationService hands template data to the dispatcher's queue. Failures
// here are logged and swallowed: a lost mail must never fail a request or a
// webhook acknowledgment.
type NotificationService struct {
	queue Enqueuer
}

func NewNotificationService(q Enqueuer) *NotificationService {
	return &NotificationService{queue: q}
}

func (s *NotificationService) OrderConfirmed(userID uint, order *models.Order) {
	s.enqueue("order-confirmed", queue.Job{
		Subject: "Your order " + order.OrderNumber + " is confirmed",
		TemplateData: map[string]interface{}{
			"user_id":      userID,
			"order_number": order.OrderNumber,
			"total_paise":  order.TotalPaise,
		},
	})
}

func (s *NotificationService) PaymentFailed(userID uint, gatewayOrderID, reason string) {
	s.enqueue("payment-failed", queue.Job{
		Subject: "Your payment could not be completed",
		TemplateData: map[string]interface{}{
			"user_id":          userID,
			"gateway_order_id": gatewayOrderID,
			"reason":           reason,
		},
	})
}

func (s *NotificationService) enqueue(kind string, job queue.Job) {
	if s == nil || s.queue == nil {
		return
	}
	if _, err := s.queue.Enqueue(kind, job); err != nil {
		log.Printf("[notify] enqueue %s failed: %v", kind, err)
	}
}
