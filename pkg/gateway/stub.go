package gateway

import (
	"context"
	"fmt"
	"time"
)

// StubClient is a no-op client for development and tests; it never talks to
// the network and always reports the intent as created.
type StubClient struct{}

func (s *StubClient) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	return &Intent{
		ID:          fmt.Sprintf("order_stub_%d", time.Now().UnixNano()),
		AmountPaise: req.AmountPaise,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
		Notes:       req.Notes,
	}, nil
}
