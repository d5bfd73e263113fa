package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

var ErrUnavailable = errors.New("queue unavailable")

// Job is one notification unit of work for a downstream worker. TemplateData
// is rendered by the dispatcher's consumer, not here.
type Job struct {
	ID           string                 `json:"id"`
	Kind         string                 `json:"kind"`
	To           string                 `json:"to,omitempty"`
	Subject      string                 `json:"subject,omitempty"`
	TemplateData map[string]interface{} `json:"template_data,omitempty"`
	EnqueuedAt   time.Time              `json:"enqueued_at"`
}

// Publisher pushes jobs onto a durable topic exchange. A nil Publisher or a
// lost connection degrades to ErrUnavailable; callers treat that as non-fatal.
type Publisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to the broker and declares the exchange. An empty URL
// returns (nil, nil): notifications disabled.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	p := &Publisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("amqp exchange declare: %w", err)
	}
	p.mu.Lock()
	p.conn = conn
	p.channel = ch
	p.mu.Unlock()
	return nil
}

// Enqueue publishes a job and returns its id. Never panics on a nil receiver.
func (p *Publisher) Enqueue(kind string, job Job) (string, error) {
	if p == nil {
		return "", ErrUnavailable
	}
	p.mu.Lock()
	ch := p.channel
	closed := p.conn == nil || p.conn.IsClosed()
	p.mu.Unlock()
	if closed {
		if err := p.connect(); err != nil {
			return "", ErrUnavailable
		}
		p.mu.Lock()
		ch = p.channel
		p.mu.Unlock()
	}

	job.Kind = kind
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	body, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	err = ch.Publish(
		p.exchange,
		"notify."+kind,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Timestamp:    job.EnqueuedAt,
		},
	)
	if err != nil {
		log.Printf("[queue] publish %s failed: %v", kind, err)
		return "", ErrUnavailable
	}
	return job.ID, nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
