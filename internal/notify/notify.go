// Package notify publishes ticket lifecycle messages to RabbitMQ for the
// document and export consumers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vietanh2810/ticktopia-api/internal/config"
)

type MessageType string

const (
	TicketIssued      MessageType = "ticket.issued"
	TicketRedeemed    MessageType = "ticket.redeemed"
	TicketDeactivated MessageType = "ticket.deactivated"
)

type Message struct {
	Type           MessageType `json:"type"`
	TicketID       uuid.UUID   `json:"ticket_id"`
	PresentationID uuid.UUID   `json:"presentation_id"`
	UserID         uuid.UUID   `json:"user_id"`
	Quantity       int         `json:"quantity"`
	OccurredAt     time.Time   `json:"occurred_at"`
}

// Publisher sends messages to one durable queue over a single channel.
// amqp channels are not safe for concurrent publishing, hence the mutex.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

var ErrNotConfigured = errors.New("rabbitmq url not configured")

func Dial(conf *config.RabbitMQConfig) (*Publisher, error) {
	if conf == nil || conf.URL == "" {
		return nil, ErrNotConfigured
	}

	conn, err := amqp.Dial(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp.Dial -> %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("conn.Channel -> %w", err)
	}

	if _, err = ch.QueueDeclare(conf.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("ch.QueueDeclare -> %w", err)
	}

	return &Publisher{conn: conn, ch: ch, queue: conf.Queue}, nil
}

func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.OccurredAt,
		Type:         string(msg.Type),
		MessageId:    uuid.NewString(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("p.ch.PublishWithContext -> %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("p.ch.Close -> %w", err)
	}

	return p.conn.Close()
}

// Nop drops every message. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Message) error {
	return nil
}
