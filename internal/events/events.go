// Package events publishes portal activity to a message broker.
//
// Publishing is best-effort: the portal works without a broker, and a
// failed publish is logged but never fails the request that caused it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for portal events.
const (
	ItemReported   = "item.reported"
	ClaimSubmitted = "claim.submitted"
	ClaimReviewed  = "claim.reviewed"
)

// Publisher sends JSON events to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher connects to the broker and declares the exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %q: %w", exchange, err)
	}

	slog.Info("Event publisher connected", "exchange", exchange)
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends payload as a persistent JSON message under routingKey.
// A nil Publisher silently drops events, so callers never need to check
// whether eventing is configured.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) {
	if p == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal event", "routing_key", routingKey, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		slog.Error("Failed to publish event", "routing_key", routingKey, "error", err)
		return
	}

	slog.Debug("Published event", "routing_key", routingKey, "bytes", len(body))
}

// Close shuts down the broker connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
