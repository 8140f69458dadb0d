// Package event publishes domain events to a message broker.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

const (
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

// AMQPPublisher publishes events to a durable topic exchange. Publishing is
// serialized because an AMQP channel must not be shared between goroutines.
type AMQPPublisher struct {
	url        string
	exchange   string
	routingKey string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchange, routingKey string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:        url,
		exchange:   exchange,
		routingKey: routingKey,
	}

	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = channel
	return nil
}

// PublishRecurrenceApplied publishes a recurrence.applied event. A broken connection
// is re-dialed once before giving up.
func (p *AMQPPublisher) PublishRecurrenceApplied(ctx context.Context, event adapter.RecurrenceAppliedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publish(ctx, body)
	if err != nil && isConnectionError(err) {
		slog.WarnContext(ctx, "AMQP connection lost, reconnecting", "error", err)
		p.closeLocked()
		if reconnectErr := p.connect(); reconnectErr != nil {
			return fmt.Errorf("reconnect AMQP: %w", reconnectErr)
		}
		err = p.publish(ctx, body)
	}
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published recurrence event",
		"rule_id", event.RuleID,
		"transaction_id", event.TransactionID,
		"exchange", p.exchange,
		"routing_key", p.routingKey)

	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, body []byte) error {
	if p.channel == nil || p.channel.IsClosed() {
		return amqp091.ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// NoopPublisher discards events. It is used when no broker is configured.
type NoopPublisher struct{}

// PublishRecurrenceApplied does nothing.
func (NoopPublisher) PublishRecurrenceApplied(context.Context, adapter.RecurrenceAppliedEvent) error {
	return nil
}

// exponentialBackoff returns the delay before the given retry attempt, capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if err == amqp091.ErrClosed {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// DialWithRetry connects to the broker, retrying with exponential backoff until
// attempts run out or ctx is done.
func DialWithRetry(ctx context.Context, url, exchange, routingKey string, attempts int) (*AMQPPublisher, error) {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		publisher, err := NewAMQPPublisher(url, exchange, routingKey)
		if err == nil {
			return publisher, nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		wait := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP connection failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}
