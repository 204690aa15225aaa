package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrBrokerUnavailable is returned while publishes are backing off after a
// failed dial.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable")

// Publisher delivers auth events. Callers treat failures as best effort.
type Publisher interface {
	Publish(ctx context.Context, event AuthEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when EVENTS_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuthEvent) error { return nil }
func (NopPublisher) Close() error { return nil }

const (
	// publishDialTimeout bounds connect plus handshake; publishes run on the
	// login path.
	publishDialTimeout = 2 * time.Second
	// redialBackoff is how long publishes fail fast after a failed dial.
	redialBackoff = 5 * time.Second
)

// AMQPPublisher publishes persistent JSON messages to the auth events queue.
// The connection is opened on first use and reopened after a failure.
type AMQPPublisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
	backoff     time.Duration
	now         func() time.Time

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewAMQPPublisher does not dial; the broker may come up after the API.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		queue:       AuthEventsQueue,
		dialTimeout: publishDialTimeout,
		backoff:     redialBackoff,
		now:         time.Now,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event AuthEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		log.Printf("rabbitmq: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", event.Type, err)
		p.reset()
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()

	if now := p.now(); now.Before(p.retryAt) {
		return fmt.Errorf("%w: next dial in %s", ErrBrokerUnavailable, p.retryAt.Sub(now).Round(time.Millisecond))
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		p.retryAt = p.now().Add(p.backoff)
		return fmt.Errorf("dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.retryAt = p.now().Add(p.backoff)
		return fmt.Errorf("channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		p.retryAt = p.now().Add(p.backoff)
		return fmt.Errorf("queue declare failed: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.retryAt = time.Time{}
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection, if any.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
