package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultDialTimeout   = 2 * time.Second
	defaultRedialBackoff = 5 * time.Second
)

var errBrokerBackoff = errors.New("broker unavailable, backing off")

// Publisher sends moderation events to a durable queue. The connection is
// opened on first use and re-opened after the broker drops it. After a failed
// dial, publishes fail fast until the backoff elapses.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger

	dialTimeout   time.Duration // covers TCP connect and the AMQP handshake
	redialBackoff time.Duration

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	return &Publisher{
		url:           url,
		queue:         queue,
		log:           log,
		dialTimeout:   defaultDialTimeout,
		redialBackoff: defaultRedialBackoff,
	}
}

// PublishModeration marshals ev and publishes it as a persistent message.
func (p *Publisher) PublishModeration(ctx context.Context, ev ModerationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal moderation event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish moderation event: %w", err)
	}
	return nil
}

// channel must be called with mu held.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	now := time.Now()
	if now.Before(p.retryAt) {
		return nil, errBrokerBackoff
	}
	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("dial broker: %w", context.DeadlineExceeded)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		p.retryAt = now.Add(p.redialBackoff)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	p.retryAt = time.Time{}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.log.Info("moderation publisher connected", zap.String("queue", p.queue))
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// NopPublisher drops events; used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishModeration(context.Context, ModerationEvent) error { return nil }
