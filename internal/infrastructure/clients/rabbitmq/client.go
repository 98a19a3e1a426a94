package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/pkg/config"
	"github.com/smartlocalbusiness/backend/pkg/retry"
)

// Client holds one AMQP connection and a publishing channel.
// Channels are not safe for concurrent publishes, so Publish serializes.
type Client struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	mu    sync.Mutex
}

// NewClient dials the broker and declares the durable queue
func NewClient(cfg *config.RabbitMQConfig) (*Client, error) {
	var conn *amqp.Connection
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 5
	retryCfg.MaxTotalTimeout = 20 * time.Second

	err := retry.DoWithLog(context.Background(), retryCfg, "RabbitMQ",
		func() error {
			c, err := amqp.Dial(cfg.URL)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).
				Msg("RabbitMQ connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}

	log.Info().Str("queue", cfg.Queue).Msg("Connected to RabbitMQ")
	return &Client{conn: conn, ch: ch, queue: cfg.Queue}, nil
}

// Publish sends a persistent JSON message to the configured queue
func (c *Client) Publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ch.PublishWithContext(ctx, "", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Queue returns the queue name messages are routed to
func (c *Client) Queue() string {
	return c.queue
}

// Close closes the channel and connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
