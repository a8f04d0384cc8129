package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"products-service/internal/adapters/config"
	"products-service/internal/core/domain"
	"products-service/internal/core/logger"
)

// Broker publishes catalog events to RabbitMQ. Each event lands on the
// exchange named after its entity ("exchange.product") with the event name
// as routing key, so consumers can bind to exactly the changes they care
// about ("product.created", "product.deleted", ...).
type Broker struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

func NewBroker(cfg config.RabbitMQConfig) (*Broker, error) {
	broker := &Broker{config: cfg}

	if err := broker.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	return broker, nil
}

func (b *Broker) connect() error {
	conn, err := amqp.Dial(b.config.URL)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareExchanges(ch, b.config.ExchangeConfigs); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	b.conn = conn
	b.channel = ch
	return nil
}

func declareExchanges(ch *amqp.Channel, exchanges []config.ExchangeConfig) error {
	for _, ec := range exchanges {
		if err := ch.ExchangeDeclare(ec.Name, ec.Type, ec.Durable, ec.AutoDelete, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", ec.Name, err)
		}
	}
	return nil
}

func (b *Broker) reconnect() error {
	if b.channel != nil {
		b.channel.Close()
		b.channel = nil
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	return b.connect()
}

func (b *Broker) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "failed to marshal event", err, map[string]any{
			"event_name":  event.GetName(),
			"entity_name": event.GetEntityName(),
		})
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.GetName(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}
	exchange := fmt.Sprintf("exchange.%s", event.GetEntityName())
	routingKey := event.GetName()

	var lastErr error
	for attempt := 0; attempt <= b.config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(b.config.RetryDelay)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := b.tryPublish(ctx, exchange, routingKey, msg); err != nil {
			lastErr = err
			logger.Error(ctx, "publish attempt failed", err, map[string]any{
				"event_name": event.GetName(),
				"exchange":   exchange,
				"attempt":    attempt + 1,
			})
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to publish after %d attempts: %w", b.config.MaxRetries+1, lastErr)
}

// tryPublish makes a single publish attempt. On failure the channel is
// dropped so the next attempt re-establishes it.
func (b *Broker) tryPublish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel == nil {
		if err := b.reconnect(); err != nil {
			return fmt.Errorf("reconnect failed: %w", err)
		}
	}

	if err := b.channel.PublishWithContext(ctx, exchange, routingKey, false, false, msg); err != nil {
		b.channel = nil
		return err
	}
	return nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing channel: %w", err))
		}
		b.channel = nil
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing connection: %w", err))
		}
		b.conn = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ: %v", errs)
	}
	return nil
}

func (b *Broker) HealthCheck() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil || b.conn.IsClosed() {
		return fmt.Errorf("connection is closed")
	}
	if b.channel == nil {
		return fmt.Errorf("channel is nil")
	}
	return nil
}
