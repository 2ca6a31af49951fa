package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
)

const (
	EventItemCreated          = "item.created"
	EventUserVerified         = "user.verified"
	EventTransactionCompleted = "transaction.completed"
)

// Backend is the broker-specific publishing surface.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// Publisher encodes domain events as JSON envelopes and hands them to a backend.
type Publisher struct {
	backend Backend
	prefix  string
}

func NewPublisher(backend Backend, prefix string) *Publisher {
	return &Publisher{backend: backend, prefix: prefix}
}

// New picks the backend named by MQ_DRIVER. Unknown drivers are an error;
// "none" logs events locally.
func New(ctx context.Context, cfg config.MQConfig) (*Publisher, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case "", "none", "log":
		backend = NewLogBackend()
	case "rabbitmq":
		backend, err = NewRabbitMQClient(cfg.RabbitMQURL)
	case "pubsub":
		backend, err = NewPubSubClient(ctx, cfg.PubSubProjectID)
	default:
		return nil, fmt.Errorf("unsupported mq driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewPublisher(backend, "ecosprout."), nil
}

func (p *Publisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	env := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	id, err := p.backend.Publish(ctx, p.prefix+eventType, data, map[string]string{
		"type":        eventType,
		"eventId":     env.ID,
		"contentType": "application/json",
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	logger.Debug("Published %s event %s (broker id %s)", eventType, env.ID, id)
	return nil
}

func (p *Publisher) Close() error {
	return p.backend.Close()
}
