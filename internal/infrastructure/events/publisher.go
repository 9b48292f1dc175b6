package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	SaleRecorded    = "sale.recorded"
	ShiftOpened     = "shift.opened"
	ShiftClosed     = "shift.closed"
	BackupRequested = "backup.requested"

	channelPrefix = "pos:events:"
	channelAll    = "pos:events:all"
)

// Event is the JSON envelope published for every domain event
type Event struct {
	Type       string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

// Publisher broadcasts domain events to interested listeners
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher publishes each event on its own channel and on pos:events:all
func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, channelPrefix+eventType, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := p.client.Publish(ctx, channelAll, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}

	return nil
}

type noopPublisher struct{}

// NewNoopPublisher drops every event
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	return nil
}
