package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/metrics"
	"github.com/fridaygt/fridaygt/common/redis"
)

// Publisher delivers roster events
type Publisher interface {
	Publish(ctx context.Context, ev RosterEvent) error
}

// RedisPublisher publishes events on the parent's channel
type RedisPublisher struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisPublisher creates a publisher over client
func NewRedisPublisher(client *redis.Client, log *logger.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev RosterEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal roster event: %w", err)
	}

	err = p.client.PublishEvent(ctx, Channel(ev.ParentID), data)
	metrics.EventPublished(err)
	if err != nil {
		return err
	}

	p.log.Debug("roster event published", "type", ev.Type, "parent_id", ev.ParentID, "items", len(ev.Order))
	return nil
}

// NopPublisher drops events (no Redis configured)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, RosterEvent) error { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	Events []RosterEvent
}

func (r *Recorder) Publish(_ context.Context, ev RosterEvent) error {
	r.Events = append(r.Events, ev)
	return nil
}
