package main

import (
	"context"
	"fmt"

	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/logger"
	rediscommon "github.com/fridaygt/fridaygt/common/redis"
)

// Subscriber forwards roster events from Redis pub/sub to the hub
type Subscriber struct {
	redis *rediscommon.Client
	hub   *Hub
	log   *logger.Logger
}

// NewSubscriber creates a new Subscriber instance
func NewSubscriber(client *rediscommon.Client, hub *Hub, log *logger.Logger) *Subscriber {
	return &Subscriber{
		redis: client,
		hub:   hub,
		log:   log,
	}
}

// Start listens on every roster channel until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	pubsub := s.redis.PSubscribe(ctx, events.ChannelPattern)
	defer pubsub.Close()

	// Wait for confirmation that subscription was successful
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.ChannelPattern, err)
	}
	s.log.Info("redis subscription confirmed", "pattern", events.ChannelPattern)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("redis subscriber stopping")
			return nil

		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.forward(msg.Channel, []byte(msg.Payload))
		}
	}
}

// forward validates one payload and hands it to the hub
func (s *Subscriber) forward(channel string, payload []byte) {
	parent, ok := events.ParentFromChannel(channel)
	if !ok {
		s.log.Warn("invalid channel format", "channel", channel)
		return
	}

	ev, err := events.Decode(payload)
	if err != nil {
		s.log.Warn("dropping malformed roster event", "channel", channel, "error", err)
		return
	}
	if ev.ParentID != parent {
		s.log.Warn("roster event published on foreign channel", "channel", channel, "parent_id", ev.ParentID)
		return
	}

	s.log.Debug("roster event received", "type", ev.Type, "parent_id", parent, "size", len(payload))
	s.hub.Broadcast(parent, payload)
}
