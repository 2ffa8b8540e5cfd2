package service

import (
	"context"
	"time"

	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/metrics"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/uuid"
)

// Collection labels used in logs and metrics
const (
	CollectionMembers = "race_members"
	CollectionRaces   = "races"
)

// observe records the outcome of a reorder attempt
func observe(collection string, items int, start time.Time, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = ordering.ReasonOf(err)
	}
	metrics.ObserveReorder(collection, result, items, time.Since(start))
}

// announce publishes the new order of a parent. Failures are logged and
// swallowed: the write already committed.
func announce(ctx context.Context, pub events.Publisher, log *logger.Logger, typ events.Type, parentID, actor uuid.UUID, before, after []uuid.UUID) {
	ev, err := events.New(typ, parentID, actor, before, after)
	if err == nil {
		err = pub.Publish(ctx, ev)
	}
	if err != nil {
		log.Warn("failed to publish roster event", "type", typ, "parent_id", parentID, "error", err)
	}
}
