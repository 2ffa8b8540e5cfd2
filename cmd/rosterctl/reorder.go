package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/fridaygt/fridaygt/common/listctl"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/google/uuid"
)

// drop is one drag from index From to index To
type drop struct {
	From, To int
}

// planDrops returns the drags that turn current into target. Both lists must
// hold the same ids.
func planDrops(current, target []uuid.UUID) ([]drop, error) {
	if len(current) != len(target) {
		return nil, fmt.Errorf("expected all %d ids, got %d", len(current), len(target))
	}

	work := slices.Clone(current)
	var drops []drop
	for i, id := range target {
		j := slices.Index(work, id)
		if j < 0 {
			return nil, fmt.Errorf("%s is not in the list", id)
		}
		if j < i {
			return nil, fmt.Errorf("%s is listed twice", id)
		}
		if j == i {
			continue
		}
		item := work[j]
		work = slices.Delete(work, j, j+1)
		work = slices.Insert(work, i, item)
		drops = append(drops, drop{From: j, To: i})
	}
	return drops, nil
}

// applyDrops replays drops on a list controller and flushes the resulting save.
// On failure the controller has rolled back and the returned list is the
// last acknowledged order.
func applyDrops(ctx context.Context, current []uuid.UUID, drops []drop, saver listctl.Saver, log *logger.Logger) ([]uuid.UUID, error) {
	ctl := listctl.New(current, saver, listctl.Options{Logger: log})
	defer ctl.Close()

	for _, d := range drops {
		ctl.BeginDrag()
		if err := ctl.Drop(d.From, d.To); err != nil {
			return ctl.List(), err
		}
	}
	if err := ctl.Flush(ctx); err != nil {
		return ctl.List(), err
	}
	return ctl.List(), nil
}
