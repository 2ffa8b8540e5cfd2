// Package events carries roster changes to realtime subscribers over Redis pub/sub.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
)

// ChannelPrefix is followed by the parent collection id
const ChannelPrefix = "roster:events:"

// ChannelPattern matches every roster channel
const ChannelPattern = ChannelPrefix + "*"

// Type of a roster event
type Type string

const (
	MembersReordered Type = "members.reordered"
	MemberAdded      Type = "members.added"
	MemberRemoved    Type = "members.removed"
	RacesReordered   Type = "races.reordered"
	RaceAdded        Type = "races.added"
	RaceRemoved      Type = "races.removed"
)

// RosterEvent announces the new order of one parent collection. Patch is an RFC 7386
// merge patch that turns the previous order map into Order; removed ids map to null.
type RosterEvent struct {
	Type     Type            `json:"type"`
	ParentID uuid.UUID       `json:"parentId"`
	ActorID  uuid.UUID       `json:"actorId"`
	Order    map[string]int  `json:"order"`
	Patch    json.RawMessage `json:"patch,omitempty"`
	At       time.Time       `json:"at"`
}

// Channel returns the pub/sub channel for parentID
func Channel(parentID uuid.UUID) string {
	return ChannelPrefix + parentID.String()
}

// ParentFromChannel extracts the parent id from a channel name
// Example: "roster:events:6f1c…" → 6f1c…
func ParentFromChannel(channel string) (uuid.UUID, bool) {
	rest, ok := strings.CutPrefix(channel, ChannelPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// OrderMap maps each id to its 1-based position
func OrderMap(ids []uuid.UUID) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id.String()] = i + 1
	}
	return m
}

// Diff returns the merge patch from before to after
func Diff(before, after map[string]int) (json.RawMessage, error) {
	if before == nil {
		before = map[string]int{}
	}
	if after == nil {
		after = map[string]int{}
	}
	orig, err := json.Marshal(before)
	if err != nil {
		return nil, err
	}
	mod, err := json.Marshal(after)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(orig, mod)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return patch, nil
}

// New builds an event for a parent whose order went from before to after
func New(typ Type, parentID, actorID uuid.UUID, before, after []uuid.UUID) (RosterEvent, error) {
	order := OrderMap(after)
	patch, err := Diff(OrderMap(before), order)
	if err != nil {
		return RosterEvent{}, err
	}
	return RosterEvent{
		Type:     typ,
		ParentID: parentID,
		ActorID:  actorID,
		Order:    order,
		Patch:    patch,
		At:       time.Now().UTC(),
	}, nil
}

// Decode parses a published payload
func Decode(payload []byte) (RosterEvent, error) {
	var ev RosterEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return RosterEvent{}, fmt.Errorf("decode roster event: %w", err)
	}
	return ev, nil
}
