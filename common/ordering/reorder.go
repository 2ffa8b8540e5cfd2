package ordering

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Reorder validates ids against the children of parentID and, when they form the
// complete set, assigns order i+1 to ids[i] through the store's atomic write.
//
// Validation order: empty list, duplicates, unknown ids, parent mismatch, incomplete set.
// Authorization is the caller's responsibility.
func Reorder(ctx context.Context, store Store, parentID uuid.UUID, ids []uuid.UUID, actor uuid.UUID) error {
	if err := CheckIDs(ids); err != nil {
		return err
	}

	found, err := store.Get(ctx, ids)
	if err != nil {
		return Internal(fmt.Errorf("load items: %w", err))
	}
	if len(found) != len(ids) {
		return NotFound(fmt.Sprintf("unknown ids: %s", joinIDs(missing(ids, found))))
	}

	for _, it := range found {
		if it.ParentID != parentID {
			return Invalid(ReasonParentMismatch,
				fmt.Sprintf("item %s does not belong to %s", it.ID, parentID))
		}
	}

	children, err := store.Children(ctx, parentID)
	if err != nil {
		return Internal(fmt.Errorf("load siblings: %w", err))
	}
	// ids are distinct and all children of parentID, so equal counts mean equal sets
	if len(children) != len(ids) {
		return Invalid(ReasonIncompleteSet,
			fmt.Sprintf("expected all %d items of %s, got %d", len(children), parentID, len(ids)))
	}

	if err := store.ApplyOrder(ctx, parentID, ids, Positions(len(ids)), actor); err != nil {
		if KindOf(err) == KindTransactionFailed {
			return err
		}
		return TransactionFailed(err)
	}
	return nil
}

// InferParent returns the parent shared by every id. It applies the same checks
// as Reorder up to the parent comparison.
func InferParent(ctx context.Context, store Store, ids []uuid.UUID) (uuid.UUID, error) {
	if err := CheckIDs(ids); err != nil {
		return uuid.Nil, err
	}

	found, err := store.Get(ctx, ids)
	if err != nil {
		return uuid.Nil, Internal(fmt.Errorf("load items: %w", err))
	}
	if len(found) != len(ids) {
		return uuid.Nil, NotFound(fmt.Sprintf("unknown ids: %s", joinIDs(missing(ids, found))))
	}

	parent := found[0].ParentID
	for _, it := range found[1:] {
		if it.ParentID != parent {
			return uuid.Nil, Invalid(ReasonParentMismatch, "items belong to different parents")
		}
	}
	return parent, nil
}

// CheckIDs rejects empty lists and duplicate ids
func CheckIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return Invalid(ReasonEmptyList, "ids must not be empty")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return Invalid(ReasonDuplicateIDs, fmt.Sprintf("id %s appears more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ParseIDs parses textual ids, failing on the first malformed one
func ParseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, Invalid(ReasonInvalidBody, fmt.Sprintf("malformed id %q", s))
		}
		ids[i] = id
	}
	return ids, nil
}

func missing(ids []uuid.UUID, found []Item) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, it := range found {
		have[it.ID] = struct{}{}
	}
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
