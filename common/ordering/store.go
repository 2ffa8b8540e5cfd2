package ordering

import (
	"context"

	"github.com/google/uuid"
)

// Store persists orderable items of one collection kind
type Store interface {
	// Get returns the items with the given ids. Unknown ids are omitted.
	Get(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// Children returns every item of parentID sorted by order.
	Children(ctx context.Context, parentID uuid.UUID) ([]Item, error)

	// ApplyOrder sets orders[i] on ids[i] for every id, stamping updated_at/updated_by,
	// as one all-or-nothing transaction holding write locks on the parent's rows.
	// Any failure is returned as a TransactionFailed error and nothing is changed.
	ApplyOrder(ctx context.Context, parentID uuid.UUID, ids []uuid.UUID, orders []int, actor uuid.UUID) error
}
