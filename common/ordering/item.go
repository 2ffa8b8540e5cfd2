package ordering

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Item is a row that holds a position inside one parent collection
type Item struct {
	ID        uuid.UUID
	ParentID  uuid.UUID
	Order     int
	UpdatedAt time.Time
	UpdatedBy *uuid.UUID
}

// Positions returns the order values 1..n assigned to a request of length n
func Positions(n int) []int {
	orders := make([]int, n)
	for i := range orders {
		orders[i] = i + 1
	}
	return orders
}

// SortByOrder sorts items by Order, breaking ties by ID so the result is stable
// even on collections that carry gaps or collisions from older writes.
func SortByOrder(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// IDs returns the item ids in slice order
func IDs(items []Item) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
