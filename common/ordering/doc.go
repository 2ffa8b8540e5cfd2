// Package ordering implements the atomic, auditable reorder of items that carry a
// position inside a parent collection (race members inside a race, races inside a
// run list).
//
// A reorder names every item of the parent in the desired order. Position i of the
// request becomes order i+1. Validation happens before the store is touched; the
// store then rewrites all orders of the parent in a single transaction under row
// locks, so concurrent reorders of the same parent serialize and the last one to
// commit wins entirely.
package ordering
