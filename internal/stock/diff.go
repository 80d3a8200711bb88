package stock

import "github.com/google/uuid"

// Diff computes the signed stock delta per product when an aggregate's item
// set is replaced. Keys map product id to the quantity sold before (old) and
// after (new) the edit. A positive delta means stock must be credited back,
// a negative delta means additional stock must be deducted.
//
// Products only in old: full credit. Products only in new: full debit.
// Products in both: only the difference moves.
func Diff(old, new map[uuid.UUID]int) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int, len(old)+len(new))
	for id, qty := range old {
		deltas[id] += qty
	}
	for id, qty := range new {
		deltas[id] -= qty
	}
	for id, delta := range deltas {
		if delta == 0 {
			delete(deltas, id)
		}
	}
	return deltas
}
