// Package stock applies quantity deltas to product stock and enforces the
// non-negative-on-sale rule. All mutations are relative deltas so that sale
// edits net out per-product changes instead of blindly overwriting.
package stock

import (
	"context"

	"github.com/google/uuid"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

// ProductStock is the slice of a product the ledger needs.
type ProductStock struct {
	ID       uuid.UUID
	Name     string
	Quantity int
}

// ProductStore is implemented by transaction-bound repositories. The ledger
// issues all reads and writes through it so the caller controls atomicity.
type ProductStore interface {
	ProductStock(ctx context.Context, id uuid.UUID) (ProductStock, error)
	// AddProductQuantity applies a signed delta and refreshes the
	// product's UpdatedAt.
	AddProductQuantity(ctx context.Context, id uuid.UUID, delta int) error
}

// Ledger coordinates stock movements for sale paths.
type Ledger struct {
	store ProductStore
}

// NewLedger builds a Ledger over the given store.
func NewLedger(store ProductStore) *Ledger {
	return &Ledger{store: store}
}

// Deduct removes qty from the product's stock after verifying availability.
// Driving stock negative on a sale path is rejected with an
// InsufficientStockError carrying the requested and available quantities.
func (l *Ledger) Deduct(ctx context.Context, productID uuid.UUID, qty int) error {
	p, err := l.store.ProductStock(ctx, productID)
	if err != nil {
		return err
	}
	if p.Quantity < qty {
		return &shared.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   qty,
			Available:   p.Quantity,
		}
	}
	return l.store.AddProductQuantity(ctx, productID, -qty)
}

// Restore credits qty back to the product's stock. Used when items are
// removed from a sale or a non-paid sale is deleted.
func (l *Ledger) Restore(ctx context.Context, productID uuid.UUID, qty int) error {
	return l.store.AddProductQuantity(ctx, productID, qty)
}

// Apply reconciles a set of per-product deltas. Credits are applied first so
// an edit that shifts quantity between lines of the same product cannot fail
// spuriously; debits then go through the availability check. The caller must
// run Apply inside a transaction: a failed debit aborts with earlier credits
// rolled back by the enclosing transaction.
func (l *Ledger) Apply(ctx context.Context, deltas map[uuid.UUID]int) error {
	for id, delta := range deltas {
		if delta > 0 {
			if err := l.Restore(ctx, id, delta); err != nil {
				return err
			}
		}
	}
	for id, delta := range deltas {
		if delta < 0 {
			if err := l.Deduct(ctx, id, -delta); err != nil {
				return err
			}
		}
	}
	return nil
}
