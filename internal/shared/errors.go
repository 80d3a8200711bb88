// Package shared holds the error taxonomy every domain module maps onto.
package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate unique key or a state that
	// forbids the requested change (e.g. editing a paid sale).
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument indicates an unparseable enum token or an
	// otherwise invalid request value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientStock indicates a sale would drive product stock
	// below zero. Concrete occurrences carry InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConcurrency indicates a stale concurrent edit detected by the store.
	ErrConcurrency = errors.New("concurrent modification")
)

// InsufficientStockError reports which product could not cover a sale line.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientStock) match typed occurrences.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
