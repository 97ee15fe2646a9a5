package inventory

import "context"

// Store is the persistence contract for inventory items. Items are keyed by
// canonical normalized name; quantities never go negative. The two mutation
// methods are the only write path and must be atomic with respect to
// concurrent writers of the same item.
type Store interface {
	// Get returns the item stored under the canonical name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Item, error)

	// List returns every item ordered by canonical name.
	List(ctx context.Context) ([]Item, error)

	// Names returns every canonical name ordered as List does.
	Names(ctx context.Context) ([]string, error)

	// Count returns the number of items.
	Count(ctx context.Context) (int, error)

	// SetQuantity sets the item's quantity to an exact non-negative value and
	// reports the transition.
	SetQuantity(ctx context.Context, name string, quantity int) (*Change, error)

	// AdjustQuantity applies a relative delta. A result below zero is rejected
	// with *NegativeQuantityError and the stored quantity is unchanged.
	AdjustQuantity(ctx context.Context, name string, delta int) (*Change, error)
}
