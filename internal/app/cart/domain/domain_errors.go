package domain

import "errors"

var (
	ErrEmptyItemID   = errors.New("cart line requires an item id")
	ErrNegativePrice = errors.New("unit price cannot be negative")
	ErrLineNotFound  = errors.New("item is not in the cart")

	// ErrCorrupt marks a persisted cart that cannot be trusted.
	ErrCorrupt = errors.New("persisted cart is malformed")
)
