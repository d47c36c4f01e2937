package domain

import "errors"

// Domain errors as sentinel values
var (
	// Catalog errors
	ErrItemNotFound     = errors.New("menu item not found")
	ErrItemNotOrderable = errors.New("menu item is not available for ordering")

	// Discount errors
	ErrInvalidPercentage = errors.New("discount percentage must be between 0 and 100")
	ErrNegativeAmount    = errors.New("discount amount cannot be negative")
)
