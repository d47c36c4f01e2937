package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	catalog "github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Line is one item in the order. UnitPrice is captured when the item is first
// added and never re-read from the catalog.
type Line struct {
	ItemID    string        `json:"item_id"`
	Quantity  int           `json:"quantity"`
	UnitPrice catalog.Money `json:"unit_price"`
}

// Total returns Quantity * UnitPrice.
func (l Line) Total() catalog.Money {
	return l.UnitPrice.Multiply(l.Quantity)
}

// Cart is an ordered set of lines, unique by ItemID.
// The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// New builds a cart from lines, checking the uniqueness and positivity
// invariants.
func New(lines []Line) (*Cart, error) {
	c := &Cart{lines: make([]Line, 0, len(lines))}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.ItemID == "" {
			return nil, ErrEmptyItemID
		}
		if _, dup := seen[l.ItemID]; dup {
			return nil, fmt.Errorf("duplicate line for item %s: %w", l.ItemID, ErrCorrupt)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("item %s has quantity %d: %w", l.ItemID, l.Quantity, ErrCorrupt)
		}
		if l.UnitPrice.IsNegative() {
			return nil, ErrNegativePrice
		}
		seen[l.ItemID] = struct{}{}
		c.lines = append(c.lines, l)
	}
	return c, nil
}

func (c *Cart) index(itemID string) int {
	for i, l := range c.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

// Add increments the line for itemID, or appends a new line at unitPrice.
// An existing line keeps its original price.
func (c *Cart) Add(itemID string, unitPrice catalog.Money) error {
	if itemID == "" {
		return ErrEmptyItemID
	}
	if unitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if i := c.index(itemID); i >= 0 {
		c.lines[i].Quantity++
		return nil
	}
	c.lines = append(c.lines, Line{ItemID: itemID, Quantity: 1, UnitPrice: unitPrice})
	return nil
}

// SetQuantity overwrites the quantity of an existing line. qty <= 0 behaves
// like Remove, including for an item that is not in the cart.
func (c *Cart) SetQuantity(itemID string, qty int) error {
	if qty <= 0 {
		c.Remove(itemID)
		return nil
	}
	i := c.index(itemID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Quantity = qty
	return nil
}

// Remove drops the line for itemID. Reports whether a line existed.
func (c *Cart) Remove(itemID string) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Line returns the line for itemID.
func (c *Cart) Line(itemID string) (Line, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Subtotal sums Quantity * UnitPrice over all lines.
func (c *Cart) Subtotal() catalog.Money {
	var total catalog.Money
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Len is the number of distinct items.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Count is the total number of units across lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// MarshalJSON encodes the cart as an array of lines.
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// Decode parses a persisted cart. Any structural problem is reported as
// ErrCorrupt so the caller can discard the value.
func Decode(data []byte) (*Cart, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	c, err := New(lines)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return c, nil
}
