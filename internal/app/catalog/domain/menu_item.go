package domain

import (
	"sort"
	"time"
)

// MenuItem mirrors a backend menu item. The engine never mutates it.
type MenuItem struct {
	ID          string
	Name        LocalizedText
	Description LocalizedText
	Price       Money
	CategoryID  string
	Rating      float64
	IsActive    bool
	Available   bool
	CreatedAt   time.Time
}

// Orderable reports whether the item may be shown as promoted or added to a cart.
func (m MenuItem) Orderable() bool {
	return m.IsActive && m.Available
}

// Category groups menu items for display.
type Category struct {
	ID    string
	Name  LocalizedText
	Order int
}

// SortCategories orders categories by display order, then ID.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return categories[i].ID < categories[j].ID
	})
}
