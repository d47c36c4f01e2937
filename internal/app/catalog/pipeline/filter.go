package pipeline

import "github.com/light-bringer/storefront/internal/app/catalog/domain"

// FilterByCategory keeps items of the given category. AllCategories and the
// empty string keep everything.
func FilterByCategory(items []domain.MenuItem, category string) []domain.MenuItem {
	if category == "" || category == AllCategories {
		return items
	}
	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if item.CategoryID == category {
			out = append(out, item)
		}
	}
	return out
}
