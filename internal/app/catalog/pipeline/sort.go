package pipeline

import (
	"sort"
	"strings"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Sort returns a sorted copy of items. Equal keys fall back to item ID so the
// order is stable across calls.
func Sort(items []domain.MenuItem, field SortField, order SortOrder, lang string) []domain.MenuItem {
	out := make([]domain.MenuItem, len(items))
	copy(out, items)

	cmp := comparator(field, lang)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if c == 0 {
			c = strings.Compare(out[i].ID, out[j].ID)
			// the tie-break stays ascending so a toggle only reverses real keys
			return c < 0
		}
		if order == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func comparator(field SortField, lang string) func(a, b domain.MenuItem) int {
	switch field {
	case SortByPrice:
		return func(a, b domain.MenuItem) int { return compareInt(a.Price.Int64(), b.Price.Int64()) }
	case SortByCreated:
		return func(a, b domain.MenuItem) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByPopularity:
		return func(a, b domain.MenuItem) int { return compareFloat(a.Rating, b.Rating) }
	default:
		return func(a, b domain.MenuItem) int { return strings.Compare(a.Name.In(lang), b.Name.In(lang)) }
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
