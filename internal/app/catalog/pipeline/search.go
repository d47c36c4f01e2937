package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Search keeps items whose name or description contains query, ignoring case.
// An empty query keeps everything.
func Search(items []domain.MenuItem, query, lang string) []domain.MenuItem {
	fold := cases.Fold()
	needle := normalize(fold, query)
	if needle == "" {
		return items
	}

	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(normalize(fold, item.Name.In(lang)), needle) ||
			strings.Contains(normalize(fold, item.Description.In(lang)), needle) {
			out = append(out, item)
		}
	}
	return out
}

func normalize(fold cases.Caser, s string) string {
	return fold.String(norm.NFC.String(strings.TrimSpace(s)))
}
