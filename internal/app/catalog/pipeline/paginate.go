package pipeline

import "github.com/light-bringer/storefront/internal/app/catalog/domain"

// TotalPages is ceil(count / pageSize). A non-positive page size yields 0.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of items. Pages outside the range are empty.
func Paginate(items []domain.MenuItem, page, pageSize int) []domain.MenuItem {
	if page < 1 || pageSize <= 0 {
		return []domain.MenuItem{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []domain.MenuItem{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ValidPage reports whether page may be selected when totalPages exist.
// With no results the first page is still valid.
func ValidPage(page, totalPages int) bool {
	if totalPages < 1 {
		totalPages = 1
	}
	return page >= 1 && page <= totalPages
}
