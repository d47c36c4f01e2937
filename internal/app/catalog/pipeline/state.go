// Package pipeline reduces a full catalog to the page a customer is looking at.
//
// Stages run in a fixed order: category filter, text search on the debounced
// query, sort, paginate. Sorting sees the whole filtered set so page boundaries
// only move when the filter inputs do.
package pipeline

import (
	"errors"
	"strings"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// DefaultPageSize is the number of items shown per page.
const DefaultPageSize = 12

// Validation errors. Setters that return them leave the state unchanged.
var (
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)

// SortField is a column the catalog can be ordered by.
type SortField string

const (
	SortByName       SortField = "name"
	SortByPrice      SortField = "price"
	SortByCreated    SortField = "created"
	SortByPopularity SortField = "popularity"
)

// ParseSortField validates a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByName, SortByPrice, SortByCreated, SortByPopularity:
		return f, nil
	}
	return "", ErrUnknownSortField
}

// SortOrder is either ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder validates a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, nil
	}
	return "", ErrUnknownSortOrder
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// State is the filter, search, sort and page selection of one browsing session.
type State struct {
	Category       string
	Query          string
	DebouncedQuery string
	SortField      SortField
	SortOrder      SortOrder
	Page           int
	PageSize       int
	Language       string
}

// DefaultState shows every category sorted by name, first page.
func DefaultState() State {
	return State{
		Category:  AllCategories,
		SortField: SortByName,
		SortOrder: Asc,
		Page:      1,
		PageSize:  DefaultPageSize,
		Language:  domain.DefaultLanguage,
	}
}

// Result is one rendered page.
type Result struct {
	Items      []domain.MenuItem
	Total      int
	TotalPages int
	Page       int
}

// Run applies every stage to items. It does not modify items or state.
func Run(items []domain.MenuItem, state State) Result {
	matched := Search(FilterByCategory(items, state.Category), state.DebouncedQuery, state.Language)
	sorted := Sort(matched, state.SortField, state.SortOrder, state.Language)
	return Result{
		Items:      Paginate(sorted, state.Page, state.PageSize),
		Total:      len(sorted),
		TotalPages: TotalPages(len(sorted), state.PageSize),
		Page:       state.Page,
	}
}
