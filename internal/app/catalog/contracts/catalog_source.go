package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Resource names one of the catalog collections served by the backend.
type Resource string

const (
	ResourceMenuItems  Resource = "menu_items"
	ResourceCategories Resource = "categories"
	ResourcePromotions Resource = "promotions"
)

// Resources lists every catalog collection in load order.
var Resources = []Resource{ResourceMenuItems, ResourceCategories, ResourcePromotions}

// ErrUnknownResource is returned for a resource name outside Resources.
var ErrUnknownResource = errors.New("unknown catalog resource")

// ParseResource accepts a resource name or its backend path.
func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if s == string(r) || s == r.Path() {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

// Valid reports whether r is one of Resources.
func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

// Path returns the backend collection path segment.
func (r Resource) Path() string {
	switch r {
	case ResourceMenuItems:
		return "menu-items"
	default:
		return string(r)
	}
}

// CatalogSource loads catalog collections from the backend.
// Implementations return an empty, non-nil slice when the backend has no data.
type CatalogSource interface {
	MenuItems(ctx context.Context) ([]domain.MenuItem, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Promotions(ctx context.Context) ([]domain.Promotion, error)
}
