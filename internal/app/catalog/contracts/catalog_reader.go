package contracts

import "github.com/light-bringer/storefront/internal/app/catalog/domain"

// CatalogReader exposes the current catalog to queries and use cases.
// Read models can bypass the store's write path.
type CatalogReader interface {
	// Items returns the currently loaded menu items.
	Items() []domain.MenuItem

	// Item looks up one menu item by ID.
	Item(id string) (domain.MenuItem, bool)

	// Resolve attaches the current promotions to items.
	Resolve(items []domain.MenuItem) []domain.ResolvedEntry
}
