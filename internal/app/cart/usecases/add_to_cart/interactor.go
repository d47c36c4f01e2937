package add_to_cart

import (
	"context"
	"fmt"

	"github.com/light-bringer/storefront/internal/app/cart/store"
	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	catalog "github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Request names the item to add.
type Request struct {
	ItemID string
}

// Response reports the line after the add.
type Response struct {
	ItemID    string
	Quantity  int
	UnitPrice catalog.Money
	Subtotal  catalog.Money
}

// Interactor handles the add to cart use case.
type Interactor struct {
	catalog contracts.CatalogReader
	cart    *store.Store
}

// NewInteractor creates a new add to cart interactor.
func NewInteractor(reader contracts.CatalogReader, cart *store.Store) *Interactor {
	return &Interactor{catalog: reader, cart: cart}
}

// Execute looks the item up in the current catalog, prices it with any active
// promotion and adds one unit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	item, ok := i.catalog.Item(req.ItemID)
	if !ok {
		return nil, fmt.Errorf("item %s: %w", req.ItemID, catalog.ErrItemNotFound)
	}
	if !item.Orderable() {
		return nil, fmt.Errorf("item %s: %w", req.ItemID, catalog.ErrItemNotOrderable)
	}

	price := item.Price
	if entries := i.catalog.Resolve([]catalog.MenuItem{item}); len(entries) == 1 {
		price = entries[0].EffectivePrice()
	}

	if err := i.cart.Add(ctx, item.ID, price); err != nil {
		return nil, err
	}

	// An existing line keeps the price it was first added at.
	line, _ := i.cart.Line(item.ID)
	return &Response{
		ItemID:    item.ID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Subtotal:  i.cart.Subtotal(),
	}, nil
}
