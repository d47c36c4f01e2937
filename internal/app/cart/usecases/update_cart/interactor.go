package update_cart

import (
	"context"

	"github.com/light-bringer/storefront/internal/app/cart/store"
	catalog "github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Request sets the quantity of a line. Quantity <= 0 removes it.
type Request struct {
	ItemID   string
	Quantity int
}

// Response carries the cart totals after the update.
type Response struct {
	Quantity int
	Count    int
	Subtotal catalog.Money
}

// Interactor handles quantity changes. It never consults the catalog, so
// lines for items that have since disappeared can still be edited.
type Interactor struct {
	cart *store.Store
}

// NewInteractor creates a new update cart interactor.
func NewInteractor(cart *store.Store) *Interactor {
	return &Interactor{cart: cart}
}

// Execute applies the quantity change.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := i.cart.SetQuantity(ctx, req.ItemID, req.Quantity); err != nil {
		return nil, err
	}
	return &Response{
		Quantity: i.cart.Quantity(req.ItemID),
		Count:    i.cart.Count(),
		Subtotal: i.cart.Subtotal(),
	}, nil
}
