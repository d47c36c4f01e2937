package domain

// Promotion marks a menu item as discounted. LinkedProduct is empty for
// promotions that are not tied to a single item.
type Promotion struct {
	ID            string
	LinkedProduct string
	IsActive      bool
	Badge         string
	Discount      DiscountSpec
}

// Linked reports whether the promotion references a menu item.
func (p Promotion) Linked() bool {
	return p.LinkedProduct != ""
}

// ResolvedEntry is a menu item enriched with its discount display data.
type ResolvedEntry struct {
	Item          MenuItem
	DiscountBadge *string
	DiscountPrice *Money
}

// Discounted reports whether a promotion matched the item.
func (e ResolvedEntry) Discounted() bool {
	return e.DiscountBadge != nil
}

// EffectivePrice is the price a customer pays for one unit.
func (e ResolvedEntry) EffectivePrice() Money {
	if e.DiscountPrice != nil {
		return *e.DiscountPrice
	}
	return e.Item.Price
}
