package domain

import "fmt"

// DiscountKind tags the variant held by a DiscountSpec.
type DiscountKind int

const (
	DiscountNone DiscountKind = iota
	DiscountPercentage
	DiscountAmountOff
	DiscountFixedPrice
)

func (k DiscountKind) String() string {
	switch k {
	case DiscountPercentage:
		return "percentage"
	case DiscountAmountOff:
		return "amount_off"
	case DiscountFixedPrice:
		return "fixed_price"
	default:
		return "none"
	}
}

// DiscountSpec is the canonical discount of a promotion, decided once when the
// promotion is ingested.
type DiscountSpec struct {
	kind       DiscountKind
	percentage float64
	amount     Money
	price      *Money
}

// NoDiscount is a promotion that only marks an item as on sale.
func NoDiscount() DiscountSpec {
	return DiscountSpec{kind: DiscountNone}
}

// PercentageOff creates a percentage discount. The value must be within 0..100
// and may be fractional.
func PercentageOff(percentage float64) (DiscountSpec, error) {
	if !(percentage >= 0 && percentage <= 100) {
		return DiscountSpec{}, fmt.Errorf("%w, got %g", ErrInvalidPercentage, percentage)
	}
	return DiscountSpec{kind: DiscountPercentage, percentage: percentage}, nil
}

// AmountOff creates an absolute discount. discounted is the after-discount price
// when the data source precomputed it, nil otherwise.
func AmountOff(amount Money, discounted *Money) (DiscountSpec, error) {
	if amount.IsNegative() {
		return DiscountSpec{}, ErrNegativeAmount
	}
	if discounted != nil && discounted.IsNegative() {
		return DiscountSpec{}, ErrNegativeAmount
	}
	return DiscountSpec{kind: DiscountAmountOff, amount: amount, price: copyMoney(discounted)}, nil
}

// FixedPrice creates a discount that replaces the item price.
func FixedPrice(price Money) (DiscountSpec, error) {
	if price.IsNegative() {
		return DiscountSpec{}, ErrNegativeAmount
	}
	return DiscountSpec{kind: DiscountFixedPrice, price: &price}, nil
}

// WithPercentage annotates a price-based discount with the percentage the
// source also advertised, so the badge can still show it.
func (d DiscountSpec) WithPercentage(percentage float64) DiscountSpec {
	if percentage > 0 && percentage <= 100 {
		d.percentage = percentage
	}
	return d
}

// Kind returns the variant tag.
func (d DiscountSpec) Kind() DiscountKind { return d.kind }

// Percentage returns the advertised percentage, 0 when there is none.
func (d DiscountSpec) Percentage() float64 { return d.percentage }

// Amount returns the absolute discount for DiscountAmountOff.
func (d DiscountSpec) Amount() Money { return d.amount }

// DiscountedPrice returns the final price when the source provided one.
// Percentage discounts never produce a price here: nothing is computed locally.
func (d DiscountSpec) DiscountedPrice() *Money {
	switch d.kind {
	case DiscountFixedPrice, DiscountAmountOff:
		return copyMoney(d.price)
	default:
		return nil
	}
}

func copyMoney(m *Money) *Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}
