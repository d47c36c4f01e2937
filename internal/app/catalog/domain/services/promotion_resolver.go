package services

import (
	"fmt"
	"strconv"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// OnSaleBadge is shown when a promotion matches but advertises neither a label
// nor a percentage.
const OnSaleBadge = "On sale"

// PromotionResolver is a domain service that attaches promotion metadata to menu items.
type PromotionResolver struct{}

// NewPromotionResolver creates a new PromotionResolver.
func NewPromotionResolver() *PromotionResolver {
	return &PromotionResolver{}
}

// Resolve returns one entry per item, in input order. Only active promotions
// linked to an active, available item produce discount data. When several
// active promotions link the same item the first one in the slice wins.
func (r *PromotionResolver) Resolve(items []domain.MenuItem, promotions []domain.Promotion) []domain.ResolvedEntry {
	index := r.Index(promotions)

	entries := make([]domain.ResolvedEntry, len(items))
	for i, item := range items {
		entries[i] = domain.ResolvedEntry{Item: item}
		if !item.Orderable() {
			continue
		}
		promo, ok := index[item.ID]
		if !ok {
			continue
		}
		badge := r.Badge(promo)
		entries[i].DiscountBadge = &badge
		entries[i].DiscountPrice = promo.Discount.DiscountedPrice()
	}
	return entries
}

// Index maps a linked product ID to the first active promotion for it.
func (r *PromotionResolver) Index(promotions []domain.Promotion) map[string]domain.Promotion {
	index := make(map[string]domain.Promotion, len(promotions))
	for _, p := range promotions {
		if !p.IsActive || !p.Linked() {
			continue
		}
		if _, seen := index[p.LinkedProduct]; seen {
			continue
		}
		index[p.LinkedProduct] = p
	}
	return index
}

// Badge picks the display label: explicit text, then "-N%", then OnSaleBadge.
func (r *PromotionResolver) Badge(p domain.Promotion) string {
	if p.Badge != "" {
		return p.Badge
	}
	if pct := p.Discount.Percentage(); pct != 0 {
		return fmt.Sprintf("-%s%%", strconv.FormatFloat(pct, 'f', -1, 64))
	}
	return OnSaleBadge
}

// Promoted filters resolved entries down to the ones carrying a discount.
func Promoted(entries []domain.ResolvedEntry) []domain.ResolvedEntry {
	out := make([]domain.ResolvedEntry, 0)
	for _, e := range entries {
		if e.Discounted() && e.Item.Orderable() {
			out = append(out, e)
		}
	}
	return out
}
