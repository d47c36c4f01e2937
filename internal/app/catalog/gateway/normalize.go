package gateway

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
)

// Field aliases accepted from the backend, first present wins.
var (
	keysID            = []string{"id", "pk", "uuid"}
	keysIsActive      = []string{"is_active", "isActive"}
	keysCategory      = []string{"category", "category_id", "categoryId"}
	keysCreated       = []string{"created_at", "createdAt", "created"}
	keysOrder         = []string{"order", "display_order", "displayOrder", "position"}
	keysLinked        = []string{"linked_product", "linkedProduct", "product", "product_id", "productId"}
	keysBadge         = []string{"discount_badge", "discountBadge", "badge_text", "badgeText"}
	keysPercentage    = []string{"discount_percentage", "discountPercentage", "discount_percent", "percentage"}
	keysDiscounted    = []string{"discounted_price", "discountedPrice", "discount_price", "sale_price"}
	keysAmountOff     = []string{"discount_amount", "discountAmount", "amount_off"}
	keysPriceAfterOff = []string{"price_after_discount", "priceAfterDiscount"}
)

// results accepts either {"results": [...]} or a bare array.
func results(doc gjson.Result) []gjson.Result {
	switch {
	case doc.IsArray():
		return doc.Array()
	case doc.IsObject():
		if r := doc.Get("results"); r.IsArray() {
			return r.Array()
		}
	}
	return []gjson.Result{}
}

func first(rec gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := rec.Get(k); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

// canonicalID renders string and numeric identifiers the same way, so 7 and "7" match.
func canonicalID(r gjson.Result) string {
	if r.IsObject() {
		r = first(r, keysID...)
	}
	switch r.Type {
	case gjson.Number:
		if integerLiteral(r.Raw) {
			return r.Raw
		}
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	case gjson.String:
		return strings.TrimSpace(r.Str)
	}
	return ""
}

// integerLiteral reports whether raw is a JSON integer. Its digits are kept
// as written since float64 cannot hold ids above 2^53.
func integerLiteral(raw string) bool {
	raw = strings.TrimPrefix(raw, "-")
	if raw == "" {
		return false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func boolOr(r gjson.Result, def bool) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		if v, err := strconv.ParseBool(r.Str); err == nil {
			return v
		}
	case gjson.Number:
		return r.Num != 0
	}
	return def
}

func money(r gjson.Result) (domain.Money, error) {
	switch r.Type {
	case gjson.Number:
		if r.Num != math.Trunc(r.Num) {
			return 0, fmt.Errorf("amount %s has a fractional part", r.Raw)
		}
		return domain.Money(int64(r.Num)), nil
	case gjson.String:
		return domain.NewMoney(strings.TrimSpace(r.Str))
	}
	return 0, fmt.Errorf("amount %q is not a number", r.Raw)
}

func optionalMoney(r gjson.Result) (*domain.Money, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	m, err := money(r)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// localized reads key as a plain string, an object keyed by language, or
// language-suffixed siblings such as name_ru.
func localized(rec gjson.Result, key string) domain.LocalizedText {
	text := domain.LocalizedText{}
	if v := rec.Get(key); v.IsObject() {
		v.ForEach(func(lang, value gjson.Result) bool {
			if value.Type == gjson.String && value.Str != "" {
				text[lang.String()] = value.Str
			}
			return true
		})
	} else if v.Type == gjson.String && v.Str != "" {
		text[domain.DefaultLanguage] = v.Str
	}

	prefix := key + "_"
	rec.ForEach(func(k, value gjson.Result) bool {
		name := k.String()
		if lang := strings.TrimPrefix(name, prefix); lang != name && len(lang) == 2 && value.Type == gjson.String && value.Str != "" {
			text[lang] = value.Str
		}
		return true
	})
	return text
}

func parseMenuItem(rec gjson.Result) (domain.MenuItem, error) {
	id := canonicalID(first(rec, keysID...))
	if id == "" {
		return domain.MenuItem{}, fmt.Errorf("menu item without id")
	}
	price, err := money(rec.Get("price"))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("menu item %s: %w", id, err)
	}

	item := domain.MenuItem{
		ID:          id,
		Name:        localized(rec, "name"),
		Description: localized(rec, "description"),
		Price:       price,
		CategoryID:  canonicalID(first(rec, keysCategory...)),
		Rating:      rec.Get("rating").Float(),
		IsActive:    boolOr(first(rec, keysIsActive...), true),
		Available:   boolOr(rec.Get("available"), true),
	}
	if created := first(rec, keysCreated...); created.Type == gjson.String {
		if ts, err := time.Parse(time.RFC3339, created.Str); err == nil {
			item.CreatedAt = ts
		}
	}
	return item, nil
}

func parseCategory(rec gjson.Result) (domain.Category, error) {
	id := canonicalID(first(rec, keysID...))
	if id == "" {
		return domain.Category{}, fmt.Errorf("category without id")
	}
	return domain.Category{
		ID:    id,
		Name:  localized(rec, "name"),
		Order: int(first(rec, keysOrder...).Int()),
	}, nil
}

// parsePromotion resolves the loosely typed discount fields into a DiscountSpec:
// an explicit discounted price, then an amount off, then a percentage.
func parsePromotion(rec gjson.Result) (domain.Promotion, error) {
	id := canonicalID(first(rec, keysID...))
	if id == "" {
		return domain.Promotion{}, fmt.Errorf("promotion without id")
	}

	var pct float64
	if r := first(rec, keysPercentage...); r.Exists() {
		pct = r.Float()
	}
	discounted, err := optionalMoney(first(rec, keysDiscounted...))
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("promotion %s: %w", id, err)
	}
	amount, err := optionalMoney(first(rec, keysAmountOff...))
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("promotion %s: %w", id, err)
	}
	after, err := optionalMoney(first(rec, keysPriceAfterOff...))
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("promotion %s: %w", id, err)
	}

	var spec domain.DiscountSpec
	switch {
	case discounted != nil:
		spec, err = domain.FixedPrice(*discounted)
		spec = spec.WithPercentage(pct)
	case amount != nil:
		spec, err = domain.AmountOff(*amount, after)
		spec = spec.WithPercentage(pct)
	case pct != 0:
		spec, err = domain.PercentageOff(pct)
	default:
		spec = domain.NoDiscount()
	}
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("promotion %s: %w", id, err)
	}

	return domain.Promotion{
		ID:            id,
		LinkedProduct: canonicalID(first(rec, keysLinked...)),
		IsActive:      first(rec, keysIsActive...).Type == gjson.True,
		Badge:         strings.TrimSpace(first(rec, keysBadge...).String()),
		Discount:      spec,
	}, nil
}
