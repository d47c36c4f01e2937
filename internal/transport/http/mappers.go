package http

import (
	"time"

	"github.com/light-bringer/storefront/internal/app/cart/domain"
	catalog "github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/app/catalog/queries/browse_catalog"
	"github.com/light-bringer/storefront/internal/app/catalog/store"
	"github.com/light-bringer/storefront/internal/app/feedback"
)

type entryResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	CategoryID     string  `json:"category_id"`
	Price          int64   `json:"price"`
	DiscountBadge  *string `json:"discount_badge,omitempty"`
	DiscountPrice  *int64  `json:"discount_price,omitempty"`
	EffectivePrice int64   `json:"effective_price"`
	Rating         float64 `json:"rating"`
	Available      bool    `json:"available"`
	CreatedAt      *string `json:"created_at,omitempty"`
}

type stateResponse struct {
	Category  string `json:"category"`
	Query     string `json:"query"`
	Applied   string `json:"applied_query"`
	SortField string `json:"sort_field"`
	SortOrder string `json:"sort_order"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	Language  string `json:"language"`
}

type pageResponse struct {
	Items      []entryResponse `json:"items"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
	State      stateResponse   `json:"state"`
	Loading    bool            `json:"loading"`
}

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type statusResponse struct {
	Loading bool              `json:"loading"`
	Errors  map[string]string `json:"errors"`
	Items   int               `json:"items"`
}

type cartLineResponse struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

type cartResponse struct {
	Lines    []cartLineResponse `json:"lines"`
	Count    int                `json:"count"`
	Subtotal int64              `json:"subtotal"`
}

type feedbackResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func toEntryResponse(e catalog.ResolvedEntry, lang string) entryResponse {
	out := entryResponse{
		ID:             e.Item.ID,
		Name:           e.Item.Name.In(lang),
		Description:    e.Item.Description.In(lang),
		CategoryID:     e.Item.CategoryID,
		Price:          e.Item.Price.Int64(),
		DiscountBadge:  e.DiscountBadge,
		EffectivePrice: e.EffectivePrice().Int64(),
		Rating:         e.Item.Rating,
		Available:      e.Item.Orderable(),
	}
	if e.DiscountPrice != nil {
		v := e.DiscountPrice.Int64()
		out.DiscountPrice = &v
	}
	if !e.Item.CreatedAt.IsZero() {
		s := e.Item.CreatedAt.UTC().Format(time.RFC3339)
		out.CreatedAt = &s
	}
	return out
}

func toEntriesResponse(entries []catalog.ResolvedEntry, lang string) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e, lang))
	}
	return out
}

func toPageResponse(p *browse_catalog.Page, loading bool) pageResponse {
	return pageResponse{
		Items:      toEntriesResponse(p.Entries, p.State.Language),
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Page:       p.Page,
		Loading:    loading,
		State: stateResponse{
			Category:  p.State.Category,
			Query:     p.State.Query,
			Applied:   p.State.DebouncedQuery,
			SortField: string(p.State.SortField),
			SortOrder: string(p.State.SortOrder),
			Page:      p.State.Page,
			PageSize:  p.State.PageSize,
			Language:  p.State.Language,
		},
	}
}

func toCategoriesResponse(categories []catalog.Category, lang string) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name.In(lang), Order: c.Order})
	}
	return out
}

func toStatusResponse(snap store.Snapshot) statusResponse {
	errs := make(map[string]string, len(snap.Errors))
	for r, err := range snap.Errors {
		errs[string(r)] = err.Error()
	}
	return statusResponse{Loading: snap.Loading, Errors: errs, Items: len(snap.Items)}
}

func toCartResponse(lines []domain.Line, count int, subtotal catalog.Money) cartResponse {
	out := cartResponse{Lines: make([]cartLineResponse, 0, len(lines)), Count: count, Subtotal: subtotal.Int64()}
	for _, l := range lines {
		out.Lines = append(out.Lines, cartLineResponse{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.Int64(),
			Total:     l.Total().Int64(),
		})
	}
	return out
}

func toFeedbackResponse(msgs []feedback.Message) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, feedbackResponse{
			ID:        m.ID,
			Kind:      string(m.Kind),
			Text:      m.Text,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

