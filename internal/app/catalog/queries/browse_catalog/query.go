package browse_catalog

import (
	"context"

	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/app/catalog/pipeline"
)

// Page is the catalog page currently selected by the browsing session.
type Page struct {
	Entries    []domain.ResolvedEntry
	Total      int
	TotalPages int
	Page       int
	State      pipeline.State
}

// Query handles the browse catalog use case.
type Query struct {
	reader     contracts.CatalogReader
	controller *pipeline.Controller
}

// NewQuery creates a new browse catalog query.
func NewQuery(reader contracts.CatalogReader, controller *pipeline.Controller) *Query {
	return &Query{
		reader:     reader,
		controller: controller,
	}
}

// Execute runs the pipeline over the current catalog and resolves discounts
// for the visible page only.
func (q *Query) Execute(ctx context.Context) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := q.controller.View(q.reader.Items())

	return &Page{
		Entries:    q.reader.Resolve(result.Items),
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		State:      q.controller.State(),
	}, nil
}
