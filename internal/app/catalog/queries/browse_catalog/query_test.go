package browse_catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/app/catalog/domain/services"
	"github.com/light-bringer/storefront/internal/app/catalog/pipeline"
	"github.com/light-bringer/storefront/internal/pkg/clock"
)

type staticReader struct {
	items      []domain.MenuItem
	promotions []domain.Promotion
}

func (r *staticReader) Items() []domain.MenuItem { return r.items }

func (r *staticReader) Item(id string) (domain.MenuItem, bool) {
	for _, item := range r.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

func (r *staticReader) Resolve(items []domain.MenuItem) []domain.ResolvedEntry {
	return services.NewPromotionResolver().Resolve(items, r.promotions)
}

func TestQuery_Execute(t *testing.T) {
	spec, err := domain.PercentageOff(25)
	require.NoError(t, err)
	reader := &staticReader{
		items: []domain.MenuItem{
			{ID: "1", Name: domain.Text("Borscht"), Price: 450, CategoryID: "soups", IsActive: true, Available: true},
			{ID: "2", Name: domain.Text("Solyanka"), Price: 520, CategoryID: "soups", IsActive: true, Available: true},
			{ID: "3", Name: domain.Text("Syrniki"), Price: 380, CategoryID: "desserts", IsActive: true, Available: true},
		},
		promotions: []domain.Promotion{{ID: "p", LinkedProduct: "2", IsActive: true, Discount: spec}},
	}
	controller := pipeline.NewController(clock.NewMockClock(time.Now()), pipeline.WithPageSize(1))
	query := NewQuery(reader, controller)

	controller.SelectCategory("soups")
	require.NoError(t, controller.ChangeSort(pipeline.SortByPrice))
	require.NoError(t, controller.ChangeSort(pipeline.SortByPrice))

	page, err := query.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "2", page.Entries[0].Item.ID)
	assert.Equal(t, "-25%", *page.Entries[0].DiscountBadge)
	assert.Equal(t, pipeline.Desc, page.State.SortOrder)
}

func TestQuery_ExecuteCancelled(t *testing.T) {
	query := NewQuery(&staticReader{}, pipeline.NewController(clock.NewRealClock()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := query.Execute(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
