package pipeline

import (
	"sync"
	"time"

	"github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/pkg/clock"
)

// Controller owns the State of one browsing session and applies the reset
// rules: a new category or a settled search returns to page 1, a sort change
// keeps the page.
type Controller struct {
	mu        sync.Mutex
	state     State
	debouncer *Debouncer
	onSettle  func(State)
}

// Option configures a Controller.
type Option func(*controllerConfig)

type controllerConfig struct {
	state    State
	debounce time.Duration
	onSettle func(State)
}

// WithPageSize overrides DefaultPageSize. Non-positive sizes are ignored.
func WithPageSize(size int) Option {
	return func(c *controllerConfig) {
		if size > 0 {
			c.state.PageSize = size
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(c *controllerConfig) { c.debounce = d }
}

// WithLanguage sets the language used for search and name sorting.
func WithLanguage(lang string) Option {
	return func(c *controllerConfig) {
		if lang != "" {
			c.state.Language = lang
		}
	}
}

// OnSettle registers a callback invoked after the debounced query changes.
func OnSettle(f func(State)) Option {
	return func(c *controllerConfig) { c.onSettle = f }
}

// NewController creates a Controller in DefaultState.
func NewController(clk clock.Clock, opts ...Option) *Controller {
	cfg := controllerConfig{state: DefaultState(), debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller{
		state:     cfg.state,
		debouncer: NewDebouncer(clk, cfg.debounce),
		onSettle:  cfg.onSettle,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectCategory filters by category and returns to page 1.
func (c *Controller) SelectCategory(category string) {
	if category == "" {
		category = AllCategories
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Category = category
	c.state.Page = 1
}

// SetLanguage switches the display language. The page is kept.
func (c *Controller) SetLanguage(lang string) {
	if lang == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Language = lang
}

// SetQuery records the raw search text immediately and applies it to the
// filter once typing has paused for the debounce delay.
func (c *Controller) SetQuery(raw string) {
	c.mu.Lock()
	c.state.Query = raw
	c.mu.Unlock()

	c.debouncer.Trigger(func() { c.settle(raw) })
}

// FlushQuery applies the raw query without waiting.
func (c *Controller) FlushQuery() {
	c.debouncer.Stop()
	c.settle(c.State().Query)
}

func (c *Controller) settle(query string) {
	c.mu.Lock()
	changed := c.state.DebouncedQuery != query
	if changed {
		c.state.DebouncedQuery = query
		c.state.Page = 1
	}
	snapshot := c.state
	onSettle := c.onSettle
	c.mu.Unlock()

	if changed && onSettle != nil {
		onSettle(snapshot)
	}
}

// ChangeSort handles a click on a sort control. Clicking the active field
// toggles the order, clicking another field sorts it ascending.
func (c *Controller) ChangeSort(field SortField) error {
	field, err := ParseSortField(string(field))
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SortField == field {
		c.state.SortOrder = c.state.SortOrder.Toggle()
		return nil
	}
	c.state.SortField = field
	c.state.SortOrder = Asc
	return nil
}

// SetSort sets field and order explicitly.
func (c *Controller) SetSort(field SortField, order SortOrder) error {
	field, err := ParseSortField(string(field))
	if err != nil {
		return err
	}
	order, err = ParseSortOrder(string(order))
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SortField = field
	c.state.SortOrder = order
	return nil
}

// SetPage selects a page of the current result set. Out-of-range pages are
// rejected and the current page is kept.
func (c *Controller) SetPage(page int, items []domain.MenuItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := Search(FilterByCategory(items, c.state.Category), c.state.DebouncedQuery, c.state.Language)
	if !ValidPage(page, TotalPages(len(matched), c.state.PageSize)) {
		return ErrPageOutOfRange
	}
	c.state.Page = page
	return nil
}

// Reset restores DefaultState, keeping page size and language.
func (c *Controller) Reset() {
	c.debouncer.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	size, lang := c.state.PageSize, c.state.Language
	c.state = DefaultState()
	c.state.PageSize = size
	c.state.Language = lang
}

// View runs the pipeline over items. If the result set shrank below the
// current page, the page is reset to 1 first.
func (c *Controller) View(items []domain.MenuItem) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := Run(items, c.state)
	if c.state.Page != 1 && c.state.Page > result.TotalPages {
		c.state.Page = 1
		result = Run(items, c.state)
	}
	return result
}

// Close cancels a pending debounce.
func (c *Controller) Close() {
	c.debouncer.Stop()
}
