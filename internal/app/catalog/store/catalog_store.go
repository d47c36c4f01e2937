// Package store holds the in-memory catalog mirrored from the backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/app/catalog/domain/services"
	"github.com/light-bringer/storefront/internal/pkg/metrics"
)

// ErrUnknownResource is returned by Refetch for a resource it cannot load.
var ErrUnknownResource = contracts.ErrUnknownResource

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Items      []domain.MenuItem
	Categories []domain.Category
	Promotions []domain.Promotion
	Loading    bool
	Errors     map[contracts.Resource]error
}

// Store owns the catalog. Each resource is loaded independently; a failed
// load keeps the previous data and only records an error for that resource.
// Every load carries a generation number and a result older than the latest
// request for the same resource is discarded.
type Store struct {
	source   contracts.CatalogSource
	resolver *services.PromotionResolver
	logger   *zap.Logger

	mu         sync.RWMutex
	items      []domain.MenuItem
	categories []domain.Category
	promotions []domain.Promotion
	pending    int
	issued     map[contracts.Resource]uint64
	errs       map[contracts.Resource]error
}

var _ contracts.CatalogReader = (*Store)(nil)

// New creates an empty Store reading from source.
func New(source contracts.CatalogSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		source:     source,
		resolver:   services.NewPromotionResolver(),
		logger:     logger,
		items:      []domain.MenuItem{},
		categories: []domain.Category{},
		promotions: []domain.Promotion{},
		issued:     make(map[contracts.Resource]uint64),
		errs:       make(map[contracts.Resource]error),
	}
}

// Load fetches every resource in parallel and waits for all of them.
// The returned error joins the individual failures; data from successful
// loads is applied regardless.
func (s *Store) Load(ctx context.Context) error {
	var g errgroup.Group
	errs := make([]error, len(contracts.Resources))
	for i, r := range contracts.Resources {
		g.Go(func() error {
			errs[i] = s.Refetch(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Refetch reloads one resource.
func (s *Store) Refetch(ctx context.Context, r contracts.Resource) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownResource, r)
	}
	gen := s.begin(r)

	var (
		apply func()
		err   error
	)
	switch r {
	case contracts.ResourceMenuItems:
		var items []domain.MenuItem
		items, err = s.source.MenuItems(ctx)
		apply = func() { s.items = items }
	case contracts.ResourceCategories:
		var categories []domain.Category
		categories, err = s.source.Categories(ctx)
		apply = func() { s.categories = categories }
	case contracts.ResourcePromotions:
		var promotions []domain.Promotion
		promotions, err = s.source.Promotions(ctx)
		apply = func() { s.promotions = promotions }
	}

	s.finish(r, gen, apply, err)
	return err
}

func (s *Store) begin(r contracts.Resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[r]++
	s.pending++
	return s.issued[r]
}

func (s *Store) finish(r contracts.Resource, gen uint64, apply func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if gen != s.issued[r] {
		metrics.RecordStaleResponse(string(r))
		s.logger.Debug("dropping stale catalog response",
			zap.String("resource", string(r)),
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.issued[r]))
		return
	}
	if err != nil {
		s.errs[r] = err
		s.logger.Warn("catalog load failed, keeping previous data",
			zap.String("resource", string(r)),
			zap.Uint64("generation", gen),
			zap.Error(err))
		return
	}
	apply()
	delete(s.errs, r)
}

// Loading reports whether any request is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

// HasError reports whether the latest load of any resource failed.
func (s *Store) HasError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errs) > 0
}

// Err joins the latest load error of every resource, in resource order.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	errs := make([]error, 0, len(s.errs))
	for _, r := range contracts.Resources {
		if err := s.errs[r]; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClearError forgets recorded load errors.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = make(map[contracts.Resource]error)
}

// Snapshot copies the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	errs := make(map[contracts.Resource]error, len(s.errs))
	for r, err := range s.errs {
		errs[r] = err
	}
	return Snapshot{
		Items:      append([]domain.MenuItem(nil), s.items...),
		Categories: append([]domain.Category(nil), s.categories...),
		Promotions: append([]domain.Promotion(nil), s.promotions...),
		Loading:    s.pending > 0,
		Errors:     errs,
	}
}

// Items returns the loaded menu items.
func (s *Store) Items() []domain.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MenuItem{}, s.items...)
}

// Categories returns the loaded categories in display order.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category{}, s.categories...)
}

// Promotions returns the loaded promotions in backend order.
func (s *Store) Promotions() []domain.Promotion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Promotion{}, s.promotions...)
}

// Item looks up a menu item by ID.
func (s *Store) Item(id string) (domain.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

// Resolve attaches the current promotions to items. It is recomputed on
// every call so the result always reflects the latest data.
func (s *Store) Resolve(items []domain.MenuItem) []domain.ResolvedEntry {
	s.mu.RLock()
	promotions := s.promotions
	s.mu.RUnlock()
	return s.resolver.Resolve(items, promotions)
}

// Resolved resolves every loaded item.
func (s *Store) Resolved() []domain.ResolvedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver.Resolve(s.items, s.promotions)
}

// Promoted returns the resolved entries that carry a discount.
func (s *Store) Promoted() []domain.ResolvedEntry {
	return services.Promoted(s.Resolved())
}

// Entry resolves a single item.
func (s *Store) Entry(id string) (domain.ResolvedEntry, bool) {
	item, ok := s.Item(id)
	if !ok {
		return domain.ResolvedEntry{}, false
	}
	return s.Resolve([]domain.MenuItem{item})[0], true
}
