package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	cartstore "github.com/light-bringer/storefront/internal/app/cart/store"
	"github.com/light-bringer/storefront/internal/app/cart/usecases/add_to_cart"
	"github.com/light-bringer/storefront/internal/app/cart/usecases/update_cart"
	"github.com/light-bringer/storefront/internal/app/catalog/gateway"
	"github.com/light-bringer/storefront/internal/app/catalog/pipeline"
	"github.com/light-bringer/storefront/internal/app/catalog/queries/browse_catalog"
	catalogstore "github.com/light-bringer/storefront/internal/app/catalog/store"
	"github.com/light-bringer/storefront/internal/app/catalog/usecases/save_record"
	"github.com/light-bringer/storefront/internal/app/feedback"
	"github.com/light-bringer/storefront/internal/app/session"
	"github.com/light-bringer/storefront/internal/pkg/clock"
	"github.com/light-bringer/storefront/internal/pkg/storage"
	transport "github.com/light-bringer/storefront/internal/transport/http"
)

// Config holds everything needed to assemble the application.
type Config struct {
	BackendURL     string
	FetchTimeout   time.Duration
	PageSize       int
	SearchDebounce time.Duration
	Language       string
	Storage        storage.Config

	// Clock defaults to the real clock. HTTPClient defaults to one built
	// from FetchTimeout.
	Clock      clock.Clock
	HTTPClient *http.Client
}

// ServiceOptions holds all dependencies for the application. Construction
// and teardown are tied to the process lifetime.
type ServiceOptions struct {
	Storage    storage.Store
	Catalog    *catalogstore.Store
	Controller *pipeline.Controller
	Cart       *cartstore.Store
	Feedback   *feedback.Queue
	Admin      *session.Admin
	Handler    *transport.Handler
	Router     http.Handler
}

// NewServiceOptions creates and wires up all application dependencies. The
// catalog is not loaded; call Catalog.Load.
func NewServiceOptions(ctx context.Context, cfg Config, logger *zap.Logger) (*ServiceOptions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	// 1. Storage
	st, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	// 2. Backend gateways
	gwCfg := gateway.Config{BaseURL: cfg.BackendURL, Timeout: cfg.FetchTimeout, HTTPClient: cfg.HTTPClient}
	source := gateway.New(gwCfg, logger.Named("gateway"))
	adminClient, err := gateway.NewAdminClient(gwCfg, logger.Named("admin"))
	if err != nil {
		st.Close()
		return nil, err
	}

	// 3. Stores
	catalog := catalogstore.New(source, logger.Named("catalog"))
	controller := pipeline.NewController(clk,
		pipeline.WithPageSize(cfg.PageSize),
		pipeline.WithDebounce(debounceOrDefault(cfg.SearchDebounce)),
		pipeline.WithLanguage(cfg.Language),
	)
	cart := cartstore.New(ctx, st, logger.Named("cart"))
	queue := feedback.NewQueue(ctx, st, clk, logger.Named("feedback"))
	admin := session.NewAdmin(st, clk, logger.Named("session"))

	// 4. Command use cases
	addToCart := add_to_cart.NewInteractor(catalog, cart)
	updateCart := update_cart.NewInteractor(cart)
	saveRecord := save_record.NewInteractor(adminClient, catalog, admin, queue, logger.Named("admin"))

	// 5. Queries
	browse := browse_catalog.NewQuery(catalog, controller)

	// 6. HTTP
	handler := transport.NewHandler(addToCart, updateCart, saveRecord, browse, catalog, controller, cart, queue, admin, logger.Named("http"))

	return &ServiceOptions{
		Storage:    st,
		Catalog:    catalog,
		Controller: controller,
		Cart:       cart,
		Feedback:   queue,
		Admin:      admin,
		Handler:    handler,
		Router:     transport.NewRouter(handler, logger.Named("http")),
	}, nil
}

func debounceOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return pipeline.DefaultDebounce
	}
	return d
}

// Close releases all resources.
func (s *ServiceOptions) Close() {
	if s.Controller != nil {
		s.Controller.Close()
	}
	if s.Storage != nil {
		s.Storage.Close()
	}
}
