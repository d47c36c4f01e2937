// Package gateway talks to the restaurant backend over its JSON HTTP API.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/pkg/metrics"
)

const maxErrorBody = 512

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client loads catalog collections. It never retries; callers refetch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ contracts.CatalogSource = (*Client)(nil)

// New creates a new gateway client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// MenuItems loads GET /menu-items/.
func (c *Client) MenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	records, err := c.fetch(ctx, contracts.ResourceMenuItems)
	if err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, 0, len(records))
	for _, rec := range records {
		item, err := parseMenuItem(rec)
		if err != nil {
			c.logger.Warn("skipping malformed menu item", zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Categories loads GET /categories/, ordered for display.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	records, err := c.fetch(ctx, contracts.ResourceCategories)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(records))
	for _, rec := range records {
		cat, err := parseCategory(rec)
		if err != nil {
			c.logger.Warn("skipping malformed category", zap.Error(err))
			continue
		}
		categories = append(categories, cat)
	}
	domain.SortCategories(categories)
	return categories, nil
}

// Promotions loads GET /promotions/. Backend order is preserved because the
// first active promotion for an item wins.
func (c *Client) Promotions(ctx context.Context) ([]domain.Promotion, error) {
	records, err := c.fetch(ctx, contracts.ResourcePromotions)
	if err != nil {
		return nil, err
	}
	promotions := make([]domain.Promotion, 0, len(records))
	for _, rec := range records {
		promo, err := parsePromotion(rec)
		if err != nil {
			c.logger.Warn("skipping malformed promotion", zap.Error(err))
			continue
		}
		promotions = append(promotions, promo)
	}
	return promotions, nil
}

func (c *Client) fetch(ctx context.Context, resource contracts.Resource) (records []gjson.Result, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFetch(string(resource), err, time.Since(start)) }()

	url := fmt.Sprintf("%s/%s/", c.baseURL, resource.Path())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Resource: string(resource), Message: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Resource: string(resource), Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Resource: string(resource), Status: resp.StatusCode, Message: "read body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &FetchError{Resource: string(resource), Status: resp.StatusCode, Message: msg}
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return []gjson.Result{}, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, &FetchError{Resource: string(resource), Status: resp.StatusCode, Message: "response is not valid JSON"}
	}
	return results(gjson.ParseBytes(body)), nil
}
