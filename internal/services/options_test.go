package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/storefront/internal/pkg/clock"
	"github.com/light-bringer/storefront/internal/pkg/storage"
)

type backend struct {
	mu       sync.Mutex
	saved    []*http.Request
	csrfHits int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/menu-items/":
		io.WriteString(w, `{"results": [
			{"id": 1, "name": "Borscht", "price": 450, "category": 1, "rating": 4.8},
			{"id": 2, "name": "Green tea", "price": 150, "category": 2, "rating": 4.1},
			{"id": 3, "name": "Cabbage salad", "price": 300, "category": 1, "rating": 3.9}
		]}`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/categories/":
		io.WriteString(w, `[{"id": 1, "name": "Kitchen", "order": 1}, {"id": 2, "name": "Drinks", "order": 2}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/promotions/":
		io.WriteString(w, `[{"id": 10, "linked_product": 1, "is_active": true, "discounted_price": 400, "discount_badge": "Soup day"}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/csrf/":
		b.mu.Lock()
		b.csrfHits++
		b.mu.Unlock()
		io.WriteString(w, `{"csrfToken": "tok"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/promotions/":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.saved = append(b.saved, r)
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 11}`)
	default:
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}
}

type app struct {
	*ServiceOptions
	clock   *clock.MockClock
	server  *httptest.Server
	backend *backend
}

func newApp(t *testing.T) *app {
	t.Helper()
	be := &backend{}
	upstream := httptest.NewServer(be)
	t.Cleanup(upstream.Close)

	clk := clock.NewMockClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	opts, err := NewServiceOptions(context.Background(), Config{
		BackendURL:     upstream.URL + "/api",
		PageSize:       2,
		SearchDebounce: 300 * time.Millisecond,
		Storage:        storage.Config{Driver: storage.DriverMemory},
		Clock:          clk,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(opts.Close)

	require.NoError(t, opts.Catalog.Load(context.Background()))

	srv := httptest.NewServer(opts.Router)
	t.Cleanup(srv.Close)
	return &app{ServiceOptions: opts, clock: clk, server: srv, backend: be}
}

func (a *app) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(bytes.TrimSpace(raw)) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func itemIDs(page map[string]any) []string {
	var ids []string
	for _, it := range page["items"].([]any) {
		ids = append(ids, it.(map[string]any)["id"].(string))
	}
	return ids
}

func TestRouter_Health(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	resp, err := http.Get(a.server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_BrowseCatalog(t *testing.T) {
	a := newApp(t)

	code, page := a.do(t, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, page["total"])
	assert.EqualValues(t, 2, page["total_pages"])
	assert.Equal(t, []string{"1", "3"}, itemIDs(page), "name ascending: Borscht, Cabbage salad")

	borscht := page["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Soup day", borscht["discount_badge"])
	assert.EqualValues(t, 400, borscht["effective_price"])

	t.Run("page two", func(t *testing.T) {
		code, page := a.do(t, http.MethodPost, "/api/v1/view/page", `{"page": 2}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []string{"2"}, itemIDs(page))
	})

	t.Run("out of range page is ignored", func(t *testing.T) {
		code, page := a.do(t, http.MethodPost, "/api/v1/view/page", `{"page": 9}`)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 2, page["page"])
		assert.Equal(t, []string{"2"}, itemIDs(page))
		assert.Nil(t, page["error"])
	})

	t.Run("sort change keeps page", func(t *testing.T) {
		code, page := a.do(t, http.MethodPost, "/api/v1/view/sort", `{"field": "price"}`)
		require.Equal(t, http.StatusOK, code)
		state := page["state"].(map[string]any)
		assert.Equal(t, "price", state["sort_field"])
		assert.Equal(t, "asc", state["sort_order"])
		assert.EqualValues(t, 2, state["page"])
		assert.Equal(t, []string{"1"}, itemIDs(page))
	})

	t.Run("category resets page", func(t *testing.T) {
		code, page := a.do(t, http.MethodPost, "/api/v1/view/category", `{"category": "1"}`)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, page["page"])
		assert.EqualValues(t, 2, page["total"])
	})

	t.Run("search applies after debounce", func(t *testing.T) {
		code, page := a.do(t, http.MethodPost, "/api/v1/view/search", `{"query": "CABB"}`)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 2, page["total"], "not applied yet")

		a.clock.Advance(300 * time.Millisecond)

		_, page = a.do(t, http.MethodGet, "/api/v1/catalog", "")
		assert.Equal(t, []string{"3"}, itemIDs(page))
	})

	t.Run("unknown sort field is ignored", func(t *testing.T) {
		code, page := a.do(t, http.MethodGet, "/api/v1/catalog?sort=weight", "")
		require.Equal(t, http.StatusOK, code)
		state := page["state"].(map[string]any)
		assert.Equal(t, "price", state["sort_field"])
		assert.Equal(t, "asc", state["sort_order"])
		assert.Equal(t, []string{"3"}, itemIDs(page))
	})

	t.Run("unknown sort order is ignored", func(t *testing.T) {
		code, page := a.do(t, http.MethodPost, "/api/v1/view/sort", `{"field": "name", "order": "sideways"}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "price", page["state"].(map[string]any)["sort_field"])
	})

	t.Run("reset", func(t *testing.T) {
		_, page := a.do(t, http.MethodPost, "/api/v1/view/reset", "")
		assert.EqualValues(t, 3, page["total"])
	})
}

func TestRouter_CatalogQueryParams(t *testing.T) {
	t.Run("malformed page changes nothing", func(t *testing.T) {
		a := newApp(t)

		code, _ := a.do(t, http.MethodGet, "/api/v1/catalog?category=2&q=tea&page=two", "")
		assert.Equal(t, http.StatusBadRequest, code)

		_, page := a.do(t, http.MethodGet, "/api/v1/catalog", "")
		state := page["state"].(map[string]any)
		assert.Equal(t, "all", state["category"])
		assert.Equal(t, "", state["query"])
		assert.EqualValues(t, 3, page["total"])
	})

	t.Run("refused sort keeps the valid changes", func(t *testing.T) {
		a := newApp(t)

		code, page := a.do(t, http.MethodGet, "/api/v1/catalog?category=2&sort=bogus", "")
		require.Equal(t, http.StatusOK, code)
		state := page["state"].(map[string]any)
		assert.Equal(t, "2", state["category"])
		assert.Equal(t, "name", state["sort_field"])
		assert.Equal(t, []string{"2"}, itemIDs(page))
	})

	t.Run("refused page keeps the valid changes", func(t *testing.T) {
		a := newApp(t)

		code, page := a.do(t, http.MethodGet, "/api/v1/catalog?category=1&page=5", "")
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, page["page"])
		assert.Equal(t, []string{"1", "3"}, itemIDs(page))
	})
}

func TestRouter_Cart(t *testing.T) {
	a := newApp(t)

	code, cart := a.do(t, http.MethodPost, "/api/v1/cart", `{"item_id": "1"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 400, cart["subtotal"], "discounted price captured")

	_, cart = a.do(t, http.MethodPost, "/api/v1/cart", `{"item_id": "1"}`)
	assert.EqualValues(t, 2, cart["count"])
	assert.Len(t, cart["lines"], 1)

	code, _ = a.do(t, http.MethodPost, "/api/v1/cart", `{"item_id": "404"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(t, http.MethodPost, "/api/v1/cart", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, cart = a.do(t, http.MethodPatch, "/api/v1/cart/1", `{"quantity": 0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, cart["lines"])

	code, _ = a.do(t, http.MethodPatch, "/api/v1/cart/1", `{"quantity": 2}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, cart = a.do(t, http.MethodPatch, "/api/v1/cart/99", `{"quantity": 0}`)
	assert.Equal(t, http.StatusOK, code, "zero quantity removes, even when absent")
	assert.Empty(t, cart["lines"])

	raw, err := a.Storage.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestRouter_AdminSave(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(t, http.MethodPost, "/api/v1/admin/promotions", `{"linked_product": "2", "discount_percentage": 10}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodPost, "/api/v1/admin/session", "")
	require.Equal(t, http.StatusOK, code)

	code, body := a.do(t, http.MethodPost, "/api/v1/admin/promotions",
		`{"linked_product": 2, "discount_percentage": 10, "price_after_discount": 1200000}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "11", body["id"])

	a.backend.mu.Lock()
	require.Len(t, a.backend.saved, 1)
	saved := a.backend.saved[0]
	assert.Equal(t, "tok", saved.Header.Get("X-CSRFToken"))
	assert.Equal(t, "1200000", saved.MultipartForm.Value["price_after_discount"][0])
	assert.Equal(t, "2", saved.MultipartForm.Value["linked_product"][0])
	a.backend.mu.Unlock()

	msgs := a.Feedback.List()
	require.Len(t, msgs, 1)
	assert.Equal(t, "success", string(msgs[0].Kind))

	code, _ = a.do(t, http.MethodPost, "/api/v1/admin/orders", `{"x": 1}`)
	assert.Equal(t, http.StatusNotFound, code)

	t.Run("session expires", func(t *testing.T) {
		a.clock.Advance(25 * time.Hour)
		_, body := a.do(t, http.MethodGet, "/api/v1/admin/session", "")
		assert.Equal(t, false, body["active"])
	})
}

func TestRouter_Feedback(t *testing.T) {
	a := newApp(t)

	code, msg := a.do(t, http.MethodPost, "/api/v1/feedback", `{"kind": "info", "text": "hello"}`)
	require.Equal(t, http.StatusCreated, code)
	id := msg["id"].(string)

	code, _ = a.do(t, http.MethodPost, "/api/v1/feedback", `{"kind": "loud", "text": "hello"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodDelete, "/api/v1/feedback/"+id, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = a.do(t, http.MethodDelete, "/api/v1/feedback/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_StatusAndRefetch(t *testing.T) {
	a := newApp(t)

	code, status := a.do(t, http.MethodGet, "/api/v1/catalog/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, status["loading"])
	assert.EqualValues(t, 3, status["items"])

	code, _ = a.do(t, http.MethodPost, "/api/v1/catalog/refetch?resource=menu-items", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodPost, "/api/v1/catalog/refetch?resource=orders", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(t, http.MethodGet, "/api/v1/items/2", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodGet, "/api/v1/items/99", "")
	assert.Equal(t, http.StatusNotFound, code)
}
