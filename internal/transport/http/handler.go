package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	cartstore "github.com/light-bringer/storefront/internal/app/cart/store"
	"github.com/light-bringer/storefront/internal/app/cart/usecases/add_to_cart"
	"github.com/light-bringer/storefront/internal/app/cart/usecases/update_cart"
	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/pipeline"
	"github.com/light-bringer/storefront/internal/app/catalog/queries/browse_catalog"
	catalogstore "github.com/light-bringer/storefront/internal/app/catalog/store"
	"github.com/light-bringer/storefront/internal/app/catalog/usecases/save_record"
	"github.com/light-bringer/storefront/internal/app/feedback"
	"github.com/light-bringer/storefront/internal/app/session"
)

// Handler serves the storefront shell. It is a thin coordinator over the
// stores, use cases and queries of one storefront session.
type Handler struct {
	// Commands
	addToCart  *add_to_cart.Interactor
	updateCart *update_cart.Interactor
	saveRecord *save_record.Interactor

	// Queries
	browse *browse_catalog.Query

	catalog    *catalogstore.Store
	controller *pipeline.Controller
	cart       *cartstore.Store
	feedback   *feedback.Queue
	admin      *session.Admin
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	addToCart *add_to_cart.Interactor,
	updateCart *update_cart.Interactor,
	saveRecord *save_record.Interactor,
	browse *browse_catalog.Query,
	catalog *catalogstore.Store,
	controller *pipeline.Controller,
	cart *cartstore.Store,
	queue *feedback.Queue,
	admin *session.Admin,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		addToCart:  addToCart,
		updateCart: updateCart,
		saveRecord: saveRecord,
		browse:     browse,
		catalog:    catalog,
		controller: controller,
		cart:       cart,
		feedback:   queue,
		admin:      admin,
		logger:     logger,
	}
}

// RegisterRoutes registers the API on r. Mount it under /api/v1.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog", h.Catalog)
	r.Get("/catalog/status", h.Status)
	r.Post("/catalog/refetch", h.Refetch)
	r.Delete("/catalog/errors", h.ClearErrors)
	r.Get("/categories", h.Categories)
	r.Get("/promotions", h.Promotions)
	r.Get("/items/{id}", h.Item)

	r.Route("/view", func(r chi.Router) {
		r.Post("/category", h.SelectCategory)
		r.Post("/search", h.Search)
		r.Post("/sort", h.Sort)
		r.Post("/page", h.Page)
		r.Post("/language", h.Language)
		r.Post("/reset", h.Reset)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Cart)
		r.Post("/", h.AddToCart)
		r.Delete("/", h.ClearCart)
		r.Patch("/{id}", h.SetQuantity)
		r.Delete("/{id}", h.RemoveFromCart)
	})

	r.Route("/feedback", func(r chi.Router) {
		r.Get("/", h.ListFeedback)
		r.Post("/", h.PushFeedback)
		r.Post("/drain", h.DrainFeedback)
		r.Delete("/{id}", h.DismissFeedback)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/session", h.AdminSession)
		r.Post("/session", h.StartAdminSession)
		r.Delete("/session", h.EndAdminSession)
		r.Post("/{resource}", h.SaveRecord)
		r.Patch("/{resource}/{id}", h.SaveRecord)
	})
}

// --- Catalog ---

// Catalog returns the current page. Optional query parameters apply view
// changes first: lang, category, q, sort (click semantics) or sort+order,
// then page. A malformed page number fails the request before any change is
// applied; a sort or page the controller refuses is ignored.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var page int
	raw := q.Get("page")
	if raw != "" {
		var err error
		if page, err = strconv.Atoi(raw); err != nil {
			h.writeError(w, badRequest("page must be an integer"))
			return
		}
	}

	if lang := q.Get("lang"); lang != "" {
		h.controller.SetLanguage(lang)
	}
	if q.Has("category") {
		h.controller.SelectCategory(q.Get("category"))
	}
	if q.Has("q") {
		h.controller.SetQuery(q.Get("q"))
		h.controller.FlushQuery()
	}
	if field := q.Get("sort"); field != "" {
		var err error
		if order := q.Get("order"); order != "" {
			err = h.controller.SetSort(pipeline.SortField(field), pipeline.SortOrder(order))
		} else {
			err = h.controller.ChangeSort(pipeline.SortField(field))
		}
		if err := h.applyView(err); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if raw != "" {
		if err := h.applyView(h.controller.SetPage(page, h.catalog.Items())); err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.writePage(r.Context(), w)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.catalog.Snapshot()))
}

// Refetch reloads one resource (?resource=) or all of them.
func (h *Handler) Refetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	if name := r.URL.Query().Get("resource"); name != "" {
		res, perr := contracts.ParseResource(name)
		if perr != nil {
			h.writeError(w, perr)
			return
		}
		err = h.catalog.Refetch(ctx, res)
	} else {
		err = h.catalog.Load(ctx)
	}
	if err != nil {
		h.logger.Warn("catalog refetch failed", zap.Error(err))
		if _, ferr := h.feedback.Push(ctx, feedback.KindError, "Failed to load the menu. Please try again."); ferr != nil {
			h.logger.Warn("feedback push failed", zap.Error(ferr))
		}
	}
	writeJSON(w, http.StatusOK, toStatusResponse(h.catalog.Snapshot()))
}

func (h *Handler) ClearErrors(w http.ResponseWriter, r *http.Request) {
	h.catalog.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCategoriesResponse(h.catalog.Categories(), h.controller.State().Language))
}

// Promotions lists items carrying a discount, for the promotions strip.
func (h *Handler) Promotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toEntriesResponse(h.catalog.Promoted(), h.controller.State().Language))
}

func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.catalog.Entry(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry, h.controller.State().Language))
}

// --- View state ---

func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.controller.SelectCategory(req.Category)
	h.writePage(r.Context(), w)
}

// Search records the query. It is applied after the debounce delay unless
// flush is set.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.controller.SetQuery(req.Query)
	if req.Flush {
		h.controller.FlushQuery()
	}
	h.writePage(r.Context(), w)
}

// Sort toggles the order when field is already active, unless order is given.
func (h *Handler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	var err error
	if req.Order != "" {
		err = h.controller.SetSort(pipeline.SortField(req.Field), pipeline.SortOrder(req.Order))
	} else {
		err = h.controller.ChangeSort(pipeline.SortField(req.Field))
	}
	if err := h.applyView(err); err != nil {
		h.writeError(w, err)
		return
	}
	h.writePage(r.Context(), w)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.applyView(h.controller.SetPage(req.Page, h.catalog.Items())); err != nil {
		h.writeError(w, err)
		return
	}
	h.writePage(r.Context(), w)
}

func (h *Handler) Language(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}
	h.controller.SetLanguage(req.Language)
	h.writePage(r.Context(), w)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.controller.Reset()
	h.writePage(r.Context(), w)
}

// applyView drops a refused view change; the unchanged page is served instead.
func (h *Handler) applyView(err error) error {
	if err != nil && isViewRejection(err) {
		h.logger.Debug("view change ignored", zap.Error(err))
		return nil
	}
	return err
}

func (h *Handler) writePage(ctx context.Context, w http.ResponseWriter) {
	page, err := h.browse.Execute(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, h.catalog.Loading()))
}

// --- Cart ---

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.addToCart.Execute(r.Context(), &add_to_cart.Request{ItemID: req.ItemID}); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusCreated)
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}
	_, err := h.updateCart.Execute(r.Context(), &update_cart.Request{
		ItemID:   chi.URLParam(r, "id"),
		Quantity: *req.Quantity,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) writeCart(w http.ResponseWriter, status int) {
	writeJSON(w, status, toCartResponse(h.cart.Lines(), h.cart.Count(), h.cart.Subtotal()))
}

// --- Feedback ---

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toFeedbackResponse(h.feedback.List()))
}

func (h *Handler) PushFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	kind, err := feedback.ParseKind(req.Kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	msg, err := h.feedback.Push(r.Context(), kind, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedbackResponse([]feedback.Message{msg})[0])
}

func (h *Handler) DrainFeedback(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.feedback.Drain(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackResponse(msgs))
}

func (h *Handler) DismissFeedback(w http.ResponseWriter, r *http.Request) {
	if err := h.feedback.Dismiss(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Admin ---

func (h *Handler) AdminSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"active": h.admin.Active(r.Context())})
}

func (h *Handler) StartAdminSession(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Start(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": true})
}

func (h *Handler) EndAdminSession(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.End(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveRecord creates (POST) or updates (PATCH) a record. The body is either a
// JSON object of fields or a multipart form whose single file part is passed
// through.
func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	resource, err := contracts.ParseResource(chi.URLParam(r, "resource"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	req, cleanup, err := parseSaveRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer cleanup()
	req.Resource = resource
	req.ID = chi.URLParam(r, "id")

	id, err := h.saveRecord.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"id": id})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
