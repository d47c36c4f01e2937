package save_record

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/gateway"
	"github.com/light-bringer/storefront/internal/app/feedback"
)

// ErrNotAdmin is returned when no admin session is active.
var ErrNotAdmin = errors.New("admin session required")

// Saver sends one admin mutation to the backend.
type Saver interface {
	Save(ctx context.Context, m gateway.Mutation) (string, error)
}

// Refetcher reloads one catalog resource.
type Refetcher interface {
	Refetch(ctx context.Context, r contracts.Resource) error
}

// SessionChecker reports whether the admin flag is set.
type SessionChecker interface {
	Active(ctx context.Context) bool
}

// Request is one create (empty ID) or update.
type Request struct {
	Resource  contracts.Resource
	ID        string
	Fields    map[string]any
	FileField string
	FileName  string
	File      io.Reader
}

// Interactor handles admin saves of categories, menu items and promotions.
type Interactor struct {
	saver    Saver
	catalog  Refetcher
	session  SessionChecker
	feedback *feedback.Queue
	logger   *zap.Logger
}

// NewInteractor creates a new save record interactor.
func NewInteractor(saver Saver, catalog Refetcher, session SessionChecker, queue *feedback.Queue, logger *zap.Logger) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{saver: saver, catalog: catalog, session: session, feedback: queue, logger: logger}
}

// Execute saves the record, queues a feedback message describing the outcome
// and refetches the affected resource so the storefront shows the change.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	if !i.session.Active(ctx) {
		return "", ErrNotAdmin
	}
	if _, err := contracts.ParseResource(string(req.Resource)); err != nil {
		return "", err
	}

	id, err := i.saver.Save(ctx, gateway.Mutation{
		Resource:  req.Resource,
		ID:        req.ID,
		Fields:    req.Fields,
		FileField: req.FileField,
		FileName:  req.FileName,
		File:      req.File,
	})
	if err != nil {
		i.notify(ctx, feedback.KindError, fmt.Sprintf("Could not save %s: %v", req.Resource, err))
		return "", err
	}

	i.notify(ctx, feedback.KindSuccess, fmt.Sprintf("Saved %s %s", req.Resource, id))

	// The save already succeeded; a failed refetch surfaces through the
	// catalog error state.
	if err := i.catalog.Refetch(ctx, req.Resource); err != nil {
		i.logger.Warn("refetch after save failed", zap.String("resource", string(req.Resource)), zap.Error(err))
	}
	return id, nil
}

func (i *Interactor) notify(ctx context.Context, kind feedback.Kind, text string) {
	if _, err := i.feedback.Push(ctx, kind, text); err != nil {
		i.logger.Warn("feedback push failed", zap.Error(err))
	}
}
