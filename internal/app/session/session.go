// Package session tracks the demonstration admin login flag. It performs no
// authentication; it only remembers when the flag was set and expires it
// after a fixed wall-clock period.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/storefront/internal/pkg/clock"
	"github.com/light-bringer/storefront/internal/pkg/storage"
)

const (
	// StorageKey is where the flag is persisted.
	StorageKey = "admin_session"

	// TTL is how long a login stays active.
	TTL = 24 * time.Hour
)

type record struct {
	LoggedInAt time.Time `json:"logged_in_at"`
}

// Admin is the persisted admin flag.
type Admin struct {
	storage storage.Store
	clock   clock.Clock
	logger  *zap.Logger
}

// NewAdmin creates the session tracker.
func NewAdmin(st storage.Store, clk clock.Clock, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{storage: st, clock: clk, logger: logger}
}

// Start records a login at the current time.
func (a *Admin) Start(ctx context.Context) error {
	data, err := json.Marshal(record{LoggedInAt: a.clock.Now().UTC()})
	if err != nil {
		return err
	}
	if err := a.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("start admin session: %w", err)
	}
	return nil
}

// Active reports whether a login exists and is younger than TTL. Expired or
// unreadable flags are cleared.
func (a *Admin) Active(ctx context.Context) bool {
	data, err := a.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		a.logger.Warn("admin session read failed", zap.String("key", StorageKey), zap.Error(err))
		return false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.LoggedInAt.IsZero() {
		a.logger.Warn("discarding malformed admin session", zap.String("key", StorageKey))
		a.clear(ctx)
		return false
	}

	if a.clock.Now().Sub(rec.LoggedInAt) > TTL {
		a.clear(ctx)
		return false
	}
	return true
}

// End clears the flag.
func (a *Admin) End(ctx context.Context) error {
	if err := a.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("end admin session: %w", err)
	}
	return nil
}

func (a *Admin) clear(ctx context.Context) {
	if err := a.storage.Delete(ctx, StorageKey); err != nil {
		a.logger.Warn("admin session clear failed", zap.String("key", StorageKey), zap.Error(err))
	}
}
