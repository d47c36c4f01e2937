package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/storefront/internal/pkg/clock"
	"github.com/light-bringer/storefront/internal/pkg/storage"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestQueue_PushListDismiss(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(t0)
	q := NewQueue(ctx, storage.NewMemoryStore(), clk, nil)

	first, err := q.Push(ctx, KindSuccess, "Saved")
	require.NoError(t, err)
	clk.Advance(time.Second)
	second, err := q.Push(ctx, KindError, "Failed to load promotions")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(t0))

	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Saved", list[0].Text)

	require.NoError(t, q.Dismiss(ctx, first.ID))
	assert.ErrorIs(t, q.Dismiss(ctx, first.ID), ErrMessageNotFound)
	assert.Len(t, q.List(), 1)
}

func TestQueue_Validation(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(ctx, storage.NewMemoryStore(), clock.NewMockClock(t0), nil)

	_, err := q.Push(ctx, Kind("shout"), "x")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = q.Push(ctx, KindInfo, "")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, q.List())
}

func TestQueue_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	clk := clock.NewMockClock(t0)

	q := NewQueue(ctx, mem, clk, nil)
	msg, err := q.Push(ctx, KindInfo, "Welcome back")
	require.NoError(t, err)

	reloaded := NewQueue(ctx, mem, clk, nil)
	list := reloaded.List()
	require.Len(t, list, 1)
	assert.Equal(t, msg.ID, list[0].ID)

	drained, err := reloaded.Drain(ctx)
	require.NoError(t, err)
	assert.Len(t, drained, 1)
	assert.Empty(t, NewQueue(ctx, mem, clk, nil).List())
}

func TestQueue_CorruptStateDiscarded(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, StorageKey, []byte(`{"oops":true}`)))

	q := NewQueue(ctx, mem, clock.NewMockClock(t0), nil)
	assert.Empty(t, q.List())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("error")
	require.NoError(t, err)
	assert.Equal(t, KindError, k)

	_, err = ParseKind("")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
