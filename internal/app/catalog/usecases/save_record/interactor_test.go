package save_record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/gateway"
	"github.com/light-bringer/storefront/internal/app/feedback"
	"github.com/light-bringer/storefront/internal/pkg/clock"
	"github.com/light-bringer/storefront/internal/pkg/storage"
)

type fakeSaver struct {
	got []gateway.Mutation
	id  string
	err error
}

func (f *fakeSaver) Save(_ context.Context, m gateway.Mutation) (string, error) {
	f.got = append(f.got, m)
	return f.id, f.err
}

type fakeRefetcher struct {
	refetched []contracts.Resource
	err       error
}

func (f *fakeRefetcher) Refetch(_ context.Context, r contracts.Resource) error {
	f.refetched = append(f.refetched, r)
	return f.err
}

type sessionFlag bool

func (s sessionFlag) Active(context.Context) bool { return bool(s) }

func setup(active bool, saver *fakeSaver, ref *fakeRefetcher) (*Interactor, *feedback.Queue) {
	ctx := context.Background()
	queue := feedback.NewQueue(ctx, storage.NewMemoryStore(), clock.NewMockClock(time.Now()), nil)
	return NewInteractor(saver, ref, sessionFlag(active), queue, nil), queue
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("saves, notifies and refetches", func(t *testing.T) {
		saver := &fakeSaver{id: "42"}
		ref := &fakeRefetcher{}
		uc, queue := setup(true, saver, ref)

		id, err := uc.Execute(ctx, &Request{
			Resource: contracts.ResourcePromotions,
			Fields:   map[string]any{"discount_percentage": 10},
		})
		require.NoError(t, err)
		assert.Equal(t, "42", id)

		require.Len(t, saver.got, 1)
		assert.Equal(t, contracts.ResourcePromotions, saver.got[0].Resource)
		assert.Equal(t, []contracts.Resource{contracts.ResourcePromotions}, ref.refetched)

		msgs := queue.List()
		require.Len(t, msgs, 1)
		assert.Equal(t, feedback.KindSuccess, msgs[0].Kind)
	})

	t.Run("refetch failure does not fail the save", func(t *testing.T) {
		uc, _ := setup(true, &fakeSaver{id: "1"}, &fakeRefetcher{err: errors.New("offline")})

		id, err := uc.Execute(ctx, &Request{Resource: contracts.ResourceCategories, ID: "1"})
		require.NoError(t, err)
		assert.Equal(t, "1", id)
	})

	t.Run("backend error is queued and returned", func(t *testing.T) {
		fe := &gateway.FetchError{Resource: "menu_items", Status: 400, Message: "bad price"}
		ref := &fakeRefetcher{}
		uc, queue := setup(true, &fakeSaver{err: fe}, ref)

		_, err := uc.Execute(ctx, &Request{Resource: contracts.ResourceMenuItems})
		assert.ErrorAs(t, err, &fe)
		assert.Empty(t, ref.refetched)

		msgs := queue.List()
		require.Len(t, msgs, 1)
		assert.Equal(t, feedback.KindError, msgs[0].Kind)
	})

	t.Run("requires admin session", func(t *testing.T) {
		saver := &fakeSaver{}
		uc, _ := setup(false, saver, &fakeRefetcher{})

		_, err := uc.Execute(ctx, &Request{Resource: contracts.ResourceMenuItems})
		assert.ErrorIs(t, err, ErrNotAdmin)
		assert.Empty(t, saver.got)
	})

	t.Run("unknown resource", func(t *testing.T) {
		uc, _ := setup(true, &fakeSaver{}, &fakeRefetcher{})

		_, err := uc.Execute(ctx, &Request{Resource: "orders"})
		assert.ErrorIs(t, err, contracts.ErrUnknownResource)
	})
}
