package committer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	calls [][]*spanner.Mutation
	err   error
}

func (r *recordingApplier) Apply(_ context.Context, ms []*spanner.Mutation, _ ...spanner.ApplyOption) (time.Time, error) {
	r.calls = append(r.calls, ms)
	return time.Time{}, r.err
}

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty())

	plan.Add(spanner.Delete("kv_store", spanner.Key{"cart"}))
	plan.Add(spanner.Delete("kv_store", spanner.Key{"feedback"}))
	assert.Equal(t, 2, plan.Count())
	assert.Len(t, plan.Mutations(), 2)
}

func TestCommitter_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("empty plan skips the client", func(t *testing.T) {
		rec := &recordingApplier{}
		require.NoError(t, NewCommitter(rec).Apply(ctx, NewPlan()))
		assert.Empty(t, rec.calls)
	})

	t.Run("applies all mutations in one call", func(t *testing.T) {
		rec := &recordingApplier{}
		plan := NewPlan()
		plan.Add(spanner.Delete("kv_store", spanner.Key{"cart"}))
		plan.Add(spanner.Delete("kv_store", spanner.Key{"feedback"}))

		require.NoError(t, NewCommitter(rec).Apply(ctx, plan))
		require.Len(t, rec.calls, 1)
		assert.Len(t, rec.calls[0], 2)
	})

	t.Run("wraps client errors", func(t *testing.T) {
		boom := errors.New("boom")
		plan := NewPlan()
		plan.Add(spanner.Delete("kv_store", spanner.Key{"cart"}))

		err := NewCommitter(&recordingApplier{err: boom}).Apply(ctx, plan)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to apply commit plan")
	})
}
