package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifySpanner(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", status.Error(codes.NotFound, "Table not found: kv_store"), ErrNotFound},
		{"canceled", status.Error(codes.Canceled, "canceled"), context.Canceled},
		{"deadline", fmt.Errorf("wrapped: %w", status.Error(codes.DeadlineExceeded, "slow")), context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifySpanner("get", "cart", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), `get "cart"`)
		})
	}

	t.Run("other codes pass through", func(t *testing.T) {
		orig := status.Error(codes.Internal, "oops")
		err := classifySpanner("set", "cart", orig)
		assert.True(t, errors.Is(err, orig))
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

// TestSpannerStore_Integration runs against the emulator. It expects
// SPANNER_EMULATOR_HOST and SPANNER_DATABASE to point at a database that has
// migrations/001_kv_store.sql applied.
func TestSpannerStore_Integration(t *testing.T) {
	if os.Getenv("SPANNER_EMULATOR_HOST") == "" || os.Getenv("SPANNER_DATABASE") == "" {
		t.Skip("Skipping Spanner integration test: emulator not configured")
	}

	s, err := OpenSpanner(context.Background(), os.Getenv("SPANNER_DATABASE"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}
