package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/storefront/internal/models/m_kv"
	"github.com/light-bringer/storefront/internal/pkg/committer"
	"github.com/light-bringer/storefront/internal/pkg/query"
)

// SpannerStore persists values in the kv_store table (see migrations/).
type SpannerStore struct {
	client    *spanner.Client
	model     *m_kv.Model
	committer *committer.Committer
}

// OpenSpanner creates a client for database
// (projects/P/instances/I/databases/D).
func OpenSpanner(ctx context.Context, database string) (*SpannerStore, error) {
	client, err := spanner.NewClient(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("storage: spanner client: %w", err)
	}
	return NewSpannerStore(client), nil
}

// NewSpannerStore wraps an existing client.
func NewSpannerStore(client *spanner.Client) *SpannerStore {
	return &SpannerStore{
		client:    client,
		model:     m_kv.NewModel(),
		committer: committer.NewCommitter(client),
	}
}

func (s *SpannerStore) Get(ctx context.Context, key string) ([]byte, error) {
	stmt := query.From(m_kv.TableName).
		Select(m_kv.ReadColumns()...).
		Where(query.Eq(m_kv.StorageKey, key)).
		Limit(1).
		Build()

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifySpanner("get", key, err)
	}

	data, err := m_kv.FromRow(row)
	if err != nil {
		return nil, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return data.Value, nil
}

func (s *SpannerStore) Set(ctx context.Context, key string, value []byte) error {
	plan := committer.NewPlan()
	plan.Add(s.model.UpsertMut(&m_kv.Data{StorageKey: key, Value: value}))
	if err := s.committer.Apply(ctx, plan); err != nil {
		return classifySpanner("set", key, err)
	}
	return nil
}

func (s *SpannerStore) Delete(ctx context.Context, key string) error {
	plan := committer.NewPlan()
	plan.Add(s.model.DeleteMut(key))
	if err := s.committer.Apply(ctx, plan); err != nil {
		return classifySpanner("delete", key, err)
	}
	return nil
}

func (s *SpannerStore) Close() error {
	s.client.Close()
	return nil
}

// classifySpanner maps gRPC codes onto the package's error vocabulary.
func classifySpanner(op, key string, err error) error {
	switch spanner.ErrCode(err) {
	case codes.NotFound:
		return fmt.Errorf("storage: %s %q: %w", op, key, ErrNotFound)
	case codes.Canceled:
		return fmt.Errorf("storage: %s %q: %w", op, key, context.Canceled)
	case codes.DeadlineExceeded:
		return fmt.Errorf("storage: %s %q: %w", op, key, context.DeadlineExceeded)
	default:
		return fmt.Errorf("storage: %s %q: %w", op, key, err)
	}
}
