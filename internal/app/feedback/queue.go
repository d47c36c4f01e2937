// Package feedback holds user-facing notifications (save confirmations,
// load failures) until the UI shows and dismisses them. The queue is
// persisted so messages raised just before a reload are not lost.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/storefront/internal/pkg/clock"
	"github.com/light-bringer/storefront/internal/pkg/storage"
)

// StorageKey is where the queue is persisted.
const StorageKey = "feedback"

// Kind classifies a message for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

var (
	ErrMessageNotFound = errors.New("feedback message not found")
	ErrUnknownKind     = errors.New("unknown feedback kind")
	ErrEmptyText       = errors.New("feedback text is empty")
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSuccess, KindError, KindInfo:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Message is one queued notification.
type Message struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue is a FIFO of messages backed by storage.
type Queue struct {
	mu       sync.Mutex
	messages []Message
	storage  storage.Store
	clock    clock.Clock
	logger   *zap.Logger
}

// NewQueue hydrates the queue from storage. A malformed value is discarded.
func NewQueue(ctx context.Context, st storage.Store, clk clock.Clock, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{storage: st, clock: clk, logger: logger}

	data, err := st.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		logger.Warn("feedback hydration failed", zap.String("key", StorageKey), zap.Error(err))
	default:
		if err := json.Unmarshal(data, &q.messages); err != nil {
			logger.Warn("discarding persisted feedback", zap.String("key", StorageKey), zap.Error(err))
			q.messages = nil
		}
	}
	return q
}

// Push appends a message and returns it.
func (q *Queue) Push(ctx context.Context, kind Kind, text string) (Message, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Message{}, err
	}
	if text == "" {
		return Message{}, ErrEmptyText
	}

	msg := Message{ID: uuid.NewString(), Kind: kind, Text: text, CreatedAt: q.clock.Now().UTC()}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msg)
	return msg, q.persist(ctx)
}

// List returns the queued messages, oldest first.
func (q *Queue) List() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Message(nil), q.messages...)
}

// Dismiss removes one message.
func (q *Queue) Dismiss(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, m := range q.messages {
		if m.ID == id {
			q.messages = append(q.messages[:i], q.messages[i+1:]...)
			return q.persist(ctx)
		}
	}
	return ErrMessageNotFound
}

// Drain removes and returns every message.
func (q *Queue) Drain(ctx context.Context) ([]Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.messages
	q.messages = nil
	if err := q.storage.Delete(ctx, StorageKey); err != nil {
		q.logger.Warn("feedback write failed", zap.String("key", StorageKey), zap.Error(err))
		return out, fmt.Errorf("persist feedback: %w", err)
	}
	return out, nil
}

func (q *Queue) persist(ctx context.Context) error {
	msgs := q.messages
	if msgs == nil {
		msgs = []Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	if err := q.storage.Set(ctx, StorageKey, data); err != nil {
		q.logger.Warn("feedback write failed", zap.String("key", StorageKey), zap.Error(err))
		return fmt.Errorf("persist feedback: %w", err)
	}
	return nil
}
