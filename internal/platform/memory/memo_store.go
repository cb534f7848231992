package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-jsonapi/internal/domain"
	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"github.com/phrazzld/scry-jsonapi/internal/store"
)

// MemoStore keeps memos in a map guarded by a RWMutex. Values are copied on
// the way in and out so callers never share state with the store.
type MemoStore struct {
	mu     sync.RWMutex
	memos  map[uuid.UUID]domain.Memo
	logger *slog.Logger
	now    func() time.Time
}

var _ store.MemoStore = (*MemoStore)(nil)

// NewMemoStore returns an empty store.
func NewMemoStore(logger *slog.Logger) *MemoStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoStore{
		memos:  make(map[uuid.UUID]domain.Memo),
		logger: logger.With(slog.String("component", "memory_memo_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create implements store.MemoStore.
func (s *MemoStore) Create(ctx context.Context, memo *domain.Memo) error {
	if err := memo.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.memos[memo.ID]; exists {
		return store.NewStoreError("memo", "create", "id already in use", store.ErrDuplicate)
	}
	s.memos[memo.ID] = *memo

	logger.FromContextOrDefault(ctx, s.logger).Debug("memo created",
		slog.String("memo_id", memo.ID.String()))
	return nil
}

// GetByID implements store.MemoStore.
func (s *MemoStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memo, ok := s.memos[id]
	if !ok {
		return nil, store.ErrMemoNotFound
	}
	return &memo, nil
}

// List implements store.MemoStore.
func (s *MemoStore) List(_ context.Context, opts store.ListOptions) ([]*domain.Memo, error) {
	s.mu.RLock()
	all := make([]*domain.Memo, 0, len(s.memos))
	for _, memo := range s.memos {
		all = append(all, &memo)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	offset := max(0, opts.Offset)
	if offset >= len(all) {
		return []*domain.Memo{}, nil
	}
	end := len(all)
	if !opts.Unbounded() {
		end = min(end, offset+opts.EffectiveLimit())
	}
	return all[offset:end], nil
}

// Update implements store.MemoStore. The write lock is held while fn runs.
func (s *MemoStore) Update(ctx context.Context, id uuid.UUID, fn store.MutateFn) (*domain.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.memos[id]
	if !ok {
		return nil, store.ErrMemoNotFound
	}

	working := current
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = id
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = s.now()
	if err := working.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.memos[id] = working

	logger.FromContextOrDefault(ctx, s.logger).Debug("memo updated",
		slog.String("memo_id", id.String()))
	out := working
	return &out, nil
}

// Delete implements store.MemoStore.
func (s *MemoStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memos[id]; !ok {
		return store.ErrMemoNotFound
	}
	delete(s.memos, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("memo deleted",
		slog.String("memo_id", id.String()))
	return nil
}
