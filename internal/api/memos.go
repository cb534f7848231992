package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-jsonapi/internal/domain"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"github.com/phrazzld/scry-jsonapi/internal/schema"
	"github.com/phrazzld/scry-jsonapi/internal/store"
)

// NewMemoSchema returns the JSON:API schema for memos.
func NewMemoSchema() *schema.Schema[domain.Memo] {
	return schema.New[domain.Memo](domain.MemoResourceType)
}

// MemoDetail serves GET, PATCH and DELETE on a single memo.
type MemoDetail struct {
	store  store.MemoStore
	schema jsonapi.Schema[domain.Memo]
	logger *slog.Logger
}

var _ jsonapi.DetailResource[domain.Memo] = (*MemoDetail)(nil)

// NewMemoDetail creates the single-memo resource.
func NewMemoDetail(s store.MemoStore, logger *slog.Logger) *MemoDetail {
	return &MemoDetail{store: s, schema: NewMemoSchema(), logger: logger}
}

// Schema implements jsonapi.DetailResource.
func (m *MemoDetail) Schema() jsonapi.Schema[domain.Memo] { return m.schema }

// Read implements jsonapi.DetailResource. Malformed ids are reported as
// missing memos.
func (m *MemoDetail) Read(ctx context.Context, id string) (*domain.Memo, error) {
	memoID, err := uuid.Parse(id)
	if err != nil {
		return nil, jsonapi.NotFound("Memo not found.")
	}
	memo, err := m.store.GetByID(ctx, memoID)
	return memo, MapError(err)
}

// Update implements jsonapi.DetailResource. Only the attributes present in
// the request are changed.
func (m *MemoDetail) Update(ctx context.Context, id string, in jsonapi.Input[domain.Memo]) (*domain.Memo, error) {
	memoID, err := uuid.Parse(id)
	if err != nil {
		return nil, jsonapi.NotFound("Memo not found.")
	}

	memo, err := m.store.Update(ctx, memoID, func(current *domain.Memo) error {
		if in.Has("text") {
			current.Text = in.Value.Text
		}
		if in.Has("status") {
			if err := current.UpdateStatus(in.Value.Status); err != nil {
				return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, MapError(err)
	}

	logger.FromContextOrDefault(ctx, m.logger).Info("memo updated",
		slog.String("memo_id", memoID.String()),
		slog.Any("fields", in.Fields))
	return memo, nil
}

// Destroy implements jsonapi.DetailResource.
func (m *MemoDetail) Destroy(ctx context.Context, id string) error {
	memoID, err := uuid.Parse(id)
	if err != nil {
		return jsonapi.NotFound("Memo not found.")
	}
	return MapError(m.store.Delete(ctx, memoID))
}

// MemoList serves GET and POST on the memo collection.
type MemoList struct {
	store  store.MemoStore
	logger *slog.Logger
}

var _ jsonapi.ListResource[domain.Memo] = (*MemoList)(nil)

// NewMemoList creates the memo collection resource.
func NewMemoList(s store.MemoStore, logger *slog.Logger) *MemoList {
	return &MemoList{store: s, logger: logger}
}

// Schema implements jsonapi.ListResource.
func (m *MemoList) Schema() jsonapi.Schema[domain.Memo] { return NewMemoSchema() }

// ReadMany implements jsonapi.ListResource. The collection is returned whole.
func (m *MemoList) ReadMany(ctx context.Context) ([]*domain.Memo, error) {
	memos, err := m.store.List(ctx, store.ListOptions{Limit: store.NoLimit})
	return memos, MapError(err)
}

// Create implements jsonapi.ListResource. A client-generated id is kept when
// the request supplies one.
func (m *MemoList) Create(ctx context.Context, in jsonapi.Input[domain.Memo]) (*domain.Memo, error) {
	memo, err := domain.NewMemo(in.Value.Text)
	if err != nil {
		return nil, MapError(fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	if in.Value.ID != uuid.Nil {
		memo.ID = in.Value.ID
	}
	if in.Value.Status != "" {
		memo.Status = in.Value.Status
	}

	if err := m.store.Create(ctx, memo); err != nil {
		return nil, MapError(err)
	}

	logger.FromContextOrDefault(ctx, m.logger).Info("memo created",
		slog.String("memo_id", memo.ID.String()))
	return memo, nil
}
