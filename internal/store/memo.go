package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-jsonapi/internal/domain"
)

// DefaultListLimit caps List when ListOptions.Limit is zero.
const DefaultListLimit = 100

// NoLimit asks List for every memo from Offset on.
const NoLimit = -1

// ListOptions paginates List. A negative Limit disables the cap.
type ListOptions struct {
	Limit  int
	Offset int
}

// Unbounded reports whether the caller asked for no limit.
func (o ListOptions) Unbounded() bool { return o.Limit < 0 }

// EffectiveLimit returns the limit for a bounded List, substituting
// DefaultListLimit for zero and clamping larger values to it.
func (o ListOptions) EffectiveLimit() int {
	if o.Limit <= 0 || o.Limit > DefaultListLimit {
		return DefaultListLimit
	}
	return o.Limit
}

// MutateFn changes a memo in place during Update. Returning an error aborts
// the update and leaves the stored memo unchanged.
type MutateFn func(memo *domain.Memo) error

// MemoStore defines the interface for memo data persistence.
type MemoStore interface {
	// Create saves a new memo.
	// Returns ErrInvalidEntity if the memo fails domain validation and
	// ErrDuplicate if a memo with the same id exists.
	Create(ctx context.Context, memo *domain.Memo) error

	// GetByID retrieves a memo by its unique ID.
	// Returns ErrMemoNotFound if the memo does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Memo, error)

	// List returns memos ordered by creation time, oldest first.
	List(ctx context.Context, opts ListOptions) ([]*domain.Memo, error)

	// Update applies fn to the stored memo atomically and returns the result.
	// Returns ErrMemoNotFound if the memo does not exist and ErrInvalidEntity
	// if the mutated memo fails domain validation.
	Update(ctx context.Context, id uuid.UUID, fn MutateFn) (*domain.Memo, error)

	// Delete removes a memo.
	// Returns ErrMemoNotFound if the memo does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
