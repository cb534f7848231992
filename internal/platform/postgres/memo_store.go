package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-jsonapi/internal/domain"
	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"github.com/phrazzld/scry-jsonapi/internal/redact"
	"github.com/phrazzld/scry-jsonapi/internal/store"
)

const memoColumns = `id, text, status, created_at, updated_at`

// MemoStore implements store.MemoStore on PostgreSQL.
type MemoStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.MemoStore = (*MemoStore)(nil)

// NewMemoStore creates a MemoStore on db. If logger is nil, slog.Default is
// used.
func NewMemoStore(db *sql.DB, logger *slog.Logger) *MemoStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoStore{
		db:     db,
		logger: logger.With(slog.String("component", "memo_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create implements store.MemoStore.
func (s *MemoStore) Create(ctx context.Context, memo *domain.Memo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := memo.Validate(); err != nil {
		log.Warn("memo validation failed during create",
			slog.String("error", err.Error()),
			slog.String("memo_id", memo.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memos (`+memoColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		memo.ID, memo.Text, string(memo.Status), memo.CreatedAt, memo.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create memo",
			slog.String("error", redact.Error(err)),
			slog.String("memo_id", memo.ID.String()))
		return store.NewStoreError("memo", "create", "insert failed", MapError(err))
	}

	log.Info("memo created",
		slog.String("memo_id", memo.ID.String()),
		slog.String("status", string(memo.Status)))
	return nil
}

// GetByID implements store.MemoStore.
func (s *MemoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memo, error) {
	return s.get(ctx, s.db, id, false)
}

// List implements store.MemoStore.
func (s *MemoStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.Memo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// LIMIT NULL is no limit.
	var limit any
	if !opts.Unbounded() {
		limit = opts.EffectiveLimit()
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoColumns+` FROM memos ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, max(0, opts.Offset),
	)
	if err != nil {
		log.Error("failed to list memos", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("memo", "list", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", redact.Error(err)))
		}
	}()

	memos := []*domain.Memo{}
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			log.Error("failed to scan memo row", slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError("memo", "list", "scan failed", err)
		}
		memos = append(memos, memo)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("memo", "list", "row iteration failed", MapError(err))
	}

	log.Debug("listed memos", slog.Int("count", len(memos)))
	return memos, nil
}

// Update implements store.MemoStore. The row is locked for the duration of
// the mutation.
func (s *MemoStore) Update(ctx context.Context, id uuid.UUID, fn store.MutateFn) (*domain.Memo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Memo
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		memo, err := s.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(memo); err != nil {
			return err
		}
		memo.ID = id
		memo.UpdatedAt = s.now()
		if err := memo.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE memos SET text = $1, status = $2, updated_at = $3 WHERE id = $4`,
			memo.Text, string(memo.Status), memo.UpdatedAt, memo.ID,
		)
		if err != nil {
			return store.NewStoreError("memo", "update", "update failed", MapError(err))
		}
		if err := CheckRowsAffected(result, store.ErrMemoNotFound); err != nil {
			return err
		}
		updated = memo
		return nil
	})
	if err != nil {
		log.Debug("memo update aborted",
			slog.String("memo_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, err
	}

	log.Info("memo updated", slog.String("memo_id", id.String()))
	return updated, nil
}

// Delete implements store.MemoStore.
func (s *MemoStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM memos WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete memo",
			slog.String("error", redact.Error(err)),
			slog.String("memo_id", id.String()))
		return store.NewStoreError("memo", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrMemoNotFound); err != nil {
		return err
	}

	log.Info("memo deleted", slog.String("memo_id", id.String()))
	return nil
}

func (s *MemoStore) get(ctx context.Context, db store.DBTX, id uuid.UUID, forUpdate bool) (*domain.Memo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + memoColumns + ` FROM memos WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	memo, err := scanMemo(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("memo not found", slog.String("memo_id", id.String()))
			return nil, store.ErrMemoNotFound
		}
		log.Error("failed to get memo by ID",
			slog.String("error", redact.Error(err)),
			slog.String("memo_id", id.String()))
		return nil, store.NewStoreError("memo", "get", "query failed", MapError(err))
	}
	return memo, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (*domain.Memo, error) {
	var (
		memo   domain.Memo
		status string
	)
	if err := row.Scan(&memo.ID, &memo.Text, &status, &memo.CreatedAt, &memo.UpdatedAt); err != nil {
		return nil, err
	}
	memo.Status = domain.MemoStatus(status)
	return &memo, nil
}
