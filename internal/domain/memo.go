package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MemoStatus represents the processing state of a memo.
type MemoStatus string

// Possible memo status values.
const (
	MemoStatusPending             MemoStatus = "pending"
	MemoStatusProcessing          MemoStatus = "processing"
	MemoStatusCompleted           MemoStatus = "completed"
	MemoStatusCompletedWithErrors MemoStatus = "completed_with_errors"
	MemoStatusFailed              MemoStatus = "failed"
)

// MemoResourceType is the JSON:API type of a memo.
const MemoResourceType = "memos"

// MaxMemoTextLength bounds a memo body, in characters.
const MaxMemoTextLength = 10000

// Memo is a text entry. The struct tags drive its JSON:API representation:
// the id travels outside the attributes and timestamps are server-generated.
type Memo struct {
	ID        uuid.UUID  `json:"-"          jsonapi:"id"`
	Text      string     `json:"text"       validate:"required,max=10000"`
	Status    MemoStatus `json:"status"     validate:"omitempty,oneof=pending processing completed completed_with_errors failed"`
	CreatedAt time.Time  `json:"created_at" jsonapi:"readonly"`
	UpdatedAt time.Time  `json:"updated_at" jsonapi:"readonly"`
}

// NewMemo creates a pending memo with a fresh id and timestamps.
func NewMemo(text string) (*Memo, error) {
	now := time.Now().UTC()
	memo := &Memo{
		ID:        uuid.New(),
		Text:      text,
		Status:    MemoStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := memo.Validate(); err != nil {
		return nil, err
	}
	return memo, nil
}

// Validate checks the invariants every stored memo must hold.
func (m *Memo) Validate() error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("%w: memo id is empty", ErrInvalidID)
	}
	if m.Text == "" {
		return fmt.Errorf("%w: memo text", ErrEmptyContent)
	}
	if utf8.RuneCountInString(m.Text) > MaxMemoTextLength {
		return fmt.Errorf("%w: memo text exceeds %d characters", ErrValidation, MaxMemoTextLength)
	}
	if !m.Status.Valid() {
		return ErrInvalidMemoStatus
	}
	return nil
}

// UpdateStatus updates the memo's status and its UpdatedAt timestamp.
func (m *Memo) UpdateStatus(status MemoStatus) error {
	if !status.Valid() {
		return ErrInvalidMemoStatus
	}

	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Valid reports whether s is a known status.
func (s MemoStatus) Valid() bool {
	switch s {
	case MemoStatusPending, MemoStatusProcessing, MemoStatusCompleted,
		MemoStatusCompletedWithErrors, MemoStatusFailed:
		return true
	default:
		return false
	}
}
