// Package order holds pending submissions between screenshot receipt and the admin decision.
// Nothing here is persisted; the store lives for the process lifetime.
package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no submission exists for a user.
var ErrNotFound = errors.New("submission not found")

// MessageRef addresses a sent message so it can be retracted later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// IsZero reports whether the reference points nowhere.
func (r MessageRef) IsZero() bool {
	return r.ChatID == 0 && r.MessageID == 0
}

// Submission is the per-user accumulator of screenshot, transaction id and credentials.
type Submission struct {
	// ID correlates log lines and journal rows; it is not a lookup key.
	ID          uuid.UUID
	UserID      int64
	DisplayName string
	PhotoRef    string
	TxID        string
	Username    string
	Password    string

	ReviewMessage  MessageRef
	ReviewControls MessageRef

	CreatedAt time.Time
}

// New starts a submission for a received screenshot.
func New(userID int64, displayName, photoRef string, now time.Time) Submission {
	return Submission{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: displayName,
		PhotoRef:    photoRef,
		CreatedAt:   now,
	}
}

// Finalized reports whether the submission was dispatched for review.
func (s Submission) Finalized() bool {
	return !s.ReviewMessage.IsZero() && !s.ReviewControls.IsZero()
}

// Complete reports whether every user-supplied field is present.
func (s Submission) Complete() bool {
	return s.PhotoRef != "" && s.TxID != "" && s.Username != "" && s.Password != ""
}
