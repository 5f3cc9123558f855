// Package journal keeps an append-only audit of admin decisions.
// Credentials are never written; pending requests are not persisted here.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one decision row.
type Entry struct {
	ID                uuid.UUID `db:"id"`
	SubmissionID      uuid.UUID `db:"submission_id"`
	UserID            int64     `db:"user_id"`
	TxID              string    `db:"txid"`
	Username          string    `db:"username"`
	Action            string    `db:"action"`
	DecidedBy         int64     `db:"decided_by"`
	DecidedByUsername *string   `db:"decided_by_username"`
	DecidedAt         time.Time `db:"decided_at"`
}

// Journal records decisions.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Enabled() bool
}

func (e Entry) normalized(now time.Time) Entry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.DecidedAt.IsZero() {
		e.DecidedAt = now
	}
	e.DecidedAt = e.DecidedAt.UTC()
	return e
}

// Noop is used when no database is configured.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error { return nil }

func (Noop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

func (Noop) Enabled() bool { return false }
