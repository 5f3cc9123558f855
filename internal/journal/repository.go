package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tking/ebookbot/core/logger"
)

// Repository stores entries in the decisions table.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewRepository wraps an open connection.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) Enabled() bool { return true }

func (r *Repository) Record(ctx context.Context, e Entry) error {
	e = e.normalized(r.now())
	start := time.Now()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO decisions
		(id, submission_id, user_id, txid, username, action, decided_by, decided_by_username, decided_at)
		VALUES (:id, :submission_id, :user_id, :txid, :username, :action, :decided_by, :decided_by_username, :decided_at)
	`, e)
	logger.Debug(ctx, "service.journal", "journal.record",
		slog.String("status", logger.Status(err)),
		slog.String("submission_id", e.SubmissionID.String()),
		slog.String("action", e.Action),
		slog.Duration("duration", time.Since(start)),
	)
	if err != nil {
		return fmt.Errorf("Repository.Record: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, submission_id, user_id, txid, username, action, decided_by, decided_by_username, decided_at
		FROM decisions
		ORDER BY decided_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("Repository.Recent: %w", err)
	}
	return entries, nil
}
