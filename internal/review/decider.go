package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlekSi/pointer"

	"github.com/tking/ebookbot/core/logger"
	"github.com/tking/ebookbot/internal/journal"
	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/transport"
)

// Outcome of a processed decision, used for the handler summary line.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDeclined Outcome = "declined"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "fail"
)

// Admin identifies who pressed the button.
type Admin struct {
	ID       int64
	Username string
}

// Event is a pressed review button.
type Event struct {
	CallbackID string
	Decision   Decision
	Admin      Admin
}

// DeciderOptions configures a Decider.
type DeciderOptions struct {
	Store       order.Store
	Transport   transport.Transport
	Journal     journal.Journal
	AdminChatID int64
	SupportLink string
	AccessLink  string
	Now         func() time.Time
}

// Decider applies admin decisions to pending submissions.
type Decider struct {
	store       order.Store
	tr          transport.Transport
	journal     journal.Journal
	adminChatID int64
	supportLink string
	accessLink  string
	now         func() time.Time
}

// NewDecider builds a Decider. A nil journal disables auditing.
func NewDecider(opts DeciderOptions) *Decider {
	d := &Decider{
		store:       opts.Store,
		tr:          opts.Transport,
		journal:     opts.Journal,
		adminChatID: opts.AdminChatID,
		supportLink: opts.SupportLink,
		accessLink:  opts.AccessLink,
		now:         opts.Now,
	}
	if d.journal == nil {
		d.journal = journal.Noop{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Decide acknowledges the callback, retracts the review messages, notifies the user
// and drops the submission, in that order. The submission is deleted only after the
// user was notified. Errors and panics are reported to the admin chat and returned.
func (d *Decider) Decide(ctx context.Context, ev Event) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decide: panic: %v", r)
		}
		if err != nil {
			out = OutcomeFailed
			d.reportFailure(ctx, ev, err)
		}
	}()

	if err := d.tr.AckCallback(ctx, ev.CallbackID); err != nil {
		return OutcomeFailed, err
	}
	if !ev.Decision.Action.Valid() {
		return OutcomeFailed, fmt.Errorf("decide: %w", ErrInvalidDecision)
	}

	sub, ok := d.store.Get(ev.Decision.UserID)
	if !ok || !sub.Finalized() {
		logger.Info(ctx, "service.review", "review.stale",
			slog.String("status", "skip"),
			slog.String("action", string(ev.Decision.Action)),
			slog.Int64("target_user_id", ev.Decision.UserID),
			slog.Bool("in_progress", ok),
		)
		if _, err := d.tr.SendText(ctx, d.adminChatID, msgNotFound); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeNotFound, nil
	}

	d.retract(ctx, sub)

	switch ev.Decision.Action {
	case ActionApprove:
		_, err = d.tr.SendText(ctx, sub.UserID, approvedText(sub.Username, sub.Password, d.accessLink))
		out = OutcomeApproved
	case ActionDecline:
		_, err = d.tr.SendText(ctx, sub.UserID, declinedText(d.supportLink))
		out = OutcomeDeclined
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("notify user: %w", err)
	}

	d.record(ctx, ev, sub)
	d.store.Delete(sub.UserID)

	logger.Info(ctx, "service.review", "review.decided",
		slog.String("status", "ok"),
		slog.String("outcome", string(out)),
		slog.String("submission_id", sub.ID.String()),
		slog.Int64("target_user_id", sub.UserID),
		slog.Int("pending_count", d.store.Len()),
	)
	return out, nil
}

// retract deletes both admin messages; failures are logged and ignored.
func (d *Decider) retract(ctx context.Context, sub order.Submission) {
	for _, ref := range []order.MessageRef{sub.ReviewMessage, sub.ReviewControls} {
		if err := d.tr.Delete(ctx, ref); err != nil {
			logger.Warn(ctx, "service.review", "review.retract",
				slog.String("status", "fail"),
				slog.String("submission_id", sub.ID.String()),
				slog.Int("message_id", ref.MessageID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}
}

func (d *Decider) record(ctx context.Context, ev Event, sub order.Submission) {
	if !d.journal.Enabled() {
		return
	}
	err := d.journal.Record(ctx, journal.Entry{
		SubmissionID:      sub.ID,
		UserID:            sub.UserID,
		TxID:              sub.TxID,
		Username:          sub.Username,
		Action:            string(ev.Decision.Action),
		DecidedBy:         ev.Admin.ID,
		DecidedByUsername: pointer.ToStringOrNil(ev.Admin.Username),
		DecidedAt:         d.now(),
	})
	if err != nil {
		logger.Warn(ctx, "service.journal", "journal.record",
			slog.String("status", "fail"),
			slog.String("submission_id", sub.ID.String()),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}

func (d *Decider) reportFailure(ctx context.Context, ev Event, cause error) {
	attrs := []slog.Attr{
		slog.String("status", "fail"),
		slog.String("action", string(ev.Decision.Action)),
		slog.Int64("target_user_id", ev.Decision.UserID),
		slog.Bool("invalid", errors.Is(cause, ErrInvalidDecision)),
		slog.String("err", logger.SanitizeLimit(cause.Error(), 256)),
	}
	if _, err := d.tr.SendText(ctx, d.adminChatID, processingErrorText(d.supportLink)); err != nil {
		attrs = append(attrs, slog.String("notify_err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.Error(ctx, "service.review", "review.failed", attrs...)
}
