package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tking/ebookbot/core/logger"
	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/transport"
)

// Dispatcher renders a submission for the admin chat.
type Dispatcher struct {
	tr          transport.Transport
	adminChatID int64
}

// NewDispatcher returns a Dispatcher posting to adminChatID.
func NewDispatcher(tr transport.Transport, adminChatID int64) *Dispatcher {
	return &Dispatcher{tr: tr, adminChatID: adminChatID}
}

// Dispatch sends the screenshot with the submission as caption, then the approve/decline
// controls. It returns both message refs; the first failure aborts.
func (d *Dispatcher) Dispatch(ctx context.Context, sub order.Submission) (order.MessageRef, order.MessageRef, error) {
	caption := reviewCaption(sub.DisplayName, sub.UserID, sub.TxID, sub.Username, sub.Password)
	msg, err := d.tr.SendPhoto(ctx, d.adminChatID, sub.PhotoRef, caption)
	if err != nil {
		return order.MessageRef{}, order.MessageRef{}, fmt.Errorf("dispatch review: %w", err)
	}

	buttons := make([]transport.Button, 0, len(Actions))
	for _, a := range Actions {
		buttons = append(buttons, Decision{Action: a, UserID: sub.UserID}.Button(label(a)))
	}
	controls, err := d.tr.SendControls(ctx, d.adminChatID, controlsPrompt, buttons)
	if err != nil {
		return msg, order.MessageRef{}, fmt.Errorf("dispatch controls: %w", err)
	}

	logger.Info(ctx, "service.review", "review.dispatched",
		slog.String("status", "ok"),
		slog.String("submission_id", sub.ID.String()),
		slog.Int64("target_user_id", sub.UserID),
	)
	return msg, controls, nil
}
