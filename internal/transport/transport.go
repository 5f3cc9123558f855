// Package transport is the outbound side of the bot: the five primitives the
// conversation and review flows need from the messaging platform.
package transport

import (
	"context"

	"github.com/tking/ebookbot/internal/order"
)

// Button is one inline action; Unique and Data travel back in the callback.
type Button struct {
	Text   string
	Unique string
	Data   string
}

// Transport sends and retracts messages. Implementations must not retry.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) (order.MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) (order.MessageRef, error)
	// SendControls sends text with one button per row.
	SendControls(ctx context.Context, chatID int64, text string, buttons []Button) (order.MessageRef, error)
	Delete(ctx context.Context, ref order.MessageRef) error
	AckCallback(ctx context.Context, callbackID string) error
}
