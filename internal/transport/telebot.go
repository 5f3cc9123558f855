package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/core/logger"
	"github.com/tking/ebookbot/core/telegram/keyboard"
	"github.com/tking/ebookbot/core/telegram/middleware"
	"github.com/tking/ebookbot/internal/order"
)

// API is the subset of *tele.Bot used for outbound calls.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// Telebot implements Transport over the Telegram Bot API.
type Telebot struct {
	api API
}

// NewTelebot wraps a bot (or any API implementation).
func NewTelebot(api API) *Telebot {
	return &Telebot{api: api}
}

func (t *Telebot) SendText(ctx context.Context, chatID int64, text string) (order.MessageRef, error) {
	return t.send(ctx, "send_text", chatID, text, nil)
}

func (t *Telebot) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) (order.MessageRef, error) {
	photo := &tele.Photo{File: tele.File{FileID: photoRef}, Caption: caption}
	return t.send(ctx, "send_photo", chatID, photo, nil)
}

func (t *Telebot) SendControls(ctx context.Context, chatID int64, text string, buttons []Button) (order.MessageRef, error) {
	btns := make([]keyboard.InlineBtn, 0, len(buttons))
	for _, b := range buttons {
		btns = append(btns, keyboard.InlineBtn{Text: b.Text, Unique: b.Unique, Data: b.Data})
	}
	return t.send(ctx, "send_controls", chatID, text, keyboard.InlineButtons(btns))
}

func (t *Telebot) Delete(ctx context.Context, ref order.MessageRef) error {
	start := time.Now()
	err := t.api.Delete(tele.StoredMessage{
		MessageID: strconv.Itoa(ref.MessageID),
		ChatID:    ref.ChatID,
	})
	logCall(ctx, "delete", ref.ChatID, start, err, slog.Int("message_id", ref.MessageID))
	if err != nil {
		return fmt.Errorf("delete message %d: %w", ref.MessageID, err)
	}
	return nil
}

func (t *Telebot) AckCallback(ctx context.Context, callbackID string) error {
	start := time.Now()
	err := t.api.Respond(&tele.Callback{ID: callbackID})
	logCall(ctx, "ack_callback", 0, start, err)
	if err != nil {
		return fmt.Errorf("ack callback: %w", err)
	}
	return nil
}

func (t *Telebot) send(ctx context.Context, op string, chatID int64, what interface{}, markup *tele.ReplyMarkup) (order.MessageRef, error) {
	start := time.Now()
	var opts []interface{}
	if markup != nil {
		opts = append(opts, markup)
	}
	msg, err := t.api.Send(tele.ChatID(chatID), what, opts...)
	if err == nil && msg == nil {
		err = fmt.Errorf("empty response")
	}
	logCall(ctx, op, chatID, start, err)
	if err != nil {
		return order.MessageRef{}, fmt.Errorf("%s to %d: %w", op, chatID, err)
	}
	middleware.CountSent(ctx, markup != nil)

	ref := order.MessageRef{ChatID: chatID, MessageID: msg.ID}
	if msg.Chat != nil {
		ref.ChatID = msg.Chat.ID
	}
	return ref, nil
}

func logCall(ctx context.Context, op string, chatID int64, start time.Time, err error, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("op", op),
		slog.Duration("duration", time.Since(start)),
	}
	if chatID != 0 {
		attrs = append(attrs, slog.Int64("target_chat_id", chatID))
	}
	attrs = append(attrs, extra...)
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		logger.Warn(ctx, "tg", "tg.call", attrs...)
		return
	}
	logger.Debug(ctx, "tg", "tg.call", attrs...)
}
