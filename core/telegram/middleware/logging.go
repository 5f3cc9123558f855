package middleware

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/core/logger"
	"github.com/tking/ebookbot/core/telegram/callbacks"
	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
)

// LoggerMiddleware builds the request context (rid, update meta) and logs a sampled receipt line.
// Message text is never logged since it may carry credentials; only its length is.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set("update_start", time.Now())
		ctx := tghelpers.BuildContext(c)

		if logger.ShouldSampleDebug() {
			upd := c.Update()
			attrs := []slog.Attr{slog.String("status", "ok")}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if user := c.Sender(); user != nil && user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
			switch {
			case upd.Callback != nil:
				key, payload := callbacks.ParseCallbackData(upd.Callback)
				attrs = append(attrs,
					slog.String("cb_key", logger.SanitizeLimit(key, 64)),
					slog.String("payload", logger.SanitizeLimit(payload, 64)),
				)
			case upd.Message != nil:
				attrs = append(attrs,
					slog.Int("text_len", len([]rune(upd.Message.Text))),
					slog.Bool("photo", upd.Message.Photo != nil),
				)
			}
			logger.Debug(ctx, "tg", "update.received", attrs...)
		}

		return next(c)
	}
}
