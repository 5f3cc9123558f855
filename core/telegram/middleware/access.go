package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/core/logger"
	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	// AdminChatID is the only chat allowed through; 0 disables the check.
	AdminChatID int64
	OnReject    tele.HandlerFunc
}

// AdminOnlyMiddleware lets through updates originating from the admin chat only.
// For callbacks the chat is the one holding the pressed message.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.AdminChatID == 0 {
				return next(c)
			}
			if chat := c.Chat(); chat != nil && chat.ID == opts.AdminChatID {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "access.rejected",
				slog.String("status", "rejected"),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
