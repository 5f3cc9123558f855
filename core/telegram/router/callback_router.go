package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/tking/ebookbot/core/telegram"
	"github.com/tking/ebookbot/core/telegram/callbacks"
	"github.com/tking/ebookbot/core/telegram/middleware"
)

// CallbackOptions customises access and fallback behaviour for callbacks.
type CallbackOptions struct {
	// AdminChatID restricts every callback to the admin chat when non-zero.
	AdminChatID int64
	OnReject    tele.HandlerFunc
	NotFound    tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry.
// Registered handlers are responsible for answering the callback themselves.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	onReject := opts.OnReject
	if onReject == nil {
		onReject = func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Not allowed", ShowAlert: true})
		}
	}
	guard := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminChatID: opts.AdminChatID,
		OnReject: func(c tele.Context) error {
			key := callbacks.CallbackKey(c)
			return handleWithSummary(c, "callback."+normalizeHandlerName(key), time.Now(), func() error {
				WithOutcome(c, "cancelled")
				return onReject(c)
			}, slog.String("cb_key", key), slog.String("reason", "not_admin"))
		},
	})

	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			fallback := opts.NotFound
			if fallback == nil {
				fallback = reg.CallbackNotFound()
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, func() error {
				WithOutcome(c, "not_found")
				if fallback != nil {
					return fallback(c)
				}
				return c.Respond()
			}, extras...)
		}

		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  guard(handler),
	}
}
