package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/tking/ebookbot/core/telegram"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// MessageOptions controls fallback behaviour for messages arriving outside a conversation.
type MessageOptions struct {
	Unknown tele.HandlerFunc
}

// MessageRoutes builds handlers for text, photo and other media updates.
// Updates from users with a conversation in progress go to the FSM, the rest to the fallback.
func MessageRoutes(fsmMgr FSM, reg *tg.Registry, opts MessageOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		if sender := c.Sender(); fsmMgr != nil && sender != nil && fsmMgr.InProgress(sender.ID) {
			return handleWithSummary(c, "fsm", start, func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		fallback := opts.Unknown
		if fallback == nil && reg != nil {
			fallback = reg.Fallback()
		}
		if fallback != nil {
			return handleWithSummary(c, "fallback", start, func() error {
				return fallback(c)
			})
		}

		logHandlerSummary(c, "unknown_message", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
		{Endpoint: tele.OnPhoto, Handler: handler},
		{Endpoint: tele.OnMedia, Handler: handler},
	}
}
