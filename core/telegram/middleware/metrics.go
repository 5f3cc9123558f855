package middleware

import (
	"context"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
)

type countersKey struct{}

// Counters tracks outbound messages produced while handling one update.
type Counters struct {
	messages atomic.Int64
	kb       atomic.Bool
}

// Add records one sent message.
func (m *Counters) Add(hasKeyboard bool) {
	if m == nil {
		return
	}
	m.messages.Add(1)
	if hasKeyboard {
		m.kb.Store(true)
	}
}

// CountSent records a message sent on behalf of the update carried by ctx.
// Senders that bypass tele.Context (the bot API directly) call this.
func CountSent(ctx context.Context, hasKeyboard bool) {
	if ctx == nil {
		return
	}
	m, _ := ctx.Value(countersKey{}).(*Counters)
	m.Add(hasKeyboard)
}

// metricsContext wraps tele.Context to count replies sent through it.
type metricsContext struct {
	tele.Context
	counters *Counters
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.counters.Add(hasKeyboard(opts))
	}
	return err
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.counters.Add(hasKeyboard(opts))
	}
	return err
}

// MessageMetricsMiddleware attaches per-update counters to both the tele.Context and the request context.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		counters := &Counters{}
		ctx := context.WithValue(tghelpers.BuildContext(c), countersKey{}, counters)
		tghelpers.StoreContext(c, ctx)
		c.Set("metrics", counters)
		return next(metricsContext{Context: c, counters: counters})
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	m, ok := c.Get("metrics").(*Counters)
	if !ok {
		return 0, false
	}
	return int(m.messages.Load()), m.kb.Load()
}
