package review

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
	"github.com/tking/ebookbot/core/telegram/router"
)

// HandleCallback is the telebot entry point for approve/decline buttons.
func (d *Decider) HandleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	// a zero Decision fails validation inside Decide
	dec, _ := DecisionFromCallback(cb)

	ev := Event{CallbackID: cb.ID, Decision: dec}
	if s := c.Sender(); s != nil {
		ev.Admin = Admin{ID: s.ID, Username: s.Username}
	}

	out, _ := d.Decide(tghelpers.BuildContext(c), ev)
	router.WithOutcome(c, string(out))
	return nil
}
