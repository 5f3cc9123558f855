package intake

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
	"github.com/tking/ebookbot/core/telegram/router"
	"github.com/tking/ebookbot/core/telegram/state"
)

// Register binds the message handler to every active state of mgr.
func (c *Conversation) Register(mgr state.Manager) {
	for _, st := range ActiveStates {
		mgr.Handle(st, c.OnMessage)
	}
}

// Start handles /start.
func (c *Conversation) Start(tc tele.Context) error {
	return c.handle(tc, EventStart)
}

// Cancel handles /cancel.
func (c *Conversation) Cancel(tc tele.Context) error {
	return c.handle(tc, EventCancel)
}

// OnMessage handles text, photos and other media from users with a conversation in progress.
func (c *Conversation) OnMessage(tc tele.Context) error {
	return c.handle(tc, classify(tc.Message()))
}

func (c *Conversation) handle(tc tele.Context, kind EventKind) error {
	ev, ok := eventFrom(tc, kind)
	if !ok {
		return nil
	}
	res := c.Handle(tghelpers.BuildContext(tc), ev)
	router.WithOutcome(tc, res.Outcome)
	return nil
}

func classify(msg *tele.Message) EventKind {
	switch {
	case msg == nil:
		return EventOther
	case msg.Photo != nil:
		return EventPhoto
	case strings.HasPrefix(msg.Text, "/"):
		return EventCommand
	case msg.Text != "":
		return EventText
	default:
		return EventOther
	}
}

func eventFrom(tc tele.Context, kind EventKind) (Event, bool) {
	sender := tc.Sender()
	if sender == nil {
		return Event{}, false
	}
	ev := Event{
		Kind:        kind,
		UserID:      sender.ID,
		ChatID:      sender.ID,
		DisplayName: sender.FirstName,
	}
	if chat := tc.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	if msg := tc.Message(); msg != nil {
		ev.Text = msg.Text
		if msg.Photo != nil {
			ev.PhotoRef = msg.Photo.FileID
		}
		if msg.Unixtime != 0 {
			ev.At = msg.Time()
		}
	}
	return ev, true
}
