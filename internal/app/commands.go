package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
	"github.com/tking/ebookbot/internal/journal"
	"github.com/tking/ebookbot/internal/order"
)

const historyLimit = 10

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if s := c.Sender(); s != nil {
		return s.ID
	}
	return 0
}

func (a *App) reply(c tele.Context, text string) error {
	_, err := a.tr.SendText(tghelpers.BuildContext(c), chatID(c), text)
	return err
}

func (a *App) myID(c tele.Context) error {
	s := c.Sender()
	if s == nil {
		return nil
	}
	return a.reply(c, fmt.Sprintf("Your Chat ID is: %d", s.ID))
}

func (a *App) pending(c tele.Context) error {
	return a.reply(c, formatPending(a.store.List()))
}

func (a *App) history(c tele.Context) error {
	if !a.journal.Enabled() {
		return a.reply(c, "Decision journal is disabled.")
	}
	entries, err := a.journal.Recent(tghelpers.BuildContext(c), historyLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return a.reply(c, formatHistory(entries))
}

// fallback answers private messages from users without a conversation in progress.
func (a *App) fallback(c tele.Context) error {
	if chat := c.Chat(); chat == nil || chat.Type != tele.ChatPrivate {
		return nil
	}
	return a.reply(c, "Use /start to request ebook access.")
}

func formatPending(subs []order.Submission) string {
	if len(subs) == 0 {
		return "No pending requests."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pending requests: %d", len(subs))
	for _, s := range subs {
		status := "in progress"
		if s.Finalized() {
			status = "awaiting decision"
		}
		fmt.Fprintf(&b, "\n%d %s (%s, since %s)", s.UserID, s.DisplayName, status, s.CreatedAt.UTC().Format(time.DateTime))
	}
	return b.String()
}

func formatHistory(entries []journal.Entry) string {
	if len(entries) == 0 {
		return "No decisions recorded yet."
	}
	var b strings.Builder
	b.WriteString("Recent decisions:")
	for _, e := range entries {
		by := fmt.Sprint(e.DecidedBy)
		if name := pointer.GetString(e.DecidedByUsername); name != "" {
			by = "@" + name
		}
		fmt.Fprintf(&b, "\n%s %s user %d (TXID %s) by %s",
			e.DecidedAt.UTC().Format(time.DateTime), e.Action, e.UserID, e.TxID, by)
	}
	return b.String()
}
