package review

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tking/ebookbot/internal/journal"
	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/transport/transporttest"
)

const (
	supportLink = "https://support.example/help"
	accessLink  = "https://books.example/"
	userID      = int64(7)
)

type memJournal struct {
	entries []journal.Entry
	err     error
}

func (m *memJournal) Record(_ context.Context, e journal.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memJournal) Recent(context.Context, int) ([]journal.Entry, error) { return m.entries, nil }

func (m *memJournal) Enabled() bool { return true }

type fixture struct {
	store   *order.MemoryStore
	rec     *transporttest.Recorder
	journal *memJournal
	decider *Decider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   order.NewMemoryStore(),
		rec:     transporttest.New(),
		journal: &memJournal{},
	}
	f.decider = NewDecider(DeciderOptions{
		Store:       f.store,
		Transport:   f.rec,
		Journal:     f.journal,
		AdminChatID: adminChat,
		SupportLink: supportLink,
		AccessLink:  accessLink,
	})
	return f
}

func (f *fixture) finalize(t *testing.T) order.Submission {
	t.Helper()
	sub := completeSubmission(userID)
	sub.ReviewMessage = order.MessageRef{ChatID: adminChat, MessageID: 100}
	sub.ReviewControls = order.MessageRef{ChatID: adminChat, MessageID: 101}
	f.store.Put(sub)
	return sub
}

func approve(cb string) Event {
	return Event{CallbackID: cb, Decision: Decision{Action: ActionApprove, UserID: userID}, Admin: Admin{ID: 1, Username: "root"}}
}

func TestDecideApprove(t *testing.T) {
	f := newFixture(t)
	sub := f.finalize(t)

	out, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out)

	assert.Equal(t, []string{"cb-1"}, f.rec.Acked)
	assert.Equal(t, []order.MessageRef{sub.ReviewMessage, sub.ReviewControls}, f.rec.Deleted)

	toUser := f.rec.To(userID)
	require.Len(t, toUser, 1)
	for _, want := range []string{"Username: alice", "Password: pw1", accessLink, "no refund"} {
		assert.Contains(t, toUser[0].Text, want)
	}

	_, ok := f.store.Get(userID)
	assert.False(t, ok)
	assert.Equal(t, 0, f.store.Len())

	require.Len(t, f.journal.entries, 1)
	entry := f.journal.entries[0]
	assert.Equal(t, sub.ID, entry.SubmissionID)
	assert.Equal(t, "approve", entry.Action)
	assert.Equal(t, "TX123", entry.TxID)
	assert.Equal(t, "root", pointer.GetString(entry.DecidedByUsername))
}

func TestDecideRetractsBeforeNotifying(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)

	_, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.NoError(t, err)
	assert.Equal(t, []transporttest.Kind{
		transporttest.KindAck,
		transporttest.KindDelete,
		transporttest.KindDelete,
		transporttest.KindText,
	}, f.rec.Calls)
}

func TestDecideTwiceReportsNotFound(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)

	_, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.NoError(t, err)
	f.rec.Reset()

	second := approve("cb-2")
	second.Decision.Action = ActionDecline
	out, err := f.decider.Decide(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, out)

	assert.Empty(t, f.rec.To(userID), "no user-facing message")
	last, ok := f.rec.Last(adminChat)
	require.True(t, ok)
	assert.Equal(t, "Request not found.", last.Text)
	assert.Equal(t, []string{"cb-2"}, f.rec.Acked)
	assert.Len(t, f.journal.entries, 1)
}

func TestDecideDecline(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)

	ev := approve("cb-1")
	ev.Decision.Action = ActionDecline
	out, err := f.decider.Decide(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, out)

	toUser := f.rec.To(userID)
	require.Len(t, toUser, 1)
	assert.Equal(t, "Sorry, your request was declined. Contact support: "+supportLink, toUser[0].Text)
	assert.Equal(t, 0, f.store.Len())
}

func TestDecideIgnoresRetractFailures(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)
	f.rec.Fail = func(kind transporttest.Kind, _ int64) error {
		if kind == transporttest.KindDelete {
			return errors.New("message to delete not found")
		}
		return nil
	}

	out, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out)
	assert.Len(t, f.rec.To(userID), 1)
	assert.Equal(t, 0, f.store.Len())
}

func TestDecideNotifyFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)
	boom := errors.New("bot was blocked by the user")
	f.rec.Fail = func(kind transporttest.Kind, chatID int64) error {
		if kind == transporttest.KindText && chatID == userID {
			return boom
		}
		return nil
	}

	out, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, OutcomeFailed, out)

	_, ok := f.store.Get(userID)
	assert.True(t, ok, "record is never deleted before the notification succeeded")
	last, ok := f.rec.Last(adminChat)
	require.True(t, ok)
	assert.Equal(t, "Error processing your action. For support: "+supportLink, last.Text)
	assert.Empty(t, f.journal.entries)
}

func TestDecideJournalFailureIsBestEffort(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)
	f.journal.err = errors.New("db down")

	out, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out)
	assert.Equal(t, 0, f.store.Len())
}

func TestDecideInvalidDecision(t *testing.T) {
	f := newFixture(t)
	f.finalize(t)

	out, err := f.decider.Decide(context.Background(), Event{CallbackID: "cb-x"})
	require.ErrorIs(t, err, ErrInvalidDecision)
	assert.Equal(t, OutcomeFailed, out)
	assert.Equal(t, []string{"cb-x"}, f.rec.Acked)
	last, ok := f.rec.Last(adminChat)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(last.Text, "Error processing your action."))
	assert.Equal(t, 1, f.store.Len())
}

func TestDecideInProgressSubmissionIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.store.Put(order.New(userID, "Alice", "photo", time.Now()))

	out, err := f.decider.Decide(context.Background(), approve("cb-1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, out)
	assert.Equal(t, 1, f.store.Len())
	assert.Empty(t, f.rec.Deleted)
}

func TestNewDeciderDefaultsToNoopJournal(t *testing.T) {
	store := order.NewMemoryStore()
	rec := transporttest.New()
	d := NewDecider(DeciderOptions{Store: store, Transport: rec, AdminChatID: adminChat, AccessLink: accessLink})

	sub := completeSubmission(userID)
	sub.ReviewMessage = order.MessageRef{ChatID: adminChat, MessageID: 1}
	sub.ReviewControls = order.MessageRef{ChatID: adminChat, MessageID: 2}
	store.Put(sub)

	out, err := d.Decide(context.Background(), approve("cb"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out)
}
