package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tking/ebookbot/core/telegram/state"
	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/review"
	"github.com/tking/ebookbot/internal/transport/transporttest"
)

const (
	adminChat   int64 = -1001
	user        int64 = 7
	supportLink       = "https://support.example/help"
	accessLink        = "https://books.example/"
)

type env struct {
	store    *order.MemoryStore
	sessions state.Manager
	rec      *transporttest.Recorder
	conv     *Conversation
}

func newEnv(t *testing.T, d Dispatcher) *env {
	t.Helper()
	e := &env{
		store:    order.NewMemoryStore(),
		sessions: state.NewMemoryManager(),
		rec:      transporttest.New(),
	}
	if d == nil {
		d = review.NewDispatcher(e.rec, adminChat)
	}
	e.conv = New(Options{
		Store:       e.store,
		Sessions:    e.sessions,
		Transport:   e.rec,
		Dispatcher:  d,
		SupportLink: supportLink,
	})
	return e
}

func (e *env) send(kind EventKind, text string) Result {
	ev := Event{Kind: kind, UserID: user, ChatID: user, DisplayName: "Alice", Text: text}
	if kind == EventPhoto {
		ev.PhotoRef = "file-" + text
	}
	return e.conv.Handle(context.Background(), ev)
}

func (e *env) lastToUser(t *testing.T) string {
	t.Helper()
	m, ok := e.rec.Last(user)
	require.True(t, ok, "expected a message to the user")
	return m.Text
}

type dispatchFunc func(ctx context.Context, sub order.Submission) (order.MessageRef, order.MessageRef, error)

func (f dispatchFunc) Dispatch(ctx context.Context, sub order.Submission) (order.MessageRef, order.MessageRef, error) {
	return f(ctx, sub)
}

func TestConversationFullScenario(t *testing.T) {
	e := newEnv(t, nil)

	e.send(EventStart, "")
	assert.Equal(t, StateAwaitingScreenshot, e.conv.State(user))
	assert.Contains(t, e.lastToUser(t), "Welcome to Tking Ebook Access Bot!")

	e.send(EventPhoto, "1")
	assert.Equal(t, StateAwaitingTxID, e.conv.State(user))
	e.send(EventText, "TX123")
	e.send(EventText, "alice")
	res := e.send(EventText, "pw1")

	assert.Equal(t, "submitted", res.Outcome)
	assert.NoError(t, res.Err)
	assert.Equal(t, Terminal, e.conv.State(user))
	assert.Equal(t, "Your request has been sent for review. I'll let you know soon!", e.lastToUser(t))

	admin := e.rec.To(adminChat)
	require.Len(t, admin, 2, "exactly one submission and one control message")
	assert.Equal(t, transporttest.KindPhoto, admin[0].Kind)
	for _, want := range []string{"TX123", "alice", "pw1"} {
		assert.Contains(t, admin[0].Text, want)
	}
	assert.Equal(t, transporttest.KindControls, admin[1].Kind)
	assert.Len(t, admin[1].Buttons, 2)

	sub, ok := e.store.Get(user)
	require.True(t, ok)
	assert.True(t, sub.Finalized())
	assert.Equal(t, admin[0].Ref, sub.ReviewMessage)
	assert.Equal(t, admin[1].Ref, sub.ReviewControls)

	// admin approves from the control message
	btn := admin[1].Buttons[0]
	dec, err := review.ParseDecision(btn.Unique, btn.Data)
	require.NoError(t, err)
	decider := review.NewDecider(review.DeciderOptions{
		Store: e.store, Transport: e.rec, AdminChatID: adminChat,
		SupportLink: supportLink, AccessLink: accessLink,
	})
	out, err := decider.Decide(context.Background(), review.Event{CallbackID: "cb", Decision: dec})
	require.NoError(t, err)
	assert.Equal(t, review.OutcomeApproved, out)

	credentials := e.lastToUser(t)
	for _, want := range []string{"alice", "pw1", accessLink} {
		assert.Contains(t, credentials, want)
	}
	_, ok = e.store.Get(user)
	assert.False(t, ok)
}

func TestConversationScreenshotStepLeavesStoreUntouched(t *testing.T) {
	e := newEnv(t, nil)
	e.send(EventStart, "")

	for _, kind := range []EventKind{EventText, EventOther} {
		res := e.send(kind, "not a photo")
		assert.Equal(t, "reprompt", res.Outcome)
		assert.Equal(t, StateAwaitingScreenshot, e.conv.State(user))
		assert.Equal(t, "Please send a valid screenshot.", e.lastToUser(t))
	}
	assert.Equal(t, 0, e.store.Len())
}

func TestConversationBlankInputKeepsField(t *testing.T) {
	e := newEnv(t, nil)
	e.send(EventStart, "")
	e.send(EventPhoto, "1")

	e.send(EventText, "   ")
	assert.Equal(t, StateAwaitingTxID, e.conv.State(user))
	assert.Equal(t, "Error: Please resubmit the correct TX ID. For support: "+supportLink, e.lastToUser(t))
	sub, _ := e.store.Get(user)
	assert.Empty(t, sub.TxID)

	e.send(EventText, "  TX9  ")
	sub, _ = e.store.Get(user)
	assert.Equal(t, "TX9", sub.TxID)
	assert.Empty(t, sub.Username)
	assert.Equal(t, StateAwaitingUsername, e.conv.State(user))

	e.send(EventText, "")
	assert.Equal(t, StateAwaitingUsername, e.conv.State(user))
	sub, _ = e.store.Get(user)
	assert.Empty(t, sub.Username)
}

func TestConversationCancelFromEveryActiveState(t *testing.T) {
	steps := []func(e *env){
		func(e *env) { e.send(EventStart, "") },
		func(e *env) { e.send(EventPhoto, "1") },
		func(e *env) { e.send(EventText, "TX") },
		func(e *env) { e.send(EventText, "alice") },
	}
	for n := 1; n <= len(steps); n++ {
		e := newEnv(t, nil)
		for _, step := range steps[:n] {
			step(e)
		}
		before, hadRecord := e.store.Get(user)

		res := e.send(EventCancel, "")
		assert.Equal(t, "cancelled", res.Outcome)
		assert.Equal(t, Terminal, e.conv.State(user))
		assert.Equal(t, "Cancelled. Use /start to begin again.", e.lastToUser(t))

		after, hasRecord := e.store.Get(user)
		assert.Equal(t, hadRecord, hasRecord)
		assert.Equal(t, before, after)
	}
}

func TestConversationNewScreenshotOverwrites(t *testing.T) {
	e := newEnv(t, nil)
	e.send(EventStart, "")
	e.send(EventPhoto, "1")
	e.send(EventText, "TX1")

	e.send(EventStart, "")
	e.send(EventPhoto, "2")

	sub, ok := e.store.Get(user)
	require.True(t, ok)
	assert.Equal(t, "file-2", sub.PhotoRef)
	assert.Empty(t, sub.TxID)
	assert.Equal(t, 1, e.store.Len())
}

func TestConversationSessionExpired(t *testing.T) {
	e := newEnv(t, nil)
	e.send(EventStart, "")
	e.send(EventPhoto, "1")
	e.store.Delete(user)

	res := e.send(EventText, "TX1")
	assert.Equal(t, "expired", res.Outcome)
	assert.Equal(t, Terminal, e.conv.State(user))
	assert.Equal(t, "Session expired. Please start over with /start. For support: "+supportLink, e.lastToUser(t))
}

func TestConversationTransportFailureTerminates(t *testing.T) {
	e := newEnv(t, nil)
	e.send(EventStart, "")
	e.send(EventPhoto, "1")
	e.send(EventText, "TX1")
	e.send(EventText, "alice")

	boom := errors.New("admin chat not found")
	e.rec.Fail = func(kind transporttest.Kind, chatID int64) error {
		if chatID == adminChat {
			return boom
		}
		return nil
	}

	res := e.send(EventText, "pw1")
	require.ErrorIs(t, res.Err, boom)
	assert.Equal(t, "fail", res.Outcome)
	assert.Equal(t, Terminal, e.conv.State(user))
	assert.Equal(t, "Error occurred. Please start again with /start. For support: "+supportLink, e.lastToUser(t))

	sub, ok := e.store.Get(user)
	require.True(t, ok, "record is left orphaned")
	assert.False(t, sub.Finalized())
}

func TestConversationRecoversPanics(t *testing.T) {
	e := newEnv(t, dispatchFunc(func(context.Context, order.Submission) (order.MessageRef, order.MessageRef, error) {
		panic("dispatcher exploded")
	}))
	e.send(EventStart, "")
	e.send(EventPhoto, "1")
	e.send(EventText, "TX1")
	e.send(EventText, "alice")

	var res Result
	require.NotPanics(t, func() { res = e.send(EventText, "pw1") })
	require.Error(t, res.Err)
	assert.Equal(t, Terminal, e.conv.State(user))
	assert.Contains(t, e.lastToUser(t), "Error occurred.")
}

func TestConversationFinalizesOnce(t *testing.T) {
	calls := 0
	e := newEnv(t, nil)
	inner := review.NewDispatcher(e.rec, adminChat)
	e.conv.dispatcher = dispatchFunc(func(ctx context.Context, sub order.Submission) (order.MessageRef, order.MessageRef, error) {
		calls++
		return inner.Dispatch(ctx, sub)
	})

	e.send(EventStart, "")
	e.send(EventPhoto, "1")
	e.send(EventText, "TX1")
	e.send(EventText, "alice")
	e.send(EventText, "pw1")
	// further text is not routed to a finished conversation
	e.send(EventText, "pw2")

	assert.Equal(t, 1, calls)
	sub, _ := e.store.Get(user)
	assert.Equal(t, "pw1", sub.Password)
}

func TestConversationUsesEventTime(t *testing.T) {
	e := newEnv(t, nil)
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	e.conv.Handle(context.Background(), Event{Kind: EventStart, UserID: user, ChatID: user})
	e.conv.Handle(context.Background(), Event{Kind: EventPhoto, UserID: user, ChatID: user, PhotoRef: "p", At: at})

	sub, ok := e.store.Get(user)
	require.True(t, ok)
	assert.Equal(t, at, sub.CreatedAt)
}
