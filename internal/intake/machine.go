// Package intake runs the per-user order form: screenshot, TXID, username, password.
//
// Transition is pure: it maps (state, event, record) to the next state and a list of
// effects. Conversation applies the effects against the store, the transport and the
// review dispatcher inside a single failure boundary.
package intake

import (
	"strings"
	"time"

	"github.com/tking/ebookbot/core/telegram/state"
	"github.com/tking/ebookbot/internal/order"
)

const (
	StateAwaitingScreenshot state.State = "awaiting_screenshot"
	StateAwaitingTxID       state.State = "awaiting_txid"
	StateAwaitingUsername   state.State = "awaiting_username"
	StateAwaitingPassword   state.State = "awaiting_password"
	// Terminal means no conversation is in progress.
	Terminal = state.StateIdle
)

// ActiveStates lists every state in which input is routed to the machine.
var ActiveStates = []state.State{
	StateAwaitingScreenshot,
	StateAwaitingTxID,
	StateAwaitingUsername,
	StateAwaitingPassword,
}

// EventKind classifies inbound updates.
type EventKind int

const (
	EventStart EventKind = iota
	EventCancel
	EventPhoto
	EventText
	// EventCommand is an unregistered slash command; it is ignored mid-conversation.
	EventCommand
	// EventOther covers stickers, documents, voice and every other non-photo media.
	EventOther
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventCancel:
		return "cancel"
	case EventPhoto:
		return "photo"
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	default:
		return "other"
	}
}

// Event is one inbound update from a user.
type Event struct {
	Kind        EventKind
	UserID      int64
	ChatID      int64
	DisplayName string
	PhotoRef    string
	Text        string
	At          time.Time
}

// Field is a text field collected by the form.
type Field int

const (
	FieldTxID Field = iota
	FieldUsername
	FieldPassword
)

func (f Field) String() string {
	switch f {
	case FieldTxID:
		return "txid"
	case FieldUsername:
		return "username"
	default:
		return "password"
	}
}

func (f Field) apply(s *order.Submission, v string) {
	switch f {
	case FieldTxID:
		s.TxID = v
	case FieldUsername:
		s.Username = v
	case FieldPassword:
		s.Password = v
	}
}

// Effect is a side effect requested by Transition.
type Effect interface{ effect() }

// Reply sends a prompt to the user.
type Reply struct{ Prompt Prompt }

// PutRecord creates or overwrites the user's submission.
type PutRecord struct{ Submission order.Submission }

// SetField stores a trimmed text field on the existing submission.
type SetField struct {
	Field Field
	Value string
}

// Finalize dispatches the submission for review and attaches the review refs.
type Finalize struct{}

func (Reply) effect()     {}
func (PutRecord) effect() {}
func (SetField) effect()  {}
func (Finalize) effect()  {}

type textStep struct {
	field   Field
	invalid Prompt
	noted   Prompt
	next    state.State
}

var textSteps = map[state.State]textStep{
	StateAwaitingTxID:     {FieldTxID, PromptInvalidTxID, PromptTxIDNoted, StateAwaitingUsername},
	StateAwaitingUsername: {FieldUsername, PromptInvalidUsername, PromptUsernameNoted, StateAwaitingPassword},
	StateAwaitingPassword: {FieldPassword, PromptInvalidPassword, PromptSentForReview, Terminal},
}

// Transition computes the next state and the effects for ev. rec is the user's stored
// submission or nil. It never mutates rec.
func Transition(st state.State, ev Event, rec *order.Submission) (state.State, []Effect) {
	switch ev.Kind {
	case EventStart:
		return StateAwaitingScreenshot, []Effect{Reply{PromptGreeting}}
	case EventCancel:
		return Terminal, []Effect{Reply{PromptCancelled}}
	case EventCommand:
		return st, nil
	}

	if st == StateAwaitingScreenshot {
		if ev.Kind != EventPhoto || ev.PhotoRef == "" {
			return st, []Effect{Reply{PromptInvalidScreenshot}}
		}
		return StateAwaitingTxID, []Effect{
			PutRecord{order.New(ev.UserID, ev.DisplayName, ev.PhotoRef, ev.At)},
			Reply{PromptScreenshotReceived},
		}
	}

	step, ok := textSteps[st]
	if !ok {
		// Terminal or unknown: nothing to do
		return Terminal, nil
	}
	if rec == nil {
		return Terminal, []Effect{Reply{PromptSessionExpired}}
	}
	value := strings.TrimSpace(ev.Text)
	if ev.Kind != EventText || value == "" {
		return st, []Effect{Reply{step.invalid}}
	}

	effects := []Effect{SetField{Field: step.field, Value: value}}
	if step.field == FieldPassword {
		effects = append(effects, Finalize{})
	}
	return step.next, append(effects, Reply{step.noted})
}
