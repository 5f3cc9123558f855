package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	GetState(userID int64) State
	// SetState stores st; setting StateIdle removes the session.
	SetState(userID int64, st State)
	ClearState(userID int64)
	InProgress(userID int64) bool
	// Len reports the number of users with a conversation in progress.
	Len() int

	// Handle binds h to st. ManagerHandler dispatches to it.
	Handle(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}
