package state

import (
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/core/logger"
	tghelpers "github.com/tking/ebookbot/core/telegram/helpers"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]State
	handlers map[State]tele.HandlerFunc
}

// NewMemoryManager constructs an in-memory Manager. Sessions live for the process lifetime.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]State),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.sessions[userID]; ok {
		return st
	}
	return StateIdle
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle || st == "" {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = st
}

// ClearState resets the user to idle.
func (m *memoryManager) ClearState(userID int64) {
	m.SetState(userID, StateIdle)
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.GetState(userID) != StateIdle
}

func (m *memoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Handle associates a state with its handler.
func (m *memoryManager) Handle(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[st] = h
}

// ManagerHandler executes the handler function registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	current := m.GetState(sender.ID)

	m.mu.RLock()
	handler, ok := m.handlers[current]
	m.mu.RUnlock()

	logger.Debug(tghelpers.BuildContext(c), "tg", "fsm.manager",
		slog.String("status", logger.Status(nil)),
		slog.String("state", string(current)),
		slog.Bool("handled", ok),
	)
	if ok {
		return handler(c)
	}
	return nil
}
