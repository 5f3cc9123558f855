// Package review sends finished submissions to the admin chat and applies the admin's decision.
package review

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/core/telegram/callbacks"
	"github.com/tking/ebookbot/internal/transport"
)

// ErrInvalidDecision is returned for callback data that does not decode to a Decision.
var ErrInvalidDecision = errors.New("invalid decision")

// Action is the admin's choice.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDecline Action = "decline"
)

// Actions lists every action in button order.
var Actions = []Action{ActionApprove, ActionDecline}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionDecline
}

// Decision is the payload carried by a review button.
type Decision struct {
	Action Action
	UserID int64
}

// Button renders the decision as an inline button: the action is the callback
// unique, the target user id the payload.
func (d Decision) Button(text string) transport.Button {
	return transport.Button{
		Text:   text,
		Unique: string(d.Action),
		Data:   strconv.FormatInt(d.UserID, 10),
	}
}

// ParseDecision decodes the unique/payload pair produced by Button.
func ParseDecision(unique, payload string) (Decision, error) {
	action := Action(strings.TrimSpace(unique))
	if !action.Valid() {
		return Decision{}, fmt.Errorf("action %q: %w", unique, ErrInvalidDecision)
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || userID == 0 {
		return Decision{}, fmt.Errorf("user id %q: %w", payload, ErrInvalidDecision)
	}
	return Decision{Action: action, UserID: userID}, nil
}

// DecisionFromCallback decodes a pressed review button.
func DecisionFromCallback(cb *tele.Callback) (Decision, error) {
	if cb == nil {
		return Decision{}, fmt.Errorf("no callback: %w", ErrInvalidDecision)
	}
	return ParseDecision(callbacks.ParseCallbackData(cb))
}
