package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tking/ebookbot/core/logger"
	"github.com/tking/ebookbot/core/telegram/state"
	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/transport"
)

// ErrSessionExpired is returned when the submission vanished while effects were applied.
var ErrSessionExpired = errors.New("session expired")

// Dispatcher hands a complete submission to the admin and returns the review message refs.
type Dispatcher interface {
	Dispatch(ctx context.Context, sub order.Submission) (review, controls order.MessageRef, err error)
}

// Options configures a Conversation.
type Options struct {
	Store       order.Store
	Sessions    state.Manager
	Transport   transport.Transport
	Dispatcher  Dispatcher
	SupportLink string
	Now         func() time.Time
}

// Conversation applies Transition results for one event at a time.
type Conversation struct {
	store       order.Store
	sessions    state.Manager
	tr          transport.Transport
	dispatcher  Dispatcher
	supportLink string
	now         func() time.Time
}

// Result describes a handled event.
type Result struct {
	From    state.State
	To      state.State
	Outcome string
	Err     error
}

// New builds a Conversation.
func New(opts Options) *Conversation {
	c := &Conversation{
		store:       opts.Store,
		sessions:    opts.Sessions,
		tr:          opts.Transport,
		dispatcher:  opts.Dispatcher,
		supportLink: opts.SupportLink,
		now:         opts.Now,
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// State returns the user's current state.
func (c *Conversation) State(userID int64) state.State {
	return c.sessions.GetState(userID)
}

// Handle runs ev through the machine. Any error or panic while applying effects sends
// the generic failure prompt and ends the conversation; the stored submission is left as is.
func (c *Conversation) Handle(ctx context.Context, ev Event) (res Result) {
	if ev.At.IsZero() {
		ev.At = c.now()
	}
	res.From = c.sessions.GetState(ev.UserID)

	var effects []Effect
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("intake: panic in %s: %v", res.From, r)
		}
		if res.Err != nil {
			c.fail(ctx, ev, &res)
		}
		c.sessions.SetState(ev.UserID, res.To)
		c.logTransition(ctx, ev, res)
	}()

	var rec *order.Submission
	if sub, ok := c.store.Get(ev.UserID); ok {
		rec = &sub
	}
	res.To, effects = Transition(res.From, ev, rec)
	res.Outcome = outcomeOf(res.From, res.To, effects)

	for _, eff := range effects {
		if err := c.apply(ctx, ev, eff); err != nil {
			res.Err = err
			return res
		}
	}
	return res
}

func (c *Conversation) apply(ctx context.Context, ev Event, eff Effect) error {
	switch e := eff.(type) {
	case Reply:
		if _, err := c.tr.SendText(ctx, ev.ChatID, Render(e.Prompt, c.supportLink)); err != nil {
			return fmt.Errorf("reply: %w", err)
		}
	case PutRecord:
		c.store.Put(e.Submission)
	case SetField:
		err := c.store.Update(ev.UserID, func(s *order.Submission) { e.Field.apply(s, e.Value) })
		if err != nil {
			return fmt.Errorf("set %s: %w", e.Field, expired(err))
		}
	case Finalize:
		return c.finalize(ctx, ev.UserID)
	default:
		return fmt.Errorf("unknown effect %T", eff)
	}
	return nil
}

func (c *Conversation) finalize(ctx context.Context, userID int64) error {
	sub, ok := c.store.Get(userID)
	if !ok {
		return fmt.Errorf("finalize: %w", ErrSessionExpired)
	}
	if !sub.Complete() {
		return fmt.Errorf("finalize: submission %s is incomplete", sub.ID)
	}
	review, controls, err := c.dispatcher.Dispatch(ctx, sub)
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	err = c.store.Update(userID, func(s *order.Submission) {
		s.ReviewMessage = review
		s.ReviewControls = controls
	})
	if err != nil {
		return fmt.Errorf("finalize: %w", expired(err))
	}
	logger.Info(ctx, "service.intake", "intake.finalized",
		slog.String("status", "ok"),
		slog.String("submission_id", sub.ID.String()),
		slog.Int("pending_count", c.store.Len()),
	)
	return nil
}

func expired(err error) error {
	if errors.Is(err, order.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

// fail reports res.Err to the user and forces Terminal.
func (c *Conversation) fail(ctx context.Context, ev Event, res *Result) {
	res.To = Terminal
	prompt, outcome := PromptFailure, "fail"
	if errors.Is(res.Err, ErrSessionExpired) {
		prompt, outcome = PromptSessionExpired, "expired"
	}
	res.Outcome = outcome

	attrs := []slog.Attr{
		slog.String("status", "fail"),
		slog.String("state", string(res.From)),
		slog.String("kind", ev.Kind.String()),
		slog.String("err", logger.SanitizeLimit(res.Err.Error(), 256)),
	}
	if _, err := c.tr.SendText(ctx, ev.ChatID, Render(prompt, c.supportLink)); err != nil {
		attrs = append(attrs, slog.String("notify_err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.Error(ctx, "service.intake", "intake.failed", attrs...)
}

func (c *Conversation) logTransition(ctx context.Context, ev Event, res Result) {
	logger.Info(ctx, "service.intake", "intake.transition",
		slog.String("status", logger.Status(res.Err)),
		slog.String("outcome", res.Outcome),
		slog.String("kind", ev.Kind.String()),
		slog.String("state", string(res.From)),
		slog.String("next_state", string(res.To)),
	)
}

func outcomeOf(from, to state.State, effects []Effect) string {
	for _, eff := range effects {
		switch e := eff.(type) {
		case Finalize:
			return "submitted"
		case Reply:
			switch e.Prompt {
			case PromptGreeting:
				return "ok"
			case PromptCancelled:
				return "cancelled"
			case PromptSessionExpired:
				return "expired"
			}
		}
	}
	if from == to && len(effects) > 0 {
		return "reprompt"
	}
	return "ok"
}
