// Package transporttest provides a recording Transport for tests.
package transporttest

import (
	"context"
	"sync"

	"github.com/tking/ebookbot/internal/order"
	"github.com/tking/ebookbot/internal/transport"
)

// Kind names a recorded outbound primitive.
type Kind string

const (
	KindText     Kind = "text"
	KindPhoto    Kind = "photo"
	KindControls Kind = "controls"
	KindDelete   Kind = "delete"
	KindAck      Kind = "ack"
)

// Message is one recorded send.
type Message struct {
	Kind     Kind
	ChatID   int64
	Text     string
	PhotoRef string
	Buttons  []transport.Button
	Ref      order.MessageRef
}

// Recorder captures every call. Fail, when set, may return an error for a call
// before it is recorded.
type Recorder struct {
	mu     sync.Mutex
	nextID int

	Messages []Message
	Deleted  []order.MessageRef
	Acked    []string
	// Calls lists every successful primitive in call order.
	Calls []Kind

	Fail func(kind Kind, chatID int64) error
}

var _ transport.Transport = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) fail(kind Kind, chatID int64) error {
	if r.Fail == nil {
		return nil
	}
	return r.Fail(kind, chatID)
}

func (r *Recorder) record(m Message) (order.MessageRef, error) {
	if err := r.fail(m.Kind, m.ChatID); err != nil {
		return order.MessageRef{}, err
	}
	r.nextID++
	m.Ref = order.MessageRef{ChatID: m.ChatID, MessageID: r.nextID}
	r.Messages = append(r.Messages, m)
	r.Calls = append(r.Calls, m.Kind)
	return m.Ref, nil
}

func (r *Recorder) SendText(_ context.Context, chatID int64, text string) (order.MessageRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(Message{Kind: KindText, ChatID: chatID, Text: text})
}

func (r *Recorder) SendPhoto(_ context.Context, chatID int64, photoRef, caption string) (order.MessageRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(Message{Kind: KindPhoto, ChatID: chatID, Text: caption, PhotoRef: photoRef})
}

func (r *Recorder) SendControls(_ context.Context, chatID int64, text string, buttons []transport.Button) (order.MessageRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(Message{Kind: KindControls, ChatID: chatID, Text: text, Buttons: append([]transport.Button(nil), buttons...)})
}

func (r *Recorder) Delete(_ context.Context, ref order.MessageRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail(KindDelete, ref.ChatID); err != nil {
		return err
	}
	r.Deleted = append(r.Deleted, ref)
	r.Calls = append(r.Calls, KindDelete)
	return nil
}

func (r *Recorder) AckCallback(_ context.Context, callbackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail(KindAck, 0); err != nil {
		return err
	}
	r.Acked = append(r.Acked, callbackID)
	r.Calls = append(r.Calls, KindAck)
	return nil
}

// To returns the messages sent to chatID, in order.
func (r *Recorder) To(chatID int64) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.Messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// Last returns the most recent message sent to chatID.
func (r *Recorder) Last(chatID int64) (Message, bool) {
	msgs := r.To(chatID)
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages, r.Deleted, r.Acked, r.Calls = nil, nil, nil, nil
}
