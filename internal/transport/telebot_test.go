package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/tking/ebookbot/internal/order"
)

type fakeAPI struct {
	nextID    int
	sent      []sentCall
	deleted   []tele.Editable
	responded []*tele.Callback
	err       error
}

type sentCall struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentCall{to: to, what: what, opts: opts})
	f.nextID++
	return &tele.Message{ID: f.nextID, Chat: &tele.Chat{ID: -100}}, nil
}

func (f *fakeAPI) Delete(msg tele.Editable) error {
	f.deleted = append(f.deleted, msg)
	return f.err
}

func (f *fakeAPI) Respond(c *tele.Callback, _ ...*tele.CallbackResponse) error {
	f.responded = append(f.responded, c)
	return f.err
}

func TestTelebotSendPhotoAndControls(t *testing.T) {
	api := &fakeAPI{}
	tr := NewTelebot(api)
	ctx := context.Background()

	photoRef, err := tr.SendPhoto(ctx, -100, "file-1", "caption")
	require.NoError(t, err)
	assert.Equal(t, order.MessageRef{ChatID: -100, MessageID: 1}, photoRef)

	photo, ok := api.sent[0].what.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "file-1", photo.FileID)
	assert.Equal(t, "caption", photo.Caption)
	assert.Equal(t, "-100", api.sent[0].to.Recipient())

	ctrlRef, err := tr.SendControls(ctx, -100, "Approve or decline?", []Button{
		{Text: "Approve", Unique: "approve", Data: "7"},
		{Text: "Decline", Unique: "decline", Data: "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ctrlRef.MessageID)

	require.Len(t, api.sent[1].opts, 1)
	markup, ok := api.sent[1].opts[0].(*tele.ReplyMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "approve", markup.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "7", markup.InlineKeyboard[1][0].Data)
}

func TestTelebotDeleteAndAck(t *testing.T) {
	api := &fakeAPI{}
	tr := NewTelebot(api)

	require.NoError(t, tr.Delete(context.Background(), order.MessageRef{ChatID: -100, MessageID: 12}))
	require.Len(t, api.deleted, 1)
	msgID, chatID := api.deleted[0].MessageSig()
	assert.Equal(t, "12", msgID)
	assert.Equal(t, int64(-100), chatID)

	require.NoError(t, tr.AckCallback(context.Background(), "cb-1"))
	require.Len(t, api.responded, 1)
	assert.Equal(t, "cb-1", api.responded[0].ID)
}

func TestTelebotWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	tr := NewTelebot(&fakeAPI{err: boom})

	_, err := tr.SendText(context.Background(), 5, "hi")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, tr.Delete(context.Background(), order.MessageRef{ChatID: 1, MessageID: 2}), boom)
	require.ErrorIs(t, tr.AckCallback(context.Background(), "x"), boom)
}
