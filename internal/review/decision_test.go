package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestDecisionButtonRoundTrip(t *testing.T) {
	btn := Decision{Action: ActionDecline, UserID: 123456789}.Button("Decline")
	assert.Equal(t, "decline", btn.Unique)
	assert.Equal(t, "123456789", btn.Data)

	got, err := ParseDecision(btn.Unique, btn.Data)
	require.NoError(t, err)
	assert.Equal(t, Decision{Action: ActionDecline, UserID: 123456789}, got)
}

func TestDecisionFromCallback(t *testing.T) {
	// raw data as delivered when no telebot endpoint matched the unique
	got, err := DecisionFromCallback(&tele.Callback{Data: "\fapprove|42"})
	require.NoError(t, err)
	assert.Equal(t, Decision{Action: ActionApprove, UserID: 42}, got)

	got, err = DecisionFromCallback(&tele.Callback{Unique: "decline", Data: "7"})
	require.NoError(t, err)
	assert.Equal(t, Decision{Action: ActionDecline, UserID: 7}, got)
}

func TestParseDecisionRejectsGarbage(t *testing.T) {
	cases := []struct{ unique, payload string }{
		{"approve", ""},
		{"approve", "abc"},
		{"approve", "0"},
		{"delete", "42"},
		{"", "42"},
	}
	for _, tc := range cases {
		_, err := ParseDecision(tc.unique, tc.payload)
		assert.ErrorIs(t, err, ErrInvalidDecision, "%q|%q", tc.unique, tc.payload)
	}
	_, err := DecisionFromCallback(nil)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
