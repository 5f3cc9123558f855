package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name          string
		cb            *tele.Callback
		unique, value string
	}{
		{"nil", nil, "", ""},
		{"encoded", &tele.Callback{Data: "\fapprove|42"}, "approve", "42"},
		{"no payload", &tele.Callback{Data: "\fdecline"}, "decline", ""},
		{"pre-split by telebot", &tele.Callback{Unique: "approve", Data: "7"}, "approve", "7"},
		{"payload with separator", &tele.Callback{Data: "\fkey|a|b"}, "key", "a|b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.unique, unique)
			assert.Equal(t, tc.value, payload)
		})
	}
}
