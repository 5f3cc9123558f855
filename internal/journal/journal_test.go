package journal

import (
	"context"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryNormalized(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("EAT", 3*3600))

	e := Entry{SubmissionID: uuid.New(), Action: "approve"}.normalized(now)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, time.UTC, e.DecidedAt.Location())
	assert.True(t, e.DecidedAt.Equal(now))
	assert.Nil(t, e.DecidedByUsername)

	id := uuid.New()
	fixed := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	kept := Entry{ID: id, DecidedAt: fixed, DecidedByUsername: pointer.ToString("admin")}.normalized(now)
	assert.Equal(t, id, kept.ID)
	assert.Equal(t, fixed, kept.DecidedAt)
	assert.Equal(t, "admin", pointer.GetString(kept.DecidedByUsername))
}

func TestNoop(t *testing.T) {
	var j Journal = Noop{}
	assert.False(t, j.Enabled())
	require.NoError(t, j.Record(context.Background(), Entry{}))
	entries, err := j.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
