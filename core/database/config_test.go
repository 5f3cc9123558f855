package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDisabledWithoutHost(t *testing.T) {
	var cfg Config
	assert.False(t, cfg.Enabled())
	require.NoError(t, cfg.Normalize())
	assert.Empty(t, cfg.Port, "defaults are only applied to enabled configs")
}

func TestConfigNormalizeDefaults(t *testing.T) {
	cfg := Config{Host: "db", User: "bot", Name: "journal"}
	require.NoError(t, cfg.Normalize())

	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 4, cfg.MaxConnections)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
}

func TestConfigNormalizeRequiresName(t *testing.T) {
	cfg := Config{Host: "db", User: "bot"}
	assert.Error(t, cfg.Normalize())
}

func TestConfigURLEscapesPassword(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "bot", Password: "p@ss/word", Name: "journal", SSLMode: "disable"}
	assert.Equal(t, "postgres://bot:p%40ss%2Fword@db:5432/journal?sslmode=disable", cfg.URL())
	assert.Contains(t, cfg.DSN(), "host=db port=5432 dbname=journal")
}
