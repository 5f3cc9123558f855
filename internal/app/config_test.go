package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/tking/ebookbot/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigYAMLWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_id: -1001
  run_mode: polling
review:
  access_link: "https://books.example/"
database:
  host: ""
`)
	t.Setenv("SUPPORT_LINK", "https://support.example/help")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(-1001), cfg.Telegram.AdminID)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "https://books.example/", cfg.Review.AccessLink)
	assert.Equal(t, "https://support.example/help", cfg.Review.SupportLink)
	assert.Equal(t, 8443, cfg.Webhook.Port)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadConfigFromEnvOnly(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999:zzz")
	t.Setenv("ADMIN_CHAT_ID", "-42")
	t.Setenv("TELEGRAM_RUN_MODE", "webhook")
	t.Setenv("WEBHOOK_URL", "https://bot.example")
	t.Setenv("PORT", "10000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "999:zzz", cfg.Telegram.Token)
	assert.Equal(t, int64(-42), cfg.Telegram.AdminID)
	assert.Equal(t, coreconfig.RunModeWebhook, cfg.Telegram.RunMode)
	assert.Equal(t, 10000, cfg.Webhook.Port)
	assert.Equal(t, "https://bot.example/999:zzz", cfg.Webhook.PublicURL(cfg.Telegram.Token))
	assert.Equal(t, defaultSupportLink, cfg.Review.SupportLink)
	assert.Equal(t, defaultAccessLink, cfg.Review.AccessLink)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, "telegram:\n  admin_id: 1\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadConfigValidatesDatabase(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "t"
  admin_id: 1
database:
  host: localhost
`)
	_, err := LoadConfig(path)
	require.Error(t, err)

	t.Setenv("DB_NAME", "ebookbot")
	t.Setenv("DB_USER", "bot")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
}
