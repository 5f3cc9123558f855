package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{Telegram: TelegramConfig{Token: " 123:abc ", AdminID: -100}}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "0.0.0.0", cfg.Webhook.Listen)
	assert.Equal(t, 8443, cfg.Webhook.Port)
	assert.Zero(t, cfg.Telegram.HTTPRetries)
}

func TestNormalizeRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"missing token":    func(c *Config) { c.Telegram.Token = "  " },
		"missing admin":    func(c *Config) { c.Telegram.AdminID = 0 },
		"negative retries": func(c *Config) { c.Telegram.HTTPRetries = -1 },
		"bad run mode":     func(c *Config) { c.Telegram.RunMode = "smoke-signals" },
		"webhook no url":   func(c *Config) { c.Telegram.RunMode = RunModeWebhook },
		"bad exclude":      func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"inline_query"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, Normalize(cfg))
		})
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = " Polling "
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateCallback}, cfg.RateLimit.ExcludeUpdates)
}

func TestWebhookPublicURL(t *testing.T) {
	w := WebhookConfig{URL: " https://bot.example/ "}
	assert.Equal(t, "https://bot.example/123:abc", w.PublicURL("123:abc"))
	assert.Empty(t, WebhookConfig{}.PublicURL("123:abc"))
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram:\n  token: from-yaml\n  admin_id: 5\nlogging:\n  level: debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	var cfg Config
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "from-yaml", cfg.Telegram.Token)
	assert.Equal(t, int64(5), cfg.Telegram.AdminID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	assert.Error(t, Load("", nil))
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &Config{}))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("telegram: [unclosed"), 0o600))
	assert.Error(t, Load(bad, &Config{}))
}
