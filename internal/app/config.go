package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/tking/ebookbot/core/config"
	coredatabase "github.com/tking/ebookbot/core/database"
)

const (
	defaultSupportLink = "https://wa.me/251905243667?text=Hello%20tkingbeast%20support%20failed%20to%20submit%20my%20payment"
	defaultAccessLink  = "https://warr-up-legends.vercel.app/"
)

// ReviewConfig holds the links quoted to users.
type ReviewConfig struct {
	SupportLink string `yaml:"support_link" envconfig:"SUPPORT_LINK"`
	AccessLink  string `yaml:"access_link" envconfig:"ACCESS_LINK"`
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Review   ReviewConfig        `yaml:"review"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core settings.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// LoadConfig reads path (optional), .env and the environment, then validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := coreconfig.Load(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabaseConfig loads the same sources as LoadConfig but validates only the
// database section, so migrations can run without bot credentials.
func LoadDatabaseConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := coreconfig.Load(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	return cfg, nil
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	c.Review.SupportLink = strings.TrimSpace(c.Review.SupportLink)
	if c.Review.SupportLink == "" {
		c.Review.SupportLink = defaultSupportLink
	}
	c.Review.AccessLink = strings.TrimSpace(c.Review.AccessLink)
	if c.Review.AccessLink == "" {
		c.Review.AccessLink = defaultAccessLink
	}
	if err := c.Database.Normalize(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	return nil
}
