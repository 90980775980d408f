// Package config loads songbook settings from defaults, an optional .env
// file, a YAML file and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the songbook server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
	Songs   SongsConfig   `yaml:"songs"`
	SSO     SSOConfig     `yaml:"sso"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects the storage backend: "postgres", "mysql" or "memory".
type StoreConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	MaxAge       time.Duration `yaml:"max_age"`
	SecureCookie bool          `yaml:"secure_cookie"`
	BcryptCost   int           `yaml:"bcrypt_cost"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, also writes logs to a rotated file.
	File string `yaml:"file"`
}

// SongsConfig holds song editing policy.
type SongsConfig struct {
	// OwnerOnlyEdits restricts edit and delete to the song's author.
	OwnerOnlyEdits bool `yaml:"owner_only_edits"`
}

// SSOConfig configures the optional OpenID Connect login.
type SSOConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

const minSecretLen = 16

// Default returns development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:          "postgres",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Session: SessionConfig{
			MaxAge: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, .env, the YAML file at path (skipped
// when path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.Server.Addr, "SONGBOOK_ADDR")
	override(&c.Store.Driver, "SONGBOOK_STORE_DRIVER")
	override(&c.Store.DSN, "DATABASE_URL")
	override(&c.Session.Secret, "SESSION_SECRET")
	override(&c.Log.Level, "SONGBOOK_LOG_LEVEL")
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Session.Secret) < minSecretLen {
		return fmt.Errorf("session.secret must be at least %d characters", minSecretLen)
	}
	switch c.Store.Driver {
	case "memory":
	case "postgres", "mysql":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Session.MaxAge <= 0 {
		return errors.New("session.max_age must be positive")
	}
	if c.SSO.Enabled && (c.SSO.Issuer == "" || c.SSO.ClientID == "" || c.SSO.RedirectURL == "") {
		return errors.New("sso.issuer, sso.client_id and sso.redirect_url are required when sso is enabled")
	}
	return nil
}
