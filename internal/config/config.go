// Package config loads application settings. It uses the Viper library to
// read settings from a config file and environment variables, with a .env
// file picked up for local development, providing a unified configuration
// system.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	// Credentials forwarded to the bird tool.
	AuthToken string
	CSRFToken string
	ProxyURL  string

	// Fetch pool settings.
	Parallel    int
	MaxAttempts int
	RetryWait   time.Duration

	// Per-invocation timeouts.
	ReadTimeout    time.Duration
	RefreshTimeout time.Duration
	WhoamiTimeout  time.Duration
	VersionTimeout time.Duration

	// OutputDir is where rendered records land.
	OutputDir string

	// MetricsAddr, when set, serves /metrics and /healthz on that address.
	MetricsAddr string

	Verbose bool
}

// Load resolves configuration from, in increasing precedence: defaults,
// an optional config file, a .env file, and process environment
// variables. An empty path searches the standard config locations.
func Load(path string) (Config, error) {
	// Credentials commonly live in .env during development. Missing file
	// is fine; real env vars win over .env values either way.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("XSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The tool's credential variables are historically unprefixed.
	bindEnv(v, "auth_token", "AUTH_TOKEN")
	bindEnv(v, "csrf_token", "CT0")
	bindEnv(v, "proxy_url", "PROXY_URL")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("xscrape")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/xscrape")
	}
	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly named file is required to exist.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		AuthToken:      v.GetString("auth_token"),
		CSRFToken:      v.GetString("csrf_token"),
		ProxyURL:       v.GetString("proxy_url"),
		Parallel:       v.GetInt("scrape.parallel"),
		MaxAttempts:    v.GetInt("scrape.max_attempts"),
		RetryWait:      v.GetDuration("scrape.retry_wait"),
		ReadTimeout:    v.GetDuration("bird.read_timeout"),
		RefreshTimeout: v.GetDuration("bird.refresh_timeout"),
		WhoamiTimeout:  v.GetDuration("bird.whoami_timeout"),
		VersionTimeout: v.GetDuration("bird.version_timeout"),
		OutputDir:      v.GetString("output.dir"),
		MetricsAddr:    v.GetString("metrics.addr"),
		Verbose:        v.GetBool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scrape.parallel", 5)
	v.SetDefault("scrape.max_attempts", 5)
	v.SetDefault("scrape.retry_wait", "10s")
	v.SetDefault("bird.read_timeout", "60s")
	v.SetDefault("bird.refresh_timeout", "120s")
	v.SetDefault("bird.whoami_timeout", "30s")
	v.SetDefault("bird.version_timeout", "10s")
	v.SetDefault("output.dir", "output")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("verbose", false)
}

func bindEnv(v *viper.Viper, key string, envVar string) {
	// BindEnv only errors on an empty key.
	_ = v.BindEnv(key, envVar)
}

// Validate rejects settings the fetch pool cannot run with.
func (c Config) Validate() error {
	if c.Parallel < 1 {
		return fmt.Errorf("scrape.parallel must be >= 1, got %d", c.Parallel)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("scrape.max_attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.RetryWait < 0 {
		return fmt.Errorf("scrape.retry_wait must not be negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	return nil
}

// HasCredentials reports whether both cookie values are present.
func (c Config) HasCredentials() bool {
	return c.AuthToken != "" && c.CSRFToken != ""
}
