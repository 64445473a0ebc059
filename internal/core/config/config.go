// Package config handles configuration loading and validation for the
// sikkerchat client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file and environment leave a value unset.
const (
	DefaultServerURL    = "https://sikkerchat-p2-1.onrender.com"
	DefaultRoom         = "Prototype"
	DefaultPollInterval = 3 * time.Second
	DefaultHTTPTimeout  = 10 * time.Second
)

// Duration wraps time.Duration so YAML values can be written as "3s" or
// "500ms" instead of nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the application configuration.
type Config struct {
	ServerURL    string   `yaml:"server_url"`
	DefaultRoom  string   `yaml:"default_room"`
	PollInterval Duration `yaml:"poll_interval"`
	HTTPTimeout  Duration `yaml:"http_timeout"`
	DataDir      string   `yaml:"-"` // set by caller, not from config file
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServerURL:    DefaultServerURL,
		DefaultRoom:  DefaultRoom,
		PollInterval: Duration(DefaultPollInterval),
		HTTPTimeout:  Duration(DefaultHTTPTimeout),
	}
}

// Load reads configuration from the given path and sets the data directory.
// A .env file in the working directory and SIKKERCHAT_* environment
// variables override file values. If configPath is empty or doesn't exist,
// returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides config values from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("SIKKERCHAT_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("SIKKERCHAT_ROOM"); v != "" {
		c.DefaultRoom = v
	}
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.ServerURL == "" {
		c.ServerURL = defaults.ServerURL
	}
	if c.DefaultRoom == "" {
		c.DefaultRoom = defaults.DefaultRoom
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = defaults.HTTPTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if u, err := url.Parse(c.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = errs.Append("server_url", fmt.Errorf("must be an absolute http(s) URL: %q", c.ServerURL))
	}

	if c.PollInterval.Std() < 500*time.Millisecond {
		errs = errs.Append("poll_interval", fmt.Errorf("must be at least 500ms"))
	}

	if c.HTTPTimeout.Std() <= 0 {
		errs = errs.Append("http_timeout", fmt.Errorf("must be positive"))
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}

	return errs.ToError()
}

// PrefsFile returns the path to the preferences JSON file.
func (c *Config) PrefsFile() string {
	return filepath.Join(c.DataDir, "prefs.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "sikkerchat.log")
}
