package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFeedURL is used when neither the file nor RISKFEED_API_URL sets feed.base_url.
const DefaultFeedURL = "http://localhost:8001/api/v1"

// Config holds the riskfeed service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Feed     FeedConfig     `yaml:"feed"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"RISKFEED_LOG_LEVEL"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" env:"RISKFEED_HTTP_PORT"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// FeedConfig holds upstream document feed settings.
type FeedConfig struct {
	BaseURL    string `yaml:"base_url" env:"RISKFEED_API_URL"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxBodyMB  int    `yaml:"max_body_mb"`
}

// AnalysisConfig holds the wording of synthesized findings.
type AnalysisConfig struct {
	Narratives NarrativesConfig `yaml:"narratives"`
}

// NarrativesConfig holds per-band narratives. Empty entries use built-in wording.
type NarrativesConfig struct {
	High   string `yaml:"high"`
	Medium string `yaml:"medium"`
	Low    string `yaml:"low"`
}

// AlertsConfig holds high-risk alert destinations.
type AlertsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig holds Telegram bot settings. Alerts are disabled without a token.
type TelegramConfig struct {
	Token  string `yaml:"token" env:"RISKFEED_TELEGRAM_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"RISKFEED_TELEGRAM_CHAT_ID"`
}

// Enabled reports whether Telegram alerts are configured.
func (t TelegramConfig) Enabled() bool { return t.Token != "" }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, overrides, defaults and validates a config file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// applyEnvOverrides lets RISKFEED_* variables win over file values. Unset
// variables leave the file value untouched.
func (c *Config) applyEnvOverrides() error {
	if err := envparse.Parse(c); err != nil {
		return fmt.Errorf("parse env overrides: %w", err)
	}
	return nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if strings.TrimSpace(c.Feed.BaseURL) == "" {
		c.Feed.BaseURL = DefaultFeedURL
	}
	if c.Feed.TimeoutSec <= 0 {
		c.Feed.TimeoutSec = 10
	}
	if c.Feed.MaxBodyMB <= 0 {
		c.Feed.MaxBodyMB = 16
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	u, err := url.Parse(strings.TrimSpace(c.Feed.BaseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed.base_url must be an absolute http(s) URL, got %q", c.Feed.BaseURL)
	}
	if c.Alerts.Telegram.Enabled() && c.Alerts.Telegram.ChatID == 0 {
		return fmt.Errorf("alerts.telegram.chat_id is required when a token is set")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
