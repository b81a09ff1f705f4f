package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"

	"gotodo/internal/utils"
)

//go:embed config.sample.json
var sampleConfig []byte

const (
	CONFIG_DIR_PATH  = "gotodo"
	CONFIG_FILE_PATH = "config.json"
	CONFIG_DIR_PERM  = 0755
	CONFIG_FILE_PERM = 0644

	DefaultAPIURL         = "http://localhost:8080/todos"
	DefaultAlertDuration  = 3 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Environment overrides
const (
	EnvAPIURL      = "GOTODO_API_URL"
	EnvServerToken = "GOTODO_SERVER_TOKEN"
)

// ServerConfig configures `gotodo serve`
type ServerConfig struct {
	Addr           string  `json:"addr" yaml:"addr" validate:"required"`
	Storage        string  `json:"storage" yaml:"storage" validate:"oneof=memory sqlite"`
	DBPath         string  `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	RateLimitRPS   float64 `json:"rate_limit_rps" yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `json:"rate_limit_burst" yaml:"rate_limit_burst" validate:"gte=0"`
	AuthToken      string  `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
}

// Config represents the application configuration.
type Config struct {
	APIURL         string `json:"api_url" yaml:"api_url" validate:"required,url"`
	APIToken       string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	AlertDuration  string `json:"alert_duration,omitempty" yaml:"alert_duration,omitempty"`

	ToggleAlert              string `json:"toggle_alert,omitempty" yaml:"toggle_alert,omitempty" validate:"omitempty,oneof=pre post"`
	PreserveCompletionOnEdit bool   `json:"preserve_completion_on_edit" yaml:"preserve_completion_on_edit"`

	Server ServerConfig `json:"server" yaml:"server"`
}

// Validate checks field constraints and the duration settings
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if err := utils.ValidateBaseURL(c.APIURL); err != nil {
		return utils.ErrInvalidConfig("api_url", err.Error())
	}
	if _, err := utils.ParseDurationSetting(c.RequestTimeout, DefaultRequestTimeout); err != nil {
		return utils.ErrInvalidConfig("request_timeout", err.Error())
	}
	if _, err := utils.ParseDurationSetting(c.AlertDuration, DefaultAlertDuration); err != nil {
		return utils.ErrInvalidConfig("alert_duration", err.Error())
	}

	return nil
}

// GetAlertDuration returns how long an alert stays visible
func (c *Config) GetAlertDuration() time.Duration {
	d, err := utils.ParseDurationSetting(c.AlertDuration, DefaultAlertDuration)
	if err != nil {
		return DefaultAlertDuration
	}
	return d
}

// GetRequestTimeout returns the per-request HTTP timeout
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := utils.ParseDurationSetting(c.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return d
}

// GetToggleAlert returns the toggle alert mode, "pre" when unset
func (c *Config) GetToggleAlert() string {
	if c.ToggleAlert == "" {
		return "pre"
	}
	return c.ToggleAlert
}

// Redacted returns a copy safe to print, with tokens masked
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "********"
	}
	if c.Server.AuthToken != "" {
		c.Server.AuthToken = "********"
	}
	return c
}

// applyEnv overlays environment overrides
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerToken)); v != "" {
		c.Server.AuthToken = v
	}
}

// GetConfigPath returns the config file location. custom overrides the
// default user config directory; a directory gets config.json appended.
func GetConfigPath(custom string) (string, error) {
	if custom != "" {
		custom, err := utils.ExpandPath(custom)
		if err != nil {
			return "", err
		}
		if info, err := os.Stat(custom); err == nil && info.IsDir() {
			return filepath.Join(custom, CONFIG_FILE_PATH), nil
		}
		return custom, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, CONFIG_DIR_PATH, CONFIG_FILE_PATH), nil
}

// Load reads the config at path. A missing file falls back to the built-in
// sample so the client works out of the box against a local server.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		utils.Debugf("no config at %s, using defaults", path)
		data = sampleConfig
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document. Comments and trailing commas are allowed.
func Parse(data []byte) (*Config, error) {
	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(standard, cfg); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when a field is absent
func Default() *Config {
	return &Config{
		APIURL: DefaultAPIURL,
		Server: ServerConfig{
			Addr:           ":8080",
			Storage:        "memory",
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
	}
}

// WriteSample writes the commented sample config to path. It refuses to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), CONFIG_DIR_PERM); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, sampleConfig, CONFIG_FILE_PERM)
}
