package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

const (
	SourceAuto   = "auto"
	SourceRemote = "remote"
	SourceMock   = "mock"
)

// Config is read-only once Load returns.
type Config struct {
	BackendURL         string   `yaml:"backend_url"`
	DataSource         string   `yaml:"data_source"`
	DefaultPeriod      string   `yaml:"default_period"`
	Port               string   `yaml:"port"`
	HTTPTimeoutSeconds int      `yaml:"http_timeout_seconds"`
	LogLevel           string   `yaml:"log_level"`
	Locale             string   `yaml:"locale"`
	Currency           string   `yaml:"currency"`
	CurrencySymbol     string   `yaml:"currency_symbol"`
	DiscardStale       bool     `yaml:"discard_stale"`
	CORSOrigins        []string `yaml:"cors_origins"`
	RefreshRateLimit   int      `yaml:"refresh_rate_limit"`
	MockSeed           int64    `yaml:"mock_seed"`
	MockDays           int      `yaml:"mock_days"`
}

// Load aplica defaults -> YAML -> env y valida.
func Load() (*Config, error) {
	cfg := defaults()
	if err := loadYAMLFile(cfg, envOr("DASH_CONFIG_PATH", "config/dash.yaml"), false); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile is Load with an explicit path that must exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := defaults()
	if err := loadYAMLFile(cfg, path, true); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DataSource:         SourceAuto,
		DefaultPeriod:      string(models.PeriodLast30Days),
		Port:               "8080",
		HTTPTimeoutSeconds: 15,
		LogLevel:           "info",
		Locale:             "pt-BR",
		Currency:           "BRL",
		CORSOrigins:        []string{"*"},
		RefreshRateLimit:   30,
		MockSeed:           42,
		MockDays:           90,
	}
}

func loadYAMLFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnv: solo las variables no vacías pisan el valor
func applyEnv(cfg *Config) {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource = strings.ToLower(v)
	}
	if v := os.Getenv("DEFAULT_PERIOD"); v != "" {
		cfg.DefaultPeriod = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTPTimeoutSeconds = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("CURRENCY_SYMBOL"); v != "" {
		cfg.CurrencySymbol = v
	}
	if v := os.Getenv("DISCARD_STALE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DiscardStale = b
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("REFRESH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RefreshRateLimit = n
		}
	}
	if v := os.Getenv("MOCK_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MockSeed = n
		}
	}
	if v := os.Getenv("MOCK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MockDays = n
		}
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceAuto, SourceMock:
	case SourceRemote:
		if c.BackendURL == "" {
			return errors.New("BACKEND_URL is required when DATA_SOURCE=remote")
		}
	default:
		return fmt.Errorf("DATA_SOURCE %q: want auto, remote or mock", c.DataSource)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("LOCALE %q: %w", c.Locale, err)
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("CURRENCY %q: %w", c.Currency, err)
	}
	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be >= 0, got %d", c.HTTPTimeoutSeconds)
	}
	if c.RefreshRateLimit < 0 {
		return fmt.Errorf("REFRESH_RATE_LIMIT must be >= 0, got %d", c.RefreshRateLimit)
	}
	if c.MockDays <= 0 {
		return fmt.Errorf("MOCK_DAYS must be > 0, got %d", c.MockDays)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// Source resolves auto: remote when a backend URL is set.
func (c *Config) Source() string {
	if c.DataSource == SourceAuto {
		if c.BackendURL != "" {
			return SourceRemote
		}
		return SourceMock
	}
	return c.DataSource
}

// HTTPTimeout is the transport timeout, zero meaning none.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) Period() models.Period { return models.ParsePeriod(c.DefaultPeriod) }

func (c *Config) Level() slog.Level {
	l, _ := c.level()
	return l
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
