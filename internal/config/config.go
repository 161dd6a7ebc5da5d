// Package config loads service settings from an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"citytour/internal/opt"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Tour     TourConfig     `yaml:"tour"`
	Log      LogConfig      `yaml:"log"`
	Webhooks WebhookConfig  `yaml:"webhooks"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allowOrigins"`
	RateRPS      float64  `yaml:"rateRps"` // 0 disables limiting
	RateBurst    int      `yaml:"rateBurst"`
}

type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Migrate bool   `yaml:"migrate"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type TourConfig struct {
	Restarts int `yaml:"restarts"`
}

// WebhookConfig lists receivers that get every broker event as a signed POST.
type WebhookConfig struct {
	URLs        []string `yaml:"urls"`
	Secret      string   `yaml:"secret"`
	MaxAttempts int      `yaml:"maxAttempts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", AllowOrigins: []string{"*"}, RateRPS: 5, RateBurst: 10},
		Database: DatabaseConfig{Migrate: true},
		Tour:     TourConfig{Restarts: opt.DefaultRestarts},
		Log:      LogConfig{Level: "info", Format: "json"},
		Webhooks: WebhookConfig{MaxAttempts: 10},
	}
}

// Load reads CONFIG_FILE (if set) over the defaults, then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data over cfg; keys not present keep their current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = splitList(v)
	}
	if v := getenv("RATE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_RPS: %w", err)
		}
		c.Server.RateRPS = f
	}
	if v := getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_BURST: %w", err)
		}
		c.Server.RateBurst = n
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := getenv("DB_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_MIGRATE: %w", err)
		}
		c.Database.Migrate = b
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := getenv("TOUR_RESTARTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOUR_RESTARTS: %w", err)
		}
		c.Tour.Restarts = n
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("WEBHOOK_URLS"); v != "" {
		c.Webhooks.URLs = splitList(v)
	}
	if v := getenv("WEBHOOK_SECRET"); v != "" {
		c.Webhooks.Secret = v
	}
	if v := getenv("WEBHOOK_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WEBHOOK_MAX_ATTEMPTS: %w", err)
		}
		c.Webhooks.MaxAttempts = n
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port must be set"))
	}
	if c.Server.RateRPS < 0 {
		errs = append(errs, errors.New("server.rateRps must be >= 0"))
	}
	if c.Server.RateRPS > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, errors.New("server.rateBurst must be >= 1 when rate limiting is on"))
	}
	if c.Tour.Restarts < 1 {
		errs = append(errs, errors.New("tour.restarts must be >= 1"))
	}
	if len(c.Webhooks.URLs) > 0 && c.Webhooks.MaxAttempts < 1 {
		errs = append(errs, errors.New("webhooks.maxAttempts must be >= 1"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// SlogLevel maps Log.Level to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
