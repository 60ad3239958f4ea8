/*
Package config loads runtime settings for the planner binary.

SOURCES (later wins):
  1. Defaults from SetDefaults
  2. Optional file (.yaml, .yml or .json)
  3. Environment: PLANNER_SERVER__PORT=9090 sets server.port
     (LoadDotenv can seed it from a .env file first)

EXAMPLE FILE:
  server:
    port: 8080
    db_path: ./data/planner.db
    allowed_origins: ["http://localhost:3000"]
    plan_ttl_minutes: 1440
  calendar:
    years_ahead: 1
  logging:
    level: info
    format: json
*/
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "PLANNER_"

type Config struct {
	Server   ServerConfig   `json:"server"`
	Calendar CalendarConfig `json:"calendar"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig controls the HTTP shell.
type ServerConfig struct {
	Port           int      `json:"port"`
	DBPath         string   `json:"db_path"`
	AllowedOrigins []string `json:"allowed_origins"`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `json:"shutdown_seconds"`
	// PlanTTLMinutes evicts plans idle for longer; zero keeps them forever.
	PlanTTLMinutes int `json:"plan_ttl_minutes"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.DBPath == "" {
		c.DBPath = "./data/planner.db"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.ShutdownSeconds == 0 {
		c.ShutdownSeconds = 30
	}
}

func (c ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Port)
	}
	if c.ShutdownSeconds < 0 {
		return fmt.Errorf("server.shutdown_seconds must not be negative")
	}
	if c.PlanTTLMinutes < 0 {
		return fmt.Errorf("server.plan_ttl_minutes must not be negative")
	}
	return nil
}

// CalendarConfig sets the holiday window used when a feed omits one.
type CalendarConfig struct {
	// YearsAhead is added to the start year to close the window. Zero
	// limits the window to the start year; it is defaulted only when unset.
	YearsAhead int `json:"years_ahead"`
}

func (c *CalendarConfig) SetDefaults() {
	if c.YearsAhead == 0 {
		c.YearsAhead = 1
	}
}

func (c CalendarConfig) Validate() error {
	if c.YearsAhead < 0 || c.YearsAhead > 10 {
		return fmt.Errorf("calendar.years_ahead must be within 0..10, got %d", c.YearsAhead)
	}
	return nil
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level string `json:"level"`
	// Format is "json" or "console".
	Format string `json:"format"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown logging.format %s", c.Format)
	}
	return nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Calendar.SetDefaults()
	c.Logging.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Load reads path (optional, may be empty) and environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	yearsAhead := cfg.Calendar.YearsAhead
	cfg.SetDefaults()
	if k.Exists("calendar.years_ahead") {
		cfg.Calendar.YearsAhead = yearsAhead
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotenv copies a .env file into the process environment so Load sees
// it. Variables already set are kept.
func LoadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
