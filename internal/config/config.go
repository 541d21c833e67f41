// Package config holds the server settings. Values come from defaults, then an
// optional YAML file, then environment variables (a .env file is loaded by
// main before Load runs).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bburg/bsquared-dev/internal/typewriter"
)

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug | release | test
}

type PathsConfig struct {
	Data      string `yaml:"data"`
	Templates string `yaml:"templates"`
	Static    string `yaml:"static"`
	Images    string `yaml:"images"`
	DB        string `yaml:"db"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"-"`
	To   string `yaml:"to"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TypewriterConfig is the boot sequence pacing in milliseconds.
type TypewriterConfig struct {
	BaseDelayMs int `yaml:"base_delay_ms"`
	JitterMs    int `yaml:"jitter_ms"`
	LinePauseMs int `yaml:"line_pause_ms"`
}

// Timing converts the millisecond settings.
func (t TypewriterConfig) Timing() typewriter.Timing {
	return typewriter.Timing{
		BaseDelay: time.Duration(t.BaseDelayMs) * time.Millisecond,
		Jitter:    time.Duration(t.JitterMs) * time.Millisecond,
		LinePause: time.Duration(t.LinePauseMs) * time.Millisecond,
	}
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Paths      PathsConfig      `yaml:"paths"`
	Admin      AdminConfig      `yaml:"admin"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Typewriter TypewriterConfig `yaml:"typewriter"`

	// DefaultAdmin is set when the admin credentials fell back to the
	// development values.
	DefaultAdmin bool `yaml:"-"`
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: "8080", Mode: "debug"},
		Paths: PathsConfig{
			Data:      "data",
			Templates: "templates/*",
			Static:    "static",
			Images:    "images",
			DB:        "site.db",
		},
		SMTP:    SMTPConfig{Host: "smtp.gmail.com", Port: "587"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Enabled: true},
		Typewriter: TypewriterConfig{
			BaseDelayMs: 30,
			JitterMs:    20,
			LinePauseMs: 500,
		},
	}
}

// Env var names used as overrides.
const (
	EnvPort          = "PORT"
	EnvMode          = "GIN_MODE"
	EnvDataDir       = "DATA_DIR"
	EnvDBPath        = "DB_PATH"
	EnvAdminUsername = "ADMIN_USERNAME"
	EnvAdminPassword = "ADMIN_PASSWORD"
	EnvSMTPHost      = "SMTP_HOST"
	EnvSMTPPort      = "SMTP_PORT"
	EnvSMTPUser      = "SMTP_USER"
	EnvSMTPPass      = "SMTP_PASS"
	EnvToEmail       = "TO_EMAIL"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
	EnvLogFile       = "LOG_FILE"
	EnvMetrics       = "METRICS_ENABLED"
	EnvBaseDelay     = "TYPEWRITER_BASE_DELAY_MS"
	EnvJitter        = "TYPEWRITER_JITTER_MS"
	EnvLinePause     = "TYPEWRITER_LINE_PAUSE_MS"
)

const (
	devAdminUsername = "admin"
	devAdminPassword = "admin123"
)

// Load builds the configuration. path may be empty or point to a missing
// file, in which case only defaults and env are used.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		cfg.DefaultAdmin = true
		if cfg.Admin.Username == "" {
			cfg.Admin.Username = devAdminUsername
		}
		if cfg.Admin.Password == "" {
			cfg.Admin.Password = devAdminPassword
		}
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str(EnvPort, &cfg.Server.Port)
	str(EnvMode, &cfg.Server.Mode)
	str(EnvDataDir, &cfg.Paths.Data)
	str(EnvDBPath, &cfg.Paths.DB)
	str(EnvAdminUsername, &cfg.Admin.Username)
	str(EnvAdminPassword, &cfg.Admin.Password)
	str(EnvSMTPHost, &cfg.SMTP.Host)
	str(EnvSMTPPort, &cfg.SMTP.Port)
	str(EnvSMTPUser, &cfg.SMTP.User)
	str(EnvSMTPPass, &cfg.SMTP.Pass)
	str(EnvToEmail, &cfg.SMTP.To)
	str(EnvLogLevel, &cfg.Logging.Level)
	str(EnvLogFormat, &cfg.Logging.Format)
	str(EnvLogFile, &cfg.Logging.File)

	if v := strings.TrimSpace(os.Getenv(EnvMetrics)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMetrics, err)
		}
		cfg.Metrics.Enabled = b
	}

	ms := []struct {
		key string
		dst *int
	}{
		{EnvBaseDelay, &cfg.Typewriter.BaseDelayMs},
		{EnvJitter, &cfg.Typewriter.JitterMs},
		{EnvLinePause, &cfg.Typewriter.LinePauseMs},
	}
	for _, m := range ms {
		v := strings.TrimSpace(os.Getenv(m.key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", m.key, err)
		}
		*m.dst = n
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode %q", c.Server.Mode)
	}
	tw := c.Typewriter
	if tw.BaseDelayMs < 0 || tw.JitterMs < 0 || tw.LinePauseMs < 0 {
		return errors.New("typewriter timings must not be negative")
	}
	if strings.TrimSpace(c.Paths.Data) == "" {
		return errors.New("data directory not set")
	}
	return nil
}

// SMTPReady reports whether contact emails can be sent.
func (c Config) SMTPReady() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != "" && c.SMTP.To != ""
}
