package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/garage/internal/flagx"
	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/storage"
)

// AuthBackend selects the directory the login gate checks credentials
// against.
type AuthBackend string

const (
	// AuthMemory probes the seeded in-memory directory, so repeated login
	// attempts never touch persisted data.
	AuthMemory AuthBackend = "memory"
	// AuthDurable probes the configured durable backend.
	AuthDurable AuthBackend = "durable"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the garage binary.
type Config struct {
	Admin        bool
	Backend      storage.Kind
	DataPath     string
	AuthBackend  AuthBackend
	PollInterval time.Duration
	LogLevel     string
	LogFormat    string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.Admin = false
	c.Backend = storage.KindFile
	c.DataPath = "garage.json"
	c.AuthBackend = AuthMemory
	c.PollInterval = 700 * time.Millisecond
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, the environment, an optional JSON file
// and args (usually os.Args[1:]), in that order, and validates the result.
// A -h or -help flag yields flag.ErrHelp.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, dotenvPath); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem it finds, joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := storage.ParseKind(string(c.Backend)); err != nil {
		errs = append(errs, err)
	}
	if c.Backend.Durable() && strings.TrimSpace(c.DataPath) == "" {
		errs = append(errs, fmt.Errorf("backend %s needs a data path", c.Backend))
	}
	switch c.AuthBackend {
	case AuthMemory, AuthDurable:
	default:
		errs = append(errs, fmt.Errorf("unknown auth backend %q", c.AuthBackend))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %s", c.PollInterval))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
