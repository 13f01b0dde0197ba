package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/garage/internal/storage"
)

// Duration accepts either a duration string ("700ms") or integer
// nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(time.Duration(x))
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// jsonConfig is the on-disk shape. Pointer fields distinguish an absent key
// from a zero value.
type jsonConfig struct {
	Admin        *bool     `json:"admin"`
	Backend      *string   `json:"backend"`
	DataPath     *string   `json:"data_path"`
	AuthBackend  *string   `json:"auth_backend"`
	PollInterval *Duration `json:"poll_interval"`
	LogLevel     *string   `json:"log_level"`
	LogFormat    *string   `json:"log_format"`
}

// parseJSON overlays cfg with the file at path. An empty path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.Admin != nil {
		cfg.Admin = *jc.Admin
	}
	if jc.Backend != nil {
		cfg.Backend = storage.Kind(*jc.Backend)
	}
	if jc.DataPath != nil {
		cfg.DataPath = *jc.DataPath
	}
	if jc.AuthBackend != nil {
		cfg.AuthBackend = AuthBackend(*jc.AuthBackend)
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = time.Duration(*jc.PollInterval)
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	return nil
}
