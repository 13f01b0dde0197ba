package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/joho/godotenv"
)

const dotenvPath = ".env"

const (
	envBackend      = "GARAGE_BACKEND"
	envDataPath     = "GARAGE_DATA_PATH"
	envAuthBackend  = "GARAGE_AUTH_BACKEND"
	envPollInterval = "GARAGE_POLL_INTERVAL"
	envLogLevel     = "GARAGE_LOG_LEVEL"
	envLogFormat    = "GARAGE_LOG_FORMAT"
)

var lookupEnv = os.LookupEnv

// parseEnv overlays cfg with GARAGE_* variables. Entries from the dotenv file
// are used only for variables the process environment does not set. The
// process environment itself is left untouched.
func parseEnv(cfg *Config, dotenv string) error {
	fileVars, err := godotenv.Read(dotenv)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", dotenv, err)
	}

	get := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := get(envBackend); ok {
		cfg.Backend = storage.Kind(v)
	}
	if v, ok := get(envDataPath); ok {
		cfg.DataPath = v
	}
	if v, ok := get(envAuthBackend); ok {
		cfg.AuthBackend = AuthBackend(v)
	}
	if v, ok := get(envPollInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPollInterval, err)
		}
		cfg.PollInterval = d
	}
	if v, ok := get(envLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(envLogFormat); ok {
		cfg.LogFormat = v
	}
	return nil
}
