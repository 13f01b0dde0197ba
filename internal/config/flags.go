package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/garage/internal/storage"
)

var flagOutput io.Writer = os.Stderr

// parseFlags overlays cfg with command-line flags. -c and -config are
// accepted here too so the full argument list parses cleanly; their value is
// consumed earlier by parseJSON.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("garage", flag.ContinueOnError)
	fs.SetOutput(flagOutput)

	var configPath string
	fs.StringVar(&configPath, "config", "", "path to JSON config file")
	fs.StringVar(&configPath, "c", "", "path to JSON config file (short)")

	backend := string(cfg.Backend)
	authBackend := string(cfg.AuthBackend)

	fs.BoolVar(&cfg.Admin, "admin", cfg.Admin, "start the administrator session")
	fs.StringVar(&backend, "backend", backend, "durable backend: file, sqlite or memory")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "path of the durable data file")
	fs.StringVar(&authBackend, "auth-backend", authBackend, "directory used for login: memory or durable")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "readiness polling interval")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Backend = storage.Kind(backend)
	cfg.AuthBackend = AuthBackend(authBackend)
	return nil
}
