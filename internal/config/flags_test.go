package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "nothing", args: nil, mutate: func(*Config) {}},
		{
			name: "all flags",
			args: []string{"-admin", "-backend", "sqlite", "-data", "g.db", "-auth-backend", "durable",
				"-poll", "1s", "-log-level", "debug", "-log-format", "json"},
			mutate: func(c *Config) {
				c.Admin = true
				c.Backend = "sqlite"
				c.DataPath = "g.db"
				c.AuthBackend = AuthDurable
				c.PollInterval = time.Second
				c.LogLevel = "debug"
				c.LogFormat = "json"
			},
		},
		{name: "config flag accepted", args: []string{"-c", "x.json", "-admin"}, mutate: func(c *Config) { c.Admin = true }},
		{name: "bad duration", args: []string{"-poll", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, nil)

			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.mutate(want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}
