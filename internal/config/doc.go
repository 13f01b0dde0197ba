// Package config loads runtime configuration for the garage binary.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and GARAGE_* environment
//     variables; real environment variables win over .env entries.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-admin               start the administrator session instead of the login gate
//	-backend string      durable backend: file or sqlite (memory for throwaway runs)
//	-data string         path of the durable data file
//	-auth-backend string directory used for login: memory or durable
//	-poll duration       readiness polling interval, e.g. 700ms
//	-log-level string    debug, info, warn or error
//	-log-format string   text or json
//
// # JSON schema
//
// Durations are strings like "700ms" or integer nanoseconds. Absent keys
// keep the value from earlier sources.
//
//	{
//	  "backend": "sqlite",
//	  "data_path": "/var/lib/garage/garage.db",
//	  "auth_backend": "memory",
//	  "poll_interval": "700ms",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
