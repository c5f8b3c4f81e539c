// Package config loads runtime configuration for the usuarios CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with USUARIOS_. A dotenv file (-e or
//     -env-file, otherwise ./.env when present) is loaded into the
//     environment first; variables already set in the real environment win.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the usuarios API, e.g. http://localhost:5000/api
//	-t int      request timeout (seconds)
//	-s string   slot backend: sqlite or redis
//	-d string   SQLite database path
//	-r string   Redis address host:port
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they are strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:5000/api",
//	  "request_timeout": "10s",
//	  "slot_backend": "sqlite",
//	  "database_path": "data/session.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 0,
//	  "slot_name": "currentUser",
//	  "auto_login_delay": "2s",
//	  "log_level": "info"
//	}
//
// Malformed JSON, environment values or flags make LoadConfig panic.
package config
