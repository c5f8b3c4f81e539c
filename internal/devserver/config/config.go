// Package config loads settings for the reference usuarios API server.
//
// Sources, later wins: defaults, the JSON file named by -c/-config, the
// dotenv file (-e/-env-file or ./.env), USUARIOS_DEVSERVER_* environment
// variables, and finally the flags below.
//
//	-a string   listen address (default ":5000")
//	-d string   PostgreSQL DSN; empty keeps accounts in memory
//	-l string   log level: debug, info, warn, error
//
// JSON keys: listen_addr, database_dsn, log_level, log_pretty, bcrypt_cost,
// shutdown_timeout ("5s" or nanoseconds).
//
// Malformed JSON, environment values or flags make LoadConfig panic.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the devserver.
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogPretty       bool          `env:"LOG_PRETTY"`
	BcryptCost      int           `env:"BCRYPT_COST"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates c with development defaults. The address matches
// the client's default base URL.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5000"
	c.DatabaseDSN = ""
	c.LogLevel = "info"
	c.LogPretty = false
	c.BcryptCost = bcrypt.DefaultCost
	c.ShutdownTimeout = 5 * time.Second
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("bcrypt cost out of range")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must not be negative")
	}
	return nil
}

// UsesPostgres reports whether accounts are stored in PostgreSQL.
func (c *Config) UsesPostgres() bool { return c.DatabaseDSN != "" }

func LoadConfig() *Config {
	return loadConfig(os.Args[1:], envconfig.OsLookuper())
}

func loadConfig(args []string, env envconfig.Lookuper) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	loadDotEnv(args)
	parseEnv(cfg, env)
	parseFlags(cfg, args)
	return cfg
}
