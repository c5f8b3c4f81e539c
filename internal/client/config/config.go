package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Slot backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the usuarios CLI.
type Config struct {
	ServerBaseURL  string        `env:"SERVER_BASE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	SlotBackend  string `env:"SLOT_BACKEND"`
	DatabasePath string `env:"DATABASE_PATH"`
	RedisAddr    string `env:"REDIS_ADDR"`
	RedisDB      int    `env:"REDIS_DB"`
	SlotName     string `env:"SLOT_NAME"`

	// AutoLoginDelay is the pause between a successful sign-up and the
	// automatic sign-in.
	AutoLoginDelay time.Duration `env:"AUTO_LOGIN_DELAY"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.SlotBackend = BackendSQLite
	c.DatabasePath = "data/session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.SlotName = "currentUser"
	c.AutoLoginDelay = 2 * time.Second
	c.LogLevel = "info"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.SlotBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("database path is required for the %s slot backend", BackendSQLite)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the %s slot backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown slot backend %q", c.SlotBackend)
	}
	if c.ServerBaseURL == "" {
		return fmt.Errorf("server base URL is required")
	}
	if c.RequestTimeout < 0 || c.AutoLoginDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and the command line, in that order.
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
