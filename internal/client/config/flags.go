package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/usuarios/internal/flagx"
)

// parseFlags overlays cfg with the CLI's own flags from args; flags owned by
// other loaders are filtered out first.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("usuarios", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the usuarios API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SlotBackend, "s", cfg.SlotBackend, "slot backend (sqlite or redis)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
