package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/dmitrijs2005/usuarios/internal/flagx"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "USUARIOS_"

// loadDotEnv loads the dotenv file named by -e/-env-file, panicking when it
// cannot be read. Without the flag ./.env is loaded if it exists.
func loadDotEnv(args []string) {
	if path := flagx.EnvFileFlags(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays cfg with USUARIOS_* variables found through l. Only
// variables that are set replace the current value.
func parseEnv(cfg *Config, l envconfig.Lookuper) {
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:           cfg,
		Lookuper:         envconfig.PrefixLookuper(EnvPrefix, l),
		DefaultOverwrite: true,
	})
	if err != nil {
		panic(err)
	}
}
