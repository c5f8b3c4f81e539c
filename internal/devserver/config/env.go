package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/dmitrijs2005/usuarios/internal/flagx"
)

const EnvPrefix = "USUARIOS_DEVSERVER_"

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
