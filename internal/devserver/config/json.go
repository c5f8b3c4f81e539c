package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/usuarios/internal/flagx"
	"github.com/dmitrijs2005/usuarios/internal/timex"
)

type JsonConfig struct {
	ListenAddr      *string         `json:"listen_addr"`
	DatabaseDSN     *string         `json:"database_dsn"`
	LogLevel        *string         `json:"log_level"`
	LogPretty       *bool           `json:"log_pretty"`
	BcryptCost      *int            `json:"bcrypt_cost"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

func parseJson(cfg *Config, args []string) {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ListenAddr != nil {
		cfg.ListenAddr = *jc.ListenAddr
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogPretty != nil {
		cfg.LogPretty = *jc.LogPretty
	}
	if jc.BcryptCost != nil {
		cfg.BcryptCost = *jc.BcryptCost
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
}
