package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/usuarios/internal/flagx"
	"github.com/dmitrijs2005/usuarios/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from a zero value, so a partial file only overrides what it
// names.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SlotBackend    *string         `json:"slot_backend"`
	DatabasePath   *string         `json:"database_path"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisDB        *int            `json:"redis_db"`
	SlotName       *string         `json:"slot_name"`
	AutoLoginDelay *timex.Duration `json:"auto_login_delay"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
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

	setIf(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setIf(&cfg.SlotBackend, jc.SlotBackend)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.RedisAddr, jc.RedisAddr)
	setIf(&cfg.RedisDB, jc.RedisDB)
	setIf(&cfg.SlotName, jc.SlotName)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AutoLoginDelay != nil {
		cfg.AutoLoginDelay = jc.AutoLoginDelay.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
