package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/usuarios/internal/buildinfo"
	"github.com/dmitrijs2005/usuarios/internal/devserver"
	"github.com/dmitrijs2005/usuarios/internal/devserver/config"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.NewJSONZerologLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.LogPretty)

	ctx := context.Background()
	app, err := devserver.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
