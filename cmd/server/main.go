package main

import (
	"fmt"

	log "github.com/charmbracelet/log"

	"github.com/hazemdiab/ebanking/infra/initializer"
	"github.com/hazemdiab/ebanking/pkg/app"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	deps.Logger.Info("starting server",
		"env", cfg.Env,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	a := app.New(deps, cfg)
	fiberApp := webapi.SetupApp(a)
	return fiberApp.Listen(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
}
