package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fintrackr/fintrackr/infra/initializer"
	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app := webapi.NewApp(deps.AuthSvc, deps.UserSvc, deps.TxSvc, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("Starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
