package main

import (
	"toolhub/config"
	"toolhub/di"
	"toolhub/helper"
	"toolhub/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Toolhub API
// @version 1.0
// @description Reservation of electric and manual equipment.
// @BasePath /
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetOutput(cfg)
	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
