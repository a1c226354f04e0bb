package main

import (
	"context"
	"os/signal"
	"syscall"

	"toolhub/config"
	"toolhub/di"
	"toolhub/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetOutput(cfg)
	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeAuditConsumer()

	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close audit consumer")
		}
	}()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Audit consumer failed")
	}

	log.Info().Msg("Audit consumer stopped")
}
