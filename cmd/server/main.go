package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/aura-store/internal/app"
	"github.com/MikeMC777/aura-store/internal/config"
	"github.com/MikeMC777/aura-store/internal/logging"
	"github.com/MikeMC777/aura-store/internal/shutdown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("uncaught panic")
			os.Exit(1)
		}
	}()

	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	logging.New(logging.Options{
		Service: "aura-store",
		Env:     os.Getenv("APP_ENV"),
		Level:   os.Getenv("LOG_LEVEL"),
	})

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	logging.New(logging.Options{Service: "aura-store", Env: cfg.Env, Level: cfg.LogLevel})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := app.Run(ctx, cfg, app.Production()); err != nil {
		log.Error().Err(err).Msg("server failed")
		cancel()
		os.Exit(1)
	}
	log.Info().Msg("bye")
}
