package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cmdbot/internal/bot"
	"cmdbot/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Info().Msg("starting cmdbot...")

	log.Info().Msg("reading config...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	cfg.SetupLogging()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := bot.New(ctx, cfg.Token,
		bot.WithPrefix(cfg.Prefix),
		bot.WithHandlerTimeout(cfg.HandlerTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing discord client")
	}

	if err := client.RegisterBuiltins(); err != nil {
		log.Fatal().Err(err).Msg("failed registering commands")
	}

	log.Info().Strs("commands", client.Commands()).Str("prefix", cfg.Prefix).Msg("bot listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case <-client.Done():
		if err := client.Err(); err != nil {
			log.Error().Err(err).Msg("gateway connection failed")
		}
	}

	client.Close()
	log.Info().Msg("bot exited cleanly")
}
