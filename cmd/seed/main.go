package main

import (
	"context"
	"os"
	"slotwise/config"
	"slotwise/helper"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/internal/store/pgstore"
	"slotwise/shared/logger"
	"slotwise/shared/timezone"

	"github.com/rs/zerolog/log"
)

const argLength = 2

// Loads a YAML catalog fixture into PostgreSQL. The path defaults to APP_SEED_FILE.
func main() {
	logger.InitLogger()

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	path := cfg.App.SeedFile
	if len(os.Args) >= argLength {
		path = os.Args[1]
	}

	if path == "" {
		log.Fatal().Msg("Seed file is required: seed <file.yaml> or APP_SEED_FILE")
	}

	db := postgres.New(cfg)
	s := pgstore.New(db, otel.New(cfg))

	if err := helper.Seed(context.Background(), s, path, timezone.SystemClock()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}
}
