package main

import (
	"os"
	"slotwise/config"
	"slotwise/helper"
	"slotwise/shared/logger"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up, drop or version")
	}

	logger.InitLogger()

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, helper.MigrateAction(os.Args[1])); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
