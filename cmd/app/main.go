package main

import (
	"slotwise/config"
	"slotwise/di"
	"slotwise/shared/logger"
)

// @title Slotwise API
// @version 1.0
// @description Multi-tenant scheduling: availability, bookings and catalog lookups.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	server := di.InitializeService()
	server.Serve()
}
