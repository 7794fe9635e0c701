package di

import (
	"context"
	"slotwise/config"
	"slotwise/helper"
	"slotwise/infras/kafka"
	"slotwise/infras/metrics"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/infras/s3"
	"slotwise/internal/events"
	"slotwise/internal/handlers/health"
	"slotwise/internal/store"
	"slotwise/internal/store/memstore"
	"slotwise/internal/store/pgstore"
	"slotwise/shared/cache"
	"slotwise/shared/timezone"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func provideRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// provideStore opens the configured backend. The memory driver is loaded from
// App.SeedFile when one is set.
func provideStore(cfg *config.Config, otel otel.Otel, clock timezone.Clock) store.Store {
	switch cfg.DB.Driver {
	case config.DBDriverMemory:
		memory := memstore.New()

		if cfg.App.SeedFile != "" {
			if err := helper.Seed(context.Background(), memory, cfg.App.SeedFile, clock); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed memory store")
			}
		}

		log.Info().Msg("Using in-memory store")

		return memory
	default:
		if cfg.DB.Postgres.AutoMigrate {
			if err := helper.Up(cfg); err != nil {
				log.Fatal().Err(err).Msg("Failed to migrate database")
			}
		}

		return pgstore.New(postgres.New(cfg), otel)
	}
}

func provideReader(s store.Store) store.Reader {
	return s
}

func providePinger(s store.Store) health.Pinger {
	return s
}

func provideCache(client *goRedis.Client, otel otel.Otel) cache.RedisCache {
	if client == nil {
		return nil
	}

	return cache.NewRedisCache(client, otel)
}

// provideBus attaches the Kafka and S3 archive sinks that are enabled.
func provideBus(cfg *config.Config, metrics *metrics.Metrics, otel otel.Otel) *events.Bus {
	bus := events.NewBus(metrics)

	if cfg.Kafka.Enable {
		bus.Attach(events.NewKafkaSink(kafka.New(cfg, otel), cfg.Kafka.Topic))
		log.Info().Str("topic", cfg.Kafka.Topic).Msg("Streaming booking events to Kafka")
	}

	if cfg.External.S3.Enable {
		bus.Attach(events.NewArchiveSink(s3.New(cfg, otel), cfg.External.S3.BucketName, cfg.External.S3.ArchivePrefix))
		log.Info().Str("bucket", cfg.External.S3.BucketName).Msg("Archiving booking events to S3")
	}

	return bus
}
