package postgres

//nolint:revive
import (
	"fmt"
	"slotwise/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection is the read/write pair of pools. Transactions always run on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New connects both pools, retrying each up to DB.Postgres.MaxRetry times. It is
// fatal when a pool cannot be opened.
func New(config *config.Config) *Connection {
	write, err := Connect(config, "write", config.DB.Postgres.Write)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the write database")
	}

	read, err := Connect(config, "read", config.DB.Postgres.Read)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the read database")
	}

	return &Connection{Read: read, Write: write}
}

// Connect opens and pings one pool sized by the DB.Postgres pool settings.
func Connect(config *config.Config, role string, node config.PostgresNode) (*sqlx.DB, error) {
	settings := config.DB.Postgres
	dsn := node.URL(settings.Prefix).String()
	attempts := max(1, settings.MaxRetry)

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(settings.MaxOpenConns)
			db.SetMaxIdleConns(settings.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(settings.ConnMaxLifetimeSeconds) * time.Second)

			log.Info().
				Str("role", role).
				Str("host", node.Host).
				Str("db", settings.Prefix+node.Name).
				Msg("Connected to database")

			return db, nil
		}

		log.Warn().
			Err(err).
			Str("role", role).
			Str("host", node.Host).
			Int("attempt", attempt).
			Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(time.Duration(settings.RetryWaitTime) * time.Second)
		}
	}

	return nil, fmt.Errorf("connecting to %s database after %d attempts: %w", role, attempts, err)
}
