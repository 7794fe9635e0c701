package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"slotwise/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

type MigrateAction string

const (
	MigrateUp      MigrateAction = "up"
	MigrateDown    MigrateAction = "down"
	MigrateStepUp  MigrateAction = "step-up"
	MigrateDrop    MigrateAction = "drop"
	MigrateVersion MigrateAction = "version"
)

var migrateSteps = map[MigrateAction]func(mig *migrate.Migrate) error{
	MigrateUp:     (*migrate.Migrate).Up,
	MigrateDown:   func(mig *migrate.Migrate) error { return mig.Steps(-1) },
	MigrateStepUp: func(mig *migrate.Migrate) error { return mig.Steps(1) },
	MigrateDrop:   (*migrate.Migrate).Down,
	MigrateVersion: func(mig *migrate.Migrate) error {
		version, dirty, err := mig.Version()
		if err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	},
}

// databaseURL is the write DSN with the configured migrations table.
func databaseURL(config *config.Config) string {
	dsn := config.DB.Postgres.Write.URL(config.DB.Postgres.Prefix)

	if table := config.DB.Postgres.MigrationTable; table != "" {
		query := dsn.Query()
		query.Set("x-migrations-table", table)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String()
}

func Runner(config *config.Config, action MigrateAction) error {
	step, ok := migrateSteps[action]
	if !ok {
		return fmt.Errorf("unknown migration action %q", action)
	}

	mig, err := migrate.New(migrationsSource, databaseURL(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err = step(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, MigrateUp)
}
