package helper

import (
	"slotwise/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Username = "slot"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "slotwise"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	assert.Equal(t,
		"postgres://slot:p%40ss%2Fword@db:5432/dev_slotwise?sslmode=disable&x-migrations-table=schema_migrations",
		databaseURL(cfg),
	)
}

func TestRunner_UnknownAction(t *testing.T) {
	err := Runner(&config.Config{}, "sideways")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration action "sideways"`)
}
