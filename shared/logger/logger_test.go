package logger_test

import (
	"bytes"
	"errors"
	"slotwise/config"
	"slotwise/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func preserveGlobals(t *testing.T) {
	t.Helper()

	saved := log.Logger
	level := zerolog.GlobalLevel()
	timeFormat := zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = timeFormat
	})
}

func TestInitLogger(t *testing.T) {
	preserveGlobals(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	preserveGlobals(t)
	logger.InitLogger()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("slot store unavailable"))

	assert.Contains(t, buf.String(), `"error":"slot store unavailable"`)
	assert.Contains(t, buf.String(), `"stack":[`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "trace", expected: zerolog.TraceLevel},
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "error", expected: zerolog.ErrorLevel},
		{level: "disabled", expected: zerolog.Disabled},
		{level: "verbose", expected: zerolog.InfoLevel},
		{level: "", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			preserveGlobals(t)
			log.Logger = zerolog.New(&bytes.Buffer{})

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestNew(t *testing.T) {
	preserveGlobals(t)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := &config.Config{}
	cfg.App.Name = "slotwise"
	cfg.Server.Env = "production"

	var buf bytes.Buffer

	l := logger.New(&buf, cfg)
	l.Info().Str("tenant", "T1").Msg("booking created")

	assert.Contains(t, buf.String(), `"service":"slotwise"`)
	assert.Contains(t, buf.String(), `"tenant":"T1"`)

	buf.Reset()
	cfg.Server.Env = "development"

	l = logger.New(&buf, cfg)
	l.Info().Msg("booking created")

	assert.NotContains(t, buf.String(), `"service"`)
	assert.Contains(t, buf.String(), "booking created")
}
