package logger

import (
	"io"
	"os"
	"slotwise/config"
	"slotwise/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a console logger at trace level until the configuration
// is loaded and SetLogLevel runs.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

// New returns a logger writing to w: JSON tagged with the app name in
// production, the console format elsewhere.
func New(w io.Writer, config *config.Config) zerolog.Logger {
	if config.Server.Env != constant.ServerEnvProduction {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(w).With().Timestamp().Str("service", config.App.Name).Logger()
}

// ErrorWithStack logs err with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Send()
}

// SetLogLevel applies Server.LogLevel, falling back to info when it is unset or
// unknown. In production it also switches the global logger to JSON.
func SetLogLevel(config *config.Config) {
	if config.Server.Env == constant.ServerEnvProduction {
		log.Logger = New(os.Stdout, config)
	}

	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("requested", config.Server.LogLevel).Stringer("level", defaultLevel).Msg("Unknown log level, using default")

		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
}
