package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		SeedFile string `envconfig:"SEED_FILE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			InMemory      bool `envconfig:"IN_MEMORY"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		Auth struct {
			Enable bool `envconfig:"ENABLE"`
		} `envconfig:"AUTH"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Booking struct {
		TxTimeoutSeconds   int  `envconfig:"TX_TIMEOUT_SECONDS"   default:"10"`
		ChangeCutoffHours  int  `envconfig:"CHANGE_CUTOFF_HOURS"  default:"24"`
		AllowFallbackStaff bool `envconfig:"ALLOW_FALLBACK_STAFF" default:"false"`
		MaxSlots           int  `envconfig:"MAX_SLOTS"            default:"10"`
		MaxAlternates      int  `envconfig:"MAX_ALTERNATES"       default:"5"`
		DefaultDurationMin int  `envconfig:"DEFAULT_DURATION_MIN" default:"60"`
	} `envconfig:"BOOKING"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret    string `envconfig:"ACCESS_SECRET"`
		AccessExpireMin int    `envconfig:"ACCESS_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Driver   string `envconfig:"DRIVER" default:"postgres"`
		Postgres struct {
			MaxRetry               int          `envconfig:"MAX_RETRY"                 default:"3"`
			RetryWaitTime          int          `envconfig:"RETRY_WAIT_TIME"           default:"2"`
			MaxOpenConns           int          `envconfig:"MAX_OPEN_CONNS"            default:"10"`
			MaxIdleConns           int          `envconfig:"MAX_IDLE_CONNS"            default:"10"`
			ConnMaxLifetimeSeconds int          `envconfig:"CONN_MAX_LIFETIME_SECONDS" default:"300"`
			MigrationTable         string       `envconfig:"MIGRATION_TABLE"`
			AutoMigrate            bool         `envconfig:"AUTO_MIGRATE"`
			Prefix                 string       `envconfig:"PREFIX"`
			Read                   PostgresNode `envconfig:"READ"`
			Write                  PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		Topic   string   `envconfig:"TOPIC" default:"booking-events"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			Enable          bool   `envconfig:"ENABLE"`
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			ArchivePrefix   string `envconfig:"ARCHIVE_PREFIX" default:"booking-events"`
		} `envconfig:"S3"`
	}
}

// PostgresNode is one endpoint of the read/write database pair.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// URL is the DSN of the node. prefix is prepended to the database name and the
// credentials are escaped.
func (n PostgresNode) URL(prefix string) *url.URL {
	query := url.Values{}
	query.Set("sslmode", n.SSLMode)

	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.Username, n.Password),
		Host:     net.JoinHostPort(n.Host, n.Port),
		Path:     "/" + prefix + n.Name,
		RawQuery: query.Encode(),
	}
}

// TxTimeout is the deadline applied to every booking transaction.
func (c *Config) TxTimeout() time.Duration {
	if c.Booking.TxTimeoutSeconds <= 0 {
		return 10 * time.Second
	}

	return time.Duration(c.Booking.TxTimeoutSeconds) * time.Second
}

// ChangeCutoff is the minimum lead time for reschedules and cancellations.
func (c *Config) ChangeCutoff() time.Duration {
	if c.Booking.ChangeCutoffHours <= 0 {
		return 24 * time.Hour
	}

	return time.Duration(c.Booking.ChangeCutoffHours) * time.Hour
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

// Init loads .env when present and then processes the environment. It runs once
// per process.
func Init() error {
	var err error

	once.Do(func() {
		if loadErr := godotenv.Load(".env"); loadErr != nil {
			log.Debug().Err(loadErr).Msg("No .env file loaded, using the process environment")
		}

		if err = envconfig.Process("", &conf); err != nil {
			err = fmt.Errorf("processing environment: %w", err)

			return
		}

		initialized = true

		log.Info().Str("env", conf.Server.Env).Str("driver", conf.DB.Driver).Msg("Service configuration initialized")
	})

	return err
}

// Get returns the process configuration, initializing it on first use. A
// malformed environment is fatal.
func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	return &conf
}
