package timezone

import (
	"slotwise/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
	appOnce     sync.Once
)

// GetLocation returns the application location from APP_TIMEZONE. It is the
// fallback for tenants without a timezone and defaults to UTC.
func GetLocation() *time.Location {
	appOnce.Do(func() {
		appLocation = resolveAppLocation(config.Get().App.Timezone)
	})

	return appLocation
}

func resolveAppLocation(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use IANA names like 'America/New_York'")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// Format formats t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(GetLocation()).Format(layout)
}
