package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a positive duration string, returning def when it is
// empty, malformed or not positive.
func ParseDuration(durationStr string, def time.Duration) time.Duration {
	if durationStr == "" {
		return def
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		// Global logger; this can run before the logger is configured
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return duration
}
