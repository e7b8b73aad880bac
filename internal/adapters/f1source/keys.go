package f1source

import (
	"fmt"
	"strings"
)

// Cache keys are stable per request so repeated runs resolve to the same
// entries. The synthetic session generator writes the same keys to seed a
// cache for offline runs.

// SessionKey is the cache key for a session document.
func SessionKey(year int, grandPrix, sessionType string) string {
	return fmt.Sprintf("session_%d_%s_%s", year, slug(grandPrix), slug(sessionType))
}

// PositionKey is the cache key for a driver's positional series.
func PositionKey(sessionID, driverID string) string {
	return fmt.Sprintf("pos_%s_%s", slug(sessionID), slug(driverID))
}

// CarKey is the cache key for a driver's auxiliary series.
func CarKey(sessionID, driverID string) string {
	return fmt.Sprintf("car_%s_%s", slug(sessionID), slug(driverID))
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
