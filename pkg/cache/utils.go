package cache

import (
	"strings"
)

// Key joins parts into a colon separated cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
