package grantsvc

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Ashish23jun/One-Call/internal/apperr"
)

// ttlPattern is the grammar spec §4.B names: a small positive integer
// followed by one of s|m|h|d.
var ttlPattern = regexp.MustCompile(`^([1-9][0-9]*)([smhd])$`)

// ParseTTL validates and converts a grant TTL string into a duration.
// time.ParseDuration already understands s/m/h; it has no notion of
// "d", so the day suffix is expanded by hand rather than reaching for
// a calendar/duration library for one unit.
func ParseTTL(ttl string) (time.Duration, error) {
	m := ttlPattern.FindStringSubmatch(ttl)
	if m == nil {
		return 0, apperr.New(apperr.Validation, apperr.CodeInvalidMessage,
			fmt.Sprintf("invalid ttl %q: expected integer followed by s|m|h|d", ttl))
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "invalid ttl integer")
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "invalid ttl unit")
	}
}
