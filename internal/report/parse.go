package report

import (
	"strconv"
	"strings"
	"time"
)

// clockLayout matches what drivers write on the paper log: "7:45 AM".
const clockLayout = "3:04 PM"

// fallbackHour is the stand-in clock reading used when a time field cannot
// be read. 08:00 on the shift's own day keeps duration subtraction
// well-defined without inventing an overnight span.
const fallbackHour = 8

// parseMiles reads a free-text odometer field. The second return is false
// when the text is not a number; callers classify that as a parse error and
// carry on with zero.
func parseMiles(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseClock reads a 12-hour clock field and pins it to the given calendar
// day. On failure it returns the fallback timestamp and false.
func parseClock(raw string, day time.Time) (time.Time, bool) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return fallbackTime(day), false
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), true
}

func fallbackTime(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), fallbackHour, 0, 0, 0, day.Location())
}

// parseFuel reads a fuel field. Unreadable fuel is simply zero; shifts with
// missing fields are flagged before fuel is ever read.
func parseFuel(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// expandMiles rebuilds a truncated odometer reading. Drivers log only the
// trailing digits that changed since the shift's reference reading, so a
// short field borrows its leading digits from the reference string:
// ref "1234" + field "56" -> "1256". A field at least as long as the
// reference is returned unchanged.
func expandMiles(ref, field string) string {
	ref = strings.TrimSpace(ref)
	field = strings.TrimSpace(field)
	if len(field) >= len(ref) {
		return field
	}
	return ref[:len(ref)-len(field)] + field
}
