package store

import (
	"strings"
	"time"
)

// Recognized calendar granularities, most specific first.
var timeFormats = []string{
	"2006-01-02-15:04",
	"2006-01-02-15",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseTimeRange turns a calendar expression into a closed [start, end]
// interval. A single expression spans the whole unit it names ("2024-02" is
// the entire month); "a,b" spans from the start of a's unit through the end
// of b's unit.
func ParseTimeRange(expr string) (time.Time, time.Time, error) {
	parts := strings.Split(expr, ",")
	switch len(parts) {
	case 1:
		return parseCalendarUnit(strings.TrimSpace(parts[0]))
	case 2:
		start, _, err := parseCalendarUnit(strings.TrimSpace(parts[0]))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		_, end, err := parseCalendarUnit(strings.TrimSpace(parts[1]))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, MalformedTimeRangeError{Input: expr}
	}
}

// parseCalendarUnit matches the expression against the known granularities
// and expands it to the unit's first and last second. Month and year ends
// use calendar arithmetic so December rolls into January and February keeps
// its real length.
func parseCalendarUnit(expr string) (time.Time, time.Time, error) {
	for _, layout := range timeFormats {
		start, err := time.Parse(layout, expr)
		if err != nil {
			continue
		}

		var end time.Time
		switch layout {
		case "2006-01-02-15:04":
			end = start.Add(time.Minute - time.Second)
		case "2006-01-02-15":
			end = start.Add(time.Hour - time.Second)
		case "2006-01-02":
			end = start.AddDate(0, 0, 1).Add(-time.Second)
		case "2006-01":
			end = start.AddDate(0, 1, 0).Add(-time.Second)
		case "2006":
			end = start.AddDate(1, 0, 0).Add(-time.Second)
		}
		return start, end, nil
	}
	return time.Time{}, time.Time{}, MalformedTimeRangeError{Input: expr}
}
