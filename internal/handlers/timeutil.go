package handlers

import "time"

// All display formatting uses the machine's local zone; the kiosk and
// the mats are in the same building.

// Date-only friendly string, e.g. "Mon, 02 Jan 2006"
func fmtDate(d time.Time) string {
	return d.Local().Format("Mon, 02 Jan 2006")
}

// ISO date string, e.g. "2006-01-02"
func fmtISODate(d time.Time) string {
	return d.Local().Format("2006-01-02")
}

// Kiosk clock string, e.g. "1/2/2006 3:04 PM"
func fmtClock(d time.Time) string {
	return d.Local().Format("1/2/2006 3:04 PM")
}

func parseDate(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return def
	}
	return t
}

// parseDateTime accepts the datetime-local input format with or
// without seconds, falling back to a bare date.
func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
