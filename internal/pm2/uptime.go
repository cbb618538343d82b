package pm2

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatUptime renders the time elapsed since startMS (epoch milliseconds)
// as "1d 2h 3m 4s". Zero, missing, and future start times render as
// Unavailable rather than a negative duration.
func FormatUptime(startMS int64, now time.Time) string {
	if startMS <= 0 {
		return Unavailable
	}
	elapsedMS := now.UnixMilli() - startMS
	if elapsedMS < 0 {
		return Unavailable
	}

	secs := elapsedMS / 1000
	days := secs / 86400
	secs -= days * 86400
	hours := secs / 3600
	secs -= hours * 3600
	mins := secs / 60
	secs -= mins * 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs)
}

// ParseUptime converts FormatUptime output back into total seconds, for
// sorting. Units may be omitted ("5h 2s" parses). Unavailable and anything
// else unparseable returns false.
func ParseUptime(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == Unavailable {
		return 0, false
	}

	var total int64
	for _, tok := range strings.Fields(s) {
		if len(tok) < 2 {
			return 0, false
		}
		n, err := strconv.ParseInt(tok[:len(tok)-1], 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		switch tok[len(tok)-1] {
		case 'd':
			total += n * 86400
		case 'h':
			total += n * 3600
		case 'm':
			total += n * 60
		case 's':
			total += n
		default:
			return 0, false
		}
	}
	return total, true
}
