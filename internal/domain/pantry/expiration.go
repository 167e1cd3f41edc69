package pantry

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for expiration dates
const DateLayout = "2006-01-02"

// ParseDate parses an expiration date, reporting false when absent or malformed
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysUntil returns the number of whole calendar days from today until
// the expiration date. Negative values mean the date has passed.
func DaysUntil(expiration string, today time.Time) (int, bool) {
	exp, ok := ParseDate(expiration)
	if !ok {
		return 0, false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(exp.Sub(start).Hours() / 24), true
}

// Expiration score bands
const (
	ScoreExpired   = 50.0
	ScoreToday     = -100.0
	ScoreThreeDays = -50.0
	ScoreWeek      = -20.0
	ScoreLater     = -5.0
)

// ExpirationScore maps an expiration date to a cost adjustment. Using
// products that expire soon is rewarded, spoiled stock is penalized, and
// an absent or unreadable date is neutral.
func ExpirationScore(expiration string, today time.Time) float64 {
	days, ok := DaysUntil(expiration, today)
	if !ok {
		return 0
	}

	switch {
	case days < 0:
		return ScoreExpired
	case days == 0:
		return ScoreToday
	case days <= 3:
		return ScoreThreeDays
	case days <= 7:
		return ScoreWeek
	default:
		return ScoreLater
	}
}

// Status is the freshness label shown next to a product
type Status string

const (
	StatusNone         Status = "none"
	StatusExpired      Status = "expired"
	StatusExpiresToday Status = "expires_today"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpiringWeek Status = "expiring_week"
	StatusFresh        Status = "fresh"
)

// ExpirationStatus classifies an expiration date relative to today
func ExpirationStatus(expiration string, today time.Time) Status {
	days, ok := DaysUntil(expiration, today)
	if !ok {
		return StatusNone
	}

	switch {
	case days < 0:
		return StatusExpired
	case days == 0:
		return StatusExpiresToday
	case days <= 2:
		return StatusExpiringSoon
	case days <= 7:
		return StatusExpiringWeek
	default:
		return StatusFresh
	}
}
