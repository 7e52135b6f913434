package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	MaxOffsetMinutes   = 24 * 60
	DefaultHistoryDays = 60
	MaxHistoryDays     = 365

	DayLayout = "2006-01-02"
)

// ParseOffsetMinutes turns the offsetMinutes query value into minutes east of
// UTC. Fractions are truncated toward zero, the result is clamped to
// [-1440, 1440] and anything non-numeric yields 0.
func ParseOffsetMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// clamp before converting so huge values cannot overflow int
	f = math.Max(math.Min(math.Trunc(f), MaxOffsetMinutes), -MaxOffsetMinutes)
	return int(f)
}

func ClampOffsetMinutes(n int) int {
	if n > MaxOffsetMinutes {
		return MaxOffsetMinutes
	}
	if n < -MaxOffsetMinutes {
		return -MaxOffsetMinutes
	}
	return n
}

// ParseHistoryDays reads the days query value like a leading-integer parse:
// "12.5" and "10abc" give 12 and 10, input without leading digits means the
// default. The result is kept within [0, 365].
func ParseHistoryDays(raw string) int {
	raw = strings.TrimSpace(raw)
	neg := false
	if raw != "" && (raw[0] == '-' || raw[0] == '+') {
		neg = raw[0] == '-'
		raw = raw[1:]
	}

	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return DefaultHistoryDays
	}
	if neg {
		return 0
	}

	n, err := strconv.Atoi(raw[:end])
	if err != nil || n > MaxHistoryDays {
		// only overflow fails here
		return MaxHistoryDays
	}
	return n
}

// LocalDay returns the calendar date of t shifted by offsetMinutes, as
// midnight UTC of that date.
func LocalDay(t time.Time, offsetMinutes int) time.Time {
	shifted := t.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
}

func LocalDayString(t time.Time, offsetMinutes int) string {
	return LocalDay(t, offsetMinutes).Format(DayLayout)
}

// LocalDayBounds returns the UTC instants [from, to) that fall on the same
// local day as t.
func LocalDayBounds(t time.Time, offsetMinutes int) (from, to time.Time) {
	offset := time.Duration(offsetMinutes) * time.Minute
	from = LocalDay(t, offsetMinutes).Add(-offset)
	return from, from.AddDate(0, 0, 1)
}

// HistoryCutoff is UTC midnight of now's UTC date minus days.
func HistoryCutoff(now time.Time, days int) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}
