package engine

import (
	"time"

	"lifequest/internal/storage"
)

const dayLayout = "2006-01-02"

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func addDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// DayKey is the calendar-day key stored in Habit.CompletedDates.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// parseDay accepts a YYYY-MM-DD key or a legacy RFC 3339 timestamp and
// returns local midnight of that day.
func parseDay(s string, loc *time.Location) (time.Time, bool) {
	if d, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return startOfDay(ts, loc), true
	}
	return time.Time{}, false
}

func completedOn(h storage.Habit, day time.Time, loc *time.Location) bool {
	for _, s := range h.CompletedDates {
		if d, ok := parseDay(s, loc); ok && d.Equal(day) {
			return true
		}
	}
	return false
}

// lastCompletionDay returns the latest completed day of h.
func lastCompletionDay(h storage.Habit, loc *time.Location) (time.Time, bool) {
	var last time.Time
	found := false
	for _, s := range h.CompletedDates {
		d, ok := parseDay(s, loc)
		if !ok {
			continue
		}
		if !found || d.After(last) {
			last = d
			found = true
		}
	}
	return last, found
}

type streakStep int

const (
	streakBroken streakStep = iota
	streakSamePeriod
	streakNextPeriod
)

// stepFrom classifies a previous completion day relative to today for the
// habit's frequency.
func stepFrom(freq Frequency, prev, today time.Time) streakStep {
	if !prev.Before(today) {
		return streakSamePeriod
	}
	switch freq {
	case FrequencyWeekdays:
		if !prev.Before(previousWeekday(today)) {
			return streakNextPeriod
		}
	case FrequencyWeekly:
		py, pw := prev.ISOWeek()
		ty, tw := today.ISOWeek()
		if py == ty && pw == tw {
			return streakSamePeriod
		}
		ly, lw := addDays(today, -7).ISOWeek()
		if py == ly && pw == lw {
			return streakNextPeriod
		}
	case FrequencyMonthly:
		if prev.Year() == today.Year() && prev.Month() == today.Month() {
			return streakSamePeriod
		}
		lastMonth := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, today.Location())
		if prev.Year() == lastMonth.Year() && prev.Month() == lastMonth.Month() {
			return streakNextPeriod
		}
	default:
		if prev.Equal(addDays(today, -1)) {
			return streakNextPeriod
		}
	}
	return streakBroken
}

func previousWeekday(day time.Time) time.Time {
	d := addDays(day, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = addDays(d, -1)
	}
	return d
}

// nextStreak returns the habit streak after completing it today.
func nextStreak(h storage.Habit, today time.Time, loc *time.Location) int {
	prev, ok := lastCompletionDay(h, loc)
	if !ok {
		return 1
	}
	switch stepFrom(parseStoredFrequency(h.Frequency), prev, today) {
	case streakSamePeriod:
		if h.Streak < 1 {
			return 1
		}
		return h.Streak
	case streakNextPeriod:
		return h.Streak + 1
	default:
		return 1
	}
}

// streakAlive reports whether h can still extend its streak today.
func streakAlive(h storage.Habit, today time.Time, loc *time.Location) bool {
	prev, ok := lastCompletionDay(h, loc)
	if !ok {
		return false
	}
	return stepFrom(parseStoredFrequency(h.Frequency), prev, today) != streakBroken
}
