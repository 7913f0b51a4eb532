// Package streak derives activity streaks and daily history from timestamps.
// All bucketing is by UTC calendar date.
package streak

import (
	"sort"
	"time"
)

type Result struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Compute walks the distinct activity dates in order. A run breaks whenever a date is
// not exactly one day after the previous one. Current is the last run's length when it
// ends today or yesterday, else 0.
func Compute(activity []time.Time, now time.Time) Result {
	if len(activity) == 0 {
		return Result{}
	}
	seen := make(map[time.Time]struct{}, len(activity))
	days := make([]time.Time, 0, len(activity))
	for _, t := range activity {
		if t.IsZero() {
			continue
		}
		d := Day(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return Result{}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := Day(now)
	last := days[len(days)-1]
	current := 0
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = run
	}
	return Result{Current: current, Longest: longest}
}

// DailyEntry is one contribution to a day's history.
type DailyEntry struct {
	At              time.Time
	XP              int
	CompletedLesson string
}

type DailyPoint struct {
	Date             time.Time `json:"date"`
	XPGained         int       `json:"xp_gained"`
	LessonsCompleted int       `json:"lessons_completed"`
}

// DailySeries returns days points ending today, oldest first, zero-filled. Lessons are
// counted once per day by identifier; empty identifiers are ignored.
func DailySeries(days int, now time.Time, entries []DailyEntry) []DailyPoint {
	if days <= 0 {
		return []DailyPoint{}
	}
	today := Day(now)
	start := today.AddDate(0, 0, -(days - 1))

	out := make([]DailyPoint, days)
	index := make(map[time.Time]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		out[i] = DailyPoint{Date: d}
		index[d] = i
	}

	lessons := make(map[time.Time]map[string]struct{})
	for _, e := range entries {
		d := Day(e.At)
		i, ok := index[d]
		if !ok {
			continue
		}
		out[i].XPGained += e.XP
		if e.CompletedLesson == "" {
			continue
		}
		set := lessons[d]
		if set == nil {
			set = make(map[string]struct{})
			lessons[d] = set
		}
		if _, dup := set[e.CompletedLesson]; !dup {
			set[e.CompletedLesson] = struct{}{}
			out[i].LessonsCompleted++
		}
	}
	return out
}
