package streak

import (
	"testing"
	"time"
)

var now = time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil, now); got != (Result{}) {
		t.Fatalf("expected zero result, got %+v", got)
	}
}

func TestComputeCurrentRunEndingToday(t *testing.T) {
	got := Compute([]time.Time{daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(5)}, now)
	if got.Current != 3 || got.Longest != 3 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestComputeRunEndingYesterdayStillCounts(t *testing.T) {
	got := Compute([]time.Time{daysAgo(1), daysAgo(2)}, now)
	if got.Current != 2 {
		t.Fatalf("expected current 2, got %+v", got)
	}
}

func TestComputeStaleRun(t *testing.T) {
	got := Compute([]time.Time{daysAgo(10), daysAgo(11), daysAgo(12), daysAgo(13), daysAgo(3)}, now)
	if got.Current != 0 || got.Longest != 4 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestComputeDeduplicatesSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	got := Compute([]time.Time{morning, now, now.Add(-time.Minute)}, now)
	if got.Current != 1 || got.Longest != 1 {
		t.Fatalf("same-day activity must count once, got %+v", got)
	}
}

func TestComputeBucketsByUTCDate(t *testing.T) {
	// 23:30 at UTC-5 on the 14th is already the 15th in UTC.
	loc := time.FixedZone("EST", -5*3600)
	late := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)
	got := Compute([]time.Time{late, daysAgo(1)}, now)
	if got.Current != 2 {
		t.Fatalf("expected UTC bucketing to join the run, got %+v", got)
	}
}

func TestDailySeries(t *testing.T) {
	entries := []DailyEntry{
		{At: daysAgo(0), XP: 10, CompletedLesson: "a"},
		{At: daysAgo(0), XP: 5, CompletedLesson: "a"},
		{At: daysAgo(0), XP: 0, CompletedLesson: "b"},
		{At: daysAgo(2), XP: 20},
		{At: daysAgo(40), XP: 100, CompletedLesson: "old"},
	}
	series := DailySeries(30, now, entries)
	if len(series) != 30 {
		t.Fatalf("expected 30 points, got %d", len(series))
	}
	if !series[0].Date.Equal(Day(daysAgo(29))) || !series[29].Date.Equal(Day(now)) {
		t.Fatalf("unexpected window %v .. %v", series[0].Date, series[29].Date)
	}
	last := series[29]
	if last.XPGained != 15 || last.LessonsCompleted != 2 {
		t.Fatalf("unexpected today point %+v", last)
	}
	if series[27].XPGained != 20 || series[27].LessonsCompleted != 0 {
		t.Fatalf("unexpected point two days ago %+v", series[27])
	}
	total := 0
	for _, p := range series {
		total += p.XPGained
	}
	if total != 35 {
		t.Fatalf("entries outside the window must be dropped, total=%d", total)
	}
}

func TestDailySeriesNonPositiveDays(t *testing.T) {
	if got := DailySeries(0, now, nil); len(got) != 0 {
		t.Fatalf("expected empty series")
	}
}
