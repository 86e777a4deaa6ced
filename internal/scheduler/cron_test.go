package scheduler

import (
	"testing"
	"time"
)

func at(minute, hour, day int, month time.Month, year int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestParseCronMatches(t *testing.T) {
	// 2026-08-30 is a Sunday.
	sunday := at(30, 14, 30, time.August, 2026)

	tests := []struct {
		expr  string
		when  time.Time
		match bool
	}{
		{"* * * * *", sunday, true},
		{"30 14 * * *", sunday, true},
		{"31 14 * * *", sunday, false},
		{"*/15 * * * *", at(45, 3, 1, time.January, 2026), true},
		{"*/15 * * * *", at(44, 3, 1, time.January, 2026), false},
		{"0 0-6 * * *", at(0, 4, 1, time.January, 2026), true},
		{"0 0-6 * * *", at(0, 7, 1, time.January, 2026), false},
		{"0 0-23/6 * * *", at(0, 12, 1, time.January, 2026), true},
		{"0 0-23/6 * * *", at(0, 13, 1, time.January, 2026), false},
		{"0 3,9,21 * * *", at(0, 9, 1, time.January, 2026), true},
		{"0 3,9,21 * * *", at(0, 10, 1, time.January, 2026), false},
		{"* * * * 0", sunday, true},
		{"* * * * 1", sunday, false},
		{"* * 30 8 *", sunday, true},
		{"* * 29 8 *", sunday, false},
	}
	for _, tt := range tests {
		cron, err := ParseCron(tt.expr)
		if err != nil {
			t.Fatalf("ParseCron(%q): %v", tt.expr, err)
		}
		if got := cron.Matches(tt.when); got != tt.match {
			t.Errorf("%q.Matches(%s) = %v, want %v", tt.expr, tt.when, got, tt.match)
		}
	}
}

func TestParseCronRejectsBadInput(t *testing.T) {
	exprs := []string{
		"",
		"* * * *",
		"* * * * * *",
		"60 * * * *",
		"* 24 * * *",
		"* * 0 * *",
		"* * * 13 *",
		"* * * * 7",
		"x * * * *",
		"*/0 * * * *",
		"10-5 * * * *",
		"1-2-3 * * * *",
	}
	for _, expr := range exprs {
		if _, err := ParseCron(expr); err == nil {
			t.Errorf("ParseCron(%q) accepted invalid expression", expr)
		}
	}
}
