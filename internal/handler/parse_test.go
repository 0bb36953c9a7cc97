package handler

import (
	"testing"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/pkg/calendar"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"25.12.2026", time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC), true},
		{"25-12-2026", time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC), true},
		{"01.05", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"31.02.2026", time.Time{}, false},
		{"tomorrow", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseDate(tc.in, now)
			if tc.ok != (err == nil) {
				t.Fatalf("parseDate(%q) error = %v", tc.in, err)
			}
			if tc.ok && !got.Equal(tc.want) {
				t.Fatalf("parseDate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	from, to, err := parseTimeRange("22:00-06:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != (calendar.TimeOfDay{Hour: 22}) || to != (calendar.TimeOfDay{Hour: 6, Minute: 30}) {
		t.Fatalf("unexpected range %v-%v", from, to)
	}

	for _, bad := range []string{"09:00", "9-17", "09:00-25:00"} {
		if _, _, err := parseTimeRange(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	cases := []struct {
		in   string
		want engine.WeekdayMask
	}{
		{"будни", engine.WeekdayMask{true, true, true, true, true}},
		{"пн,ср,пт", engine.WeekdayMask{0: true, 2: true, 4: true}},
		{"1-3,7", engine.WeekdayMask{0: true, 1: true, 2: true, 6: true}},
		{"Sat, sun", engine.WeekdayMask{5: true, 6: true}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseWeekdays(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("parseWeekdays(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	for _, bad := range []string{"", "8", "5-2", "xx"} {
		if _, err := parseWeekdays(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseWeeks(t *testing.T) {
	if w, err := parseWeeks(""); err != nil || w != defaultReportWeeks {
		t.Fatalf("expected default weeks, got %d, %v", w, err)
	}
	if w, err := parseWeeks(" 2 "); err != nil || w != 2 {
		t.Fatalf("expected 2 weeks, got %d, %v", w, err)
	}
	if _, err := parseWeeks("0"); err == nil {
		t.Fatalf("expected error for zero weeks")
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"loc=Главный зал", "", "ОТДЕЛ = Кухня"}, optionLocation, optionDepartment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts[optionLocation] != "Главный зал" || opts[optionDepartment] != "Кухня" {
		t.Fatalf("unexpected options %v", opts)
	}

	bad := [][]string{
		{"role=Кассир"},
		{"color=red"},
		{"loc"},
		{"dept="},
	}
	for _, segments := range bad {
		if _, err := parseOptions(segments, optionLocation, optionDepartment); err == nil {
			t.Fatalf("expected error for %v", segments)
		}
	}
}

func TestSplitReportArgs(t *testing.T) {
	cases := []struct {
		in       string
		weeks    string
		segments int
	}{
		{"", "", 0},
		{"4", "4", 0},
		{"4; role=Кассир; dept=Кухня", "4", 2},
		{"role=Кассир", "", 1},
	}
	for _, tc := range cases {
		weeks, segments := splitReportArgs(tc.in)
		if weeks != tc.weeks || len(segments) != tc.segments {
			t.Fatalf("splitReportArgs(%q) = %q, %v", tc.in, weeks, segments)
		}
	}
}
