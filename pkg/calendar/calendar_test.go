package calendar

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSameDayIgnoresTime(t *testing.T) {
	a := time.Date(2024, 3, 4, 0, 1, 0, 0, time.UTC)
	b := time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatalf("expected %v and %v to be the same day", a, b)
	}
	if SameDay(a, b.AddDate(0, 0, 1)) {
		t.Fatalf("expected different days")
	}
}

func TestDateInRangeInclusive(t *testing.T) {
	start := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		d    time.Time
		want bool
	}{
		{"before", day(2024, 3, 3), false},
		{"first day early morning", time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC), true},
		{"middle", day(2024, 3, 5), true},
		{"last day late evening", time.Date(2024, 3, 6, 23, 0, 0, 0, time.UTC), true},
		{"after", day(2024, 3, 7), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateInRange(tc.d, start, end); got != tc.want {
				t.Fatalf("DateInRange(%v) = %v, want %v", tc.d, got, tc.want)
			}
		})
	}
}

func TestWeekOfStartsMonday(t *testing.T) {
	// воскресенье 10 марта 2024
	days := WeekOf(time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if !days[0].Equal(day(2024, 3, 4)) {
		t.Fatalf("expected week to start on 2024-03-04, got %v", days[0])
	}
	if days[0].Weekday() != time.Monday || days[6].Weekday() != time.Sunday {
		t.Fatalf("unexpected weekdays %v..%v", days[0].Weekday(), days[6].Weekday())
	}
}

func TestMonthGrid(t *testing.T) {
	// 1 сентября 2024 - воскресенье
	grid := MonthGrid(day(2024, 9, 15))
	if len(grid) != MonthGridDays {
		t.Fatalf("expected %d days, got %d", MonthGridDays, len(grid))
	}
	if !grid[0].Equal(day(2024, 8, 26)) {
		t.Fatalf("expected grid to start on 2024-08-26, got %v", grid[0])
	}
	if !grid[41].Equal(day(2024, 10, 6)) {
		t.Fatalf("expected grid to end on 2024-10-06, got %v", grid[41])
	}
}

func TestMonthGridFirstIsMonday(t *testing.T) {
	// 1 января 2024 - понедельник
	grid := MonthGrid(day(2024, 1, 20))
	if !grid[0].Equal(day(2024, 1, 1)) {
		t.Fatalf("expected grid to start on the 1st, got %v", grid[0])
	}
}

func TestWeekdayIndex(t *testing.T) {
	if got := WeekdayIndex(day(2024, 3, 4)); got != 0 {
		t.Fatalf("monday index = %d", got)
	}
	if got := WeekdayIndex(day(2024, 3, 10)); got != 6 {
		t.Fatalf("sunday index = %d", got)
	}
}

func TestDays(t *testing.T) {
	days := Days(day(2024, 2, 28), day(2024, 3, 1))
	if len(days) != 3 {
		t.Fatalf("expected 3 days across leap day, got %d", len(days))
	}
	if Days(day(2024, 3, 2), day(2024, 3, 1)) != nil {
		t.Fatalf("expected nil for reversed range")
	}
}

func TestOverlapsIsStrict(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC) }

	if Overlaps(at(10, 0), at(12, 0), at(12, 0), at(14, 0)) {
		t.Fatalf("touching intervals must not overlap")
	}
	if !Overlaps(at(11, 59), at(12, 1), at(12, 0), at(14, 0)) {
		t.Fatalf("expected overlap")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Minutes() != 570 || tod.String() != "09:30" {
		t.Fatalf("unexpected value %+v", tod)
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Fatalf("expected error for invalid hour")
	}
	got := tod.On(time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC))
	if !got.Equal(time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("On returned %v", got)
	}
}
