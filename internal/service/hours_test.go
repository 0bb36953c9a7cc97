package service

import (
	"errors"
	"strings"
	"testing"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/weekends"
)

func TestHoursReportGatedByPlan(t *testing.T) {
	f := newFixture(t, models.PlanFree)
	if _, err := f.hours.Report(engine.HoursFilter{Weeks: 1}); !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
	if _, err := f.hours.Export(engine.HoursFilter{Weeks: 1}); !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
	if _, err := f.hours.Summary(); !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
}

func TestHoursReportScheduledOnPro(t *testing.T) {
	f := newFixture(t, models.PlanPro)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")
	bob := f.addEmployee(t, "Bob", "bob@example.com", "Manager")

	f.placeShift(t, alice.ID, at(monday, 9, 0), at(monday, 13, 0))
	f.placeShift(t, bob.ID, at(monday, 9, 0), at(monday, 17, 30))
	f.placeShift(t, "", at(monday, 18, 0), at(monday, 22, 0))

	f.now = at(monday, 23, 0)
	report, err := f.hours.Report(engine.HoursFilter{Weeks: 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalHours != 12.5 {
		t.Fatalf("expected 12.5 hours, got %v", report.TotalHours)
	}
	if len(report.PerEmployee) != 2 || report.PerEmployee[0].Name != "Bob" {
		t.Fatalf("expected bob first, got %+v", report.PerEmployee)
	}

	text := FormatReport(report)
	if !strings.Contains(text, "8ч 30м") || !strings.Contains(text, "12ч 30м") {
		t.Fatalf("unexpected report text:\n%s", text)
	}

	data, err := f.hours.Export(engine.HoursFilter{Weeks: 1})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected workbook bytes")
	}
}

func TestHoursReportUsesActualTimesWithClocking(t *testing.T) {
	f := newFixture(t, models.PlanProPlus)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")
	bob := f.addEmployee(t, "Bob", "bob@example.com", "Manager")
	worked := f.placeShift(t, alice.ID, at(monday, 9, 0), at(monday, 17, 0))
	f.placeShift(t, bob.ID, at(monday, 9, 0), at(monday, 17, 0))

	f.now = at(monday, 9, 0)
	if _, err := f.clocking.ClockIn(worked.ID); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	f.now = at(monday, 15, 0)
	if _, err := f.clocking.ClockOut(worked.ID); err != nil {
		t.Fatalf("clock out: %v", err)
	}

	f.now = at(monday, 20, 0)
	report, err := f.hours.Report(engine.HoursFilter{Weeks: 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalHours != 6 || len(report.PerEmployee) != 1 {
		t.Fatalf("expected only alice's 6 clocked hours, got %+v", report)
	}
}

func TestWeeklySummary(t *testing.T) {
	f := newFixture(t, models.PlanPro)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")
	f.placeShift(t, alice.ID, at(monday, 9, 0), at(monday, 17, 0))
	f.placeShift(t, "", at(monday.AddDate(0, 0, 1), 9, 0), at(monday.AddDate(0, 0, 1), 13, 0))

	summary, err := f.hours.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalShifts != 2 || summary.OpenShifts != 1 || summary.FulfilmentRate != 50 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.HoursByRole["Cashier"] != 8 {
		t.Fatalf("expected 8 cashier hours, got %v", summary.HoursByRole)
	}
	if !strings.Contains(FormatSummary(summary), "Cashier: 8ч") {
		t.Fatalf("unexpected summary text")
	}
}

func TestLoadHolidays(t *testing.T) {
	f := newFixture(t, models.PlanPro)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")

	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)
	days := []weekends.Day{
		{Date: tuesday},
		{Date: wednesday, Shortened: true},
	}

	added, err := f.calendar.LoadHolidays(days)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 days added, got %d", added)
	}
	if added, _ := f.calendar.LoadHolidays(days); added != 0 {
		t.Fatalf("expected repeated load to add nothing, got %d", added)
	}
	if len(f.calendar.SpecialDayTypes()) != 1 {
		t.Fatalf("expected a single holiday type")
	}

	_, err = f.shifts.PlaceShift(&models.Shift{
		EmployeeID: models.StringPtr(alice.ID),
		StartTime:  at(tuesday, 9, 0),
		EndTime:    at(tuesday, 17, 0),
	})
	var conflict *engine.ConflictError
	if !errors.As(err, &conflict) || conflict.Conflict.Kind != engine.ConflictHoliday {
		t.Fatalf("expected holiday conflict, got %v", err)
	}

	// сокращенный день не блокирует смены
	f.placeShift(t, alice.ID, at(wednesday, 9, 0), at(wednesday, 14, 0))
	week := f.shifts.Week(monday)
	if week[2].Holiday != nil || week[2].PartialHoliday == nil {
		t.Fatalf("expected wednesday to be a partial holiday")
	}
}

func TestAbsenceDatesValidated(t *testing.T) {
	f := newFixture(t, models.PlanPro)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")

	_, err := f.calendar.AddAbsence(&models.Absence{
		EmployeeID:    alice.ID,
		AbsenceTypeID: f.vacationTypeID(t),
		StartDate:     monday.AddDate(0, 0, 3),
		EndDate:       monday,
	})
	if !errors.Is(err, ErrInvalidDates) {
		t.Fatalf("expected ErrInvalidDates, got %v", err)
	}

	free := newFixture(t, models.PlanFree)
	bob := free.addEmployee(t, "Bob", "bob@example.com", "Manager")
	_, err = free.calendar.AddAbsence(&models.Absence{
		EmployeeID:    bob.ID,
		AbsenceTypeID: free.vacationTypeID(t),
		StartDate:     monday,
		EndDate:       monday,
	})
	if !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
}
