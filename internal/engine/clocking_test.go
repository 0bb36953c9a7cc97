package engine

import (
	"errors"
	"testing"
	"time"

	"shift-planner-bot/internal/models"
)

func proPlusPolicy() ClockPolicy {
	return DefaultClockPolicy(models.PlanProPlus.Capabilities())
}

func TestClockInGate(t *testing.T) {
	shift := shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))
	policy := proPlusPolicy()

	if _, err := ClockIn(shift, policy, at(monday, 8, 49)); !errors.Is(err, ErrClockInTooEarly) {
		t.Fatalf("11 minutes early must be rejected, got %v", err)
	}

	updated, err := ClockIn(shift, policy, at(monday, 8, 51))
	if err != nil {
		t.Fatalf("9 minutes early must be accepted: %v", err)
	}
	if updated.ActualStartTime == nil || !updated.ActualStartTime.Equal(at(monday, 8, 51)) {
		t.Fatalf("unexpected actual start %v", updated.ActualStartTime)
	}
	if shift.ActualStartTime != nil {
		t.Fatalf("input shift must not change")
	}

	if _, err := ClockIn(updated, policy, at(monday, 9, 0)); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("expected ErrAlreadyClockedIn, got %v", err)
	}
}

func TestClockInRequiresPlanAndAssignment(t *testing.T) {
	shift := shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))
	pro := DefaultClockPolicy(models.PlanPro.Capabilities())
	if _, err := ClockIn(shift, pro, at(monday, 9, 0)); !errors.Is(err, ErrClockingUnsupported) {
		t.Fatalf("expected ErrClockingUnsupported, got %v", err)
	}

	open := &models.Shift{ID: "o", StartTime: at(monday, 9, 0), EndTime: at(monday, 17, 0)}
	if _, err := ClockIn(open, proPlusPolicy(), at(monday, 9, 0)); !errors.Is(err, ErrUnassignedShift) {
		t.Fatalf("expected ErrUnassignedShift, got %v", err)
	}
}

func TestClockOut(t *testing.T) {
	policy := proPlusPolicy()
	shift := shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))

	if _, err := ClockOut(shift, policy, at(monday, 17, 0)); !errors.Is(err, ErrNotClockedIn) {
		t.Fatalf("expected ErrNotClockedIn, got %v", err)
	}

	in, _ := ClockIn(shift, policy, at(monday, 9, 0))
	out, err := ClockOut(in, policy, at(monday, 17, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.IsClosed() {
		t.Fatalf("expected shift to be closed")
	}
	if _, err := ClockOut(out, policy, at(monday, 17, 6)); !errors.Is(err, ErrAlreadyClockedOut) {
		t.Fatalf("expected ErrAlreadyClockedOut, got %v", err)
	}
}

func TestClockingStatus(t *testing.T) {
	policy := proPlusPolicy()
	snap := newSnapshot()
	snap.Absences = []*models.Absence{
		{ID: "a1", EmployeeID: "B", AbsenceTypeID: "vac", StartDate: monday, EndDate: monday},
	}
	clockedIn := at(monday, 9, 0)
	clockedOut := at(monday, 17, 0)

	present := shiftFor("p", "A", at(monday, 9, 0), at(monday, 17, 0))
	present.ActualStartTime = &clockedIn
	closed := present.Clone()
	closed.ActualEndTime = &clockedOut

	cases := []struct {
		name   string
		shift  *models.Shift
		policy ClockPolicy
		now    time.Time
		want   ClockingState
	}{
		{"before start", shiftFor("f", "A", at(monday, 9, 0), at(monday, 17, 0)), policy, at(monday, 8, 0), StateFuture},
		{"start passed", shiftFor("n", "A", at(monday, 9, 0), at(monday, 17, 0)), policy, at(monday, 9, 30), StateNotClocked},
		{"absent", shiftFor("a", "B", at(monday, 9, 0), at(monday, 17, 0)), policy, at(monday, 9, 30), StateAbsent},
		{"present", present, policy, at(monday, 10, 0), StatePresent},
		{"closed", closed, policy, at(monday, 18, 0), StateClosed},
		{"open shift", &models.Shift{StartTime: at(monday, 9, 0), EndTime: at(monday, 17, 0)}, policy, at(monday, 10, 0), StateFuture},
		{"plan without clocking", shiftFor("x", "A", at(monday, 9, 0), at(monday, 17, 0)), DefaultClockPolicy(models.PlanPro.Capabilities()), at(monday, 10, 0), StateFuture},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClockingStatus(tc.shift, snap, tc.policy, tc.now); got != tc.want {
				t.Fatalf("state = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAutoCloseSweepIsIdempotent(t *testing.T) {
	policy := proPlusPolicy()
	clockedIn := at(monday, 9, 2)
	forgotten := shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))
	forgotten.ActualStartTime = &clockedIn
	inGrace := shiftFor("s2", "B", at(monday, 10, 0), at(monday, 17, 45))
	inGrace.ActualStartTime = &clockedIn
	shifts := []*models.Shift{forgotten, inGrace}

	now := at(monday, 17, 31)
	first := AutoCloseSweep(shifts, policy, now)
	if len(first) != 1 || first[0].ID != "s1" {
		t.Fatalf("expected only s1 to be closed, got %v", first)
	}
	if !first[0].ActualEndTime.Equal(at(monday, 17, 0)) {
		t.Fatalf("actual end must equal scheduled end, got %v", first[0].ActualEndTime)
	}
	if ClockingStatus(first[0], nil, policy, now) != StateClosed {
		t.Fatalf("expected closed state")
	}

	shifts[0] = first[0]
	if again := AutoCloseSweep(shifts, policy, now); len(again) != 0 {
		t.Fatalf("second sweep must be a no-op, got %v", again)
	}
	if !shifts[0].ActualEndTime.Equal(at(monday, 17, 0)) {
		t.Fatalf("state changed on second sweep")
	}

	if got := AutoCloseSweep([]*models.Shift{forgotten}, DefaultClockPolicy(models.PlanPro.Capabilities()), now); got != nil {
		t.Fatalf("sweep must do nothing without clocking support")
	}
}

func TestAutoCloseSweepRespectsGrace(t *testing.T) {
	policy := proPlusPolicy()
	clockedIn := at(monday, 9, 0)
	shift := shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))
	shift.ActualStartTime = &clockedIn

	if got := AutoCloseSweep([]*models.Shift{shift}, policy, at(monday, 17, 30)); len(got) != 0 {
		t.Fatalf("exactly at the grace boundary nothing is closed")
	}
}
