package engine

import (
	"errors"
	"testing"
	"time"

	"shift-planner-bot/internal/models"
)

func TestPlaceShiftCreatesAndRollsOvernight(t *testing.T) {
	snap := newSnapshot()
	opts := MutationOptions{Now: at(monday, 8, 0)}

	m, err := PlaceShift(snap, shiftFor("", "A", at(monday, 22, 0), at(monday, 6, 0)), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Created) != 1 || len(m.After) != 1 || len(m.Before) != 0 {
		t.Fatalf("unexpected mutation %+v", m)
	}
	created := m.Created[0]
	if created.ID == "" || created.CompanyID != "acme" {
		t.Fatalf("expected id and company to be filled, got %+v", created)
	}
	if !created.EndTime.Equal(at(monday.AddDate(0, 0, 1), 6, 0)) {
		t.Fatalf("expected end on the next day, got %v", created.EndTime)
	}
	if len(snap.Shifts) != 0 {
		t.Fatalf("input snapshot must not change")
	}
}

func TestPlaceShiftIdenticalIsOverlap(t *testing.T) {
	snap := newSnapshot()
	snap.Shifts = []*models.Shift{shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))}

	_, err := PlaceShift(snap, shiftFor("", "A", at(monday, 9, 0), at(monday, 17, 0)), MutationOptions{})
	var cerr *ConflictError
	if !errors.As(err, &cerr) || cerr.Conflict.Kind != ConflictOverlap {
		t.Fatalf("expected overlap conflict, got %v", err)
	}
}

func TestPlaceShiftUpdateExcludesSelf(t *testing.T) {
	snap := newSnapshot()
	snap.Shifts = []*models.Shift{shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))}

	m, err := PlaceShift(snap, shiftFor("s1", "A", at(monday, 10, 0), at(monday, 18, 0)), MutationOptions{Now: at(monday, 8, 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Updated) != 1 || len(m.After) != 1 {
		t.Fatalf("expected one updated shift, got %+v", m)
	}
	if !snap.Shifts[0].StartTime.Equal(at(monday, 9, 0)) {
		t.Fatalf("original shift must be untouched")
	}
}

func TestPlaceShiftRejections(t *testing.T) {
	now := at(monday, 12, 0)
	clocked := now.Add(-time.Hour)
	snap := newSnapshot()
	started := shiftFor("s1", "A", at(monday, 11, 0), at(monday, 19, 0))
	started.ActualStartTime = &clocked
	snap.Shifts = []*models.Shift{
		started,
		shiftFor("s2", "B", at(monday, 6, 0), at(monday, 10, 0)),
	}

	cases := []struct {
		name  string
		shift *models.Shift
		opts  MutationOptions
		want  error
	}{
		{"locked calendar", shiftFor("", "A", at(monday, 20, 0), at(monday, 22, 0)), MutationOptions{Locked: true, Now: now}, ErrLockedCalendar},
		{"clocked in shift", shiftFor("s1", "A", at(monday, 11, 0), at(monday, 20, 0)), MutationOptions{Now: now}, ErrShiftLocked},
		{"finished shift", shiftFor("s2", "B", at(monday, 7, 0), at(monday, 10, 0)), MutationOptions{Now: now}, ErrShiftLocked},
		{"past day", shiftFor("", "A", at(monday.AddDate(0, 0, -1), 9, 0), at(monday.AddDate(0, 0, -1), 10, 0)), MutationOptions{Now: now}, ErrPastDay},
		{"missing company and start", &models.Shift{}, MutationOptions{Now: now}, ErrInvalidShift},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := snap
			if tc.name == "missing company and start" {
				s = &Snapshot{}
			}
			if _, err := PlaceShift(s, tc.shift, tc.opts); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAssignShift(t *testing.T) {
	snap := newSnapshot()
	tuesday := monday.AddDate(0, 0, 1)
	snap.Absences = []*models.Absence{
		{ID: "a1", EmployeeID: "B", AbsenceTypeID: "vac", StartDate: tuesday, EndDate: tuesday},
	}
	snap.Shifts = []*models.Shift{{ID: "open", CompanyID: "acme", StartTime: at(tuesday, 9, 0), EndTime: at(tuesday, 17, 0)}}
	opts := MutationOptions{Now: at(monday, 9, 0)}

	_, err := AssignShift(snap, "open", "B", opts)
	var cerr *ConflictError
	if !errors.As(err, &cerr) || cerr.Conflict.Kind != ConflictAbsence {
		t.Fatalf("expected absence conflict once assigned, got %v", err)
	}

	m, err := AssignShift(snap, "open", "A", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.After[0].AssignedTo("A") {
		t.Fatalf("expected shift to be assigned to A")
	}
	if _, err := AssignShift(snap, "missing", "A", opts); !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
	if _, err := UpdateShift(snap, shiftFor("missing", "A", at(tuesday, 9, 0), at(tuesday, 10, 0)), opts); !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestMoveShiftPreservesTimeAndDuration(t *testing.T) {
	snap := newSnapshot()
	snap.Shifts = []*models.Shift{shiftFor("s1", "A", at(monday, 22, 30), at(monday.AddDate(0, 0, 1), 6, 0))}

	friday := monday.AddDate(0, 0, 4)
	m, err := MoveShift(snap, "s1", at(friday, 3, 0), MutationOptions{Now: at(monday, 8, 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	moved := m.After[0]
	if !moved.StartTime.Equal(at(friday, 22, 30)) {
		t.Fatalf("start = %v", moved.StartTime)
	}
	if moved.Duration() != 7*time.Hour+30*time.Minute {
		t.Fatalf("duration = %v", moved.Duration())
	}
}

func TestMoveShiftRejectsConflict(t *testing.T) {
	snap := newSnapshot()
	wednesday := monday.AddDate(0, 0, 2)
	snap.Shifts = []*models.Shift{
		shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0)),
		shiftFor("s2", "A", at(wednesday, 16, 0), at(wednesday, 20, 0)),
	}

	m, err := MoveShift(snap, "s1", wednesday, MutationOptions{Now: at(monday, 8, 0)})
	var cerr *ConflictError
	if !errors.As(err, &cerr) || cerr.Conflict.Kind != ConflictOverlap || m != nil {
		t.Fatalf("expected move to be rejected with overlap, got %v", err)
	}

	if _, err := MoveShift(snap, "s1", monday, MutationOptions{Now: at(monday, 8, 0)}); err != nil {
		t.Fatalf("moving onto the same day must not conflict with itself: %v", err)
	}
	if _, err := MoveShift(snap, "s1", wednesday, MutationOptions{Locked: true}); !errors.Is(err, ErrLockedCalendar) {
		t.Fatalf("expected ErrLockedCalendar, got %v", err)
	}
}

func TestMoveShiftRejectsPastDay(t *testing.T) {
	snap := newSnapshot()
	wednesday := monday.AddDate(0, 0, 2)
	snap.Shifts = []*models.Shift{shiftFor("s1", "A", at(wednesday, 9, 0), at(wednesday, 17, 0))}

	if _, err := MoveShift(snap, "s1", monday, MutationOptions{Now: at(monday.AddDate(0, 0, 1), 8, 0)}); !errors.Is(err, ErrPastDay) {
		t.Fatalf("expected ErrPastDay, got %v", err)
	}
}

func TestDeleteShifts(t *testing.T) {
	snap := newSnapshot()
	snap.Shifts = []*models.Shift{
		shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0)),
		shiftFor("s2", "B", at(monday, 9, 0), at(monday, 17, 0)),
		shiftFor("s3", "B", at(monday, 18, 0), at(monday, 20, 0)),
	}

	if _, err := DeleteShift(snap, "missing", MutationOptions{}); !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
	if _, err := DeleteMany(snap, []string{"s1"}, MutationOptions{Locked: true}); !errors.Is(err, ErrLockedCalendar) {
		t.Fatalf("expected ErrLockedCalendar, got %v", err)
	}

	m, err := DeleteMany(snap, []string{"s1", "s3", "missing"}, MutationOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Deleted) != 2 || len(m.After) != 1 || m.After[0].ID != "s2" {
		t.Fatalf("unexpected mutation %+v", m)
	}
	if len(m.Before) != 3 {
		t.Fatalf("before must keep the original collection")
	}
}
