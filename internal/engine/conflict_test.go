package engine

import (
	"testing"

	"shift-planner-bot/internal/models"
)

func TestCheckPlacementStrictOverlap(t *testing.T) {
	snap := newSnapshot()
	snap.Shifts = []*models.Shift{shiftFor("s1", "A", at(monday, 12, 0), at(monday, 14, 0))}

	if c := CheckPlacement("A", at(monday, 10, 0), at(monday, 12, 0), snap, ""); c != nil {
		t.Fatalf("touching shifts must not conflict, got %v", c)
	}
	c := CheckPlacement("A", at(monday, 11, 59), at(monday, 12, 1), snap, "")
	if c == nil || c.Kind != ConflictOverlap || c.ShiftID != "s1" {
		t.Fatalf("expected overlap with s1, got %+v", c)
	}
	if c := CheckPlacement("B", at(monday, 11, 59), at(monday, 12, 1), snap, ""); c != nil {
		t.Fatalf("other employees must not conflict, got %v", c)
	}
}

func TestCheckPlacementIdenticalShiftExcludingSelf(t *testing.T) {
	snap := newSnapshot()
	snap.Shifts = []*models.Shift{
		shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0)),
		shiftFor("s2", "A", at(monday, 9, 0), at(monday, 17, 0)),
	}

	c := CheckPlacement("A", at(monday, 9, 0), at(monday, 17, 0), snap, "s1")
	if c == nil || c.Kind != ConflictOverlap || c.ShiftID != "s2" {
		t.Fatalf("expected overlap with the identical shift s2, got %+v", c)
	}
}

func TestCheckPlacementOrder(t *testing.T) {
	snap := newSnapshot()
	snap.SpecialDays = []*models.SpecialDay{
		{ID: "d1", Date: monday, TypeID: "hol", Coverage: models.CoverageAllDay, Name: "Founders day"},
	}
	snap.Absences = []*models.Absence{
		{ID: "a1", EmployeeID: "A", AbsenceTypeID: "vac", StartDate: monday, EndDate: monday.AddDate(0, 0, 1)},
	}
	snap.Shifts = []*models.Shift{shiftFor("s1", "A", at(monday, 9, 0), at(monday, 17, 0))}

	c := CheckPlacement("A", at(monday, 10, 0), at(monday, 12, 0), snap, "")
	if c == nil || c.Kind != ConflictHoliday || c.Detail != "Founders day" {
		t.Fatalf("expected holiday first, got %+v", c)
	}

	tuesday := monday.AddDate(0, 0, 1)
	snap.Shifts = append(snap.Shifts, shiftFor("s2", "A", at(tuesday, 9, 0), at(tuesday, 17, 0)))
	c = CheckPlacement("A", at(tuesday, 10, 0), at(tuesday, 12, 0), snap, "")
	if c == nil || c.Kind != ConflictAbsence || c.Detail != "Vacation" || c.EmployeeName != "Alice" {
		t.Fatalf("expected absence before overlap, got %+v", c)
	}
}

func TestCheckPlacementIgnoresPartialAndNonHolidayDays(t *testing.T) {
	snap := newSnapshot()
	snap.SpecialDays = []*models.SpecialDay{
		{ID: "d1", Date: monday, TypeID: "hol", Coverage: models.CoveragePartial},
		{ID: "d2", Date: monday, TypeID: "evt", Coverage: models.CoverageAllDay},
	}

	if c := CheckPlacement("A", at(monday, 10, 0), at(monday, 12, 0), snap, ""); c != nil {
		t.Fatalf("expected no conflict, got %+v", c)
	}
	if PartialHolidayOn(monday, snap) == nil {
		t.Fatalf("expected partial holiday to be reported")
	}
}

func TestCheckPlacementOpenShift(t *testing.T) {
	snap := newSnapshot()
	snap.SpecialDays = []*models.SpecialDay{
		{ID: "d1", Date: monday, TypeID: "hol", Coverage: models.CoverageAllDay},
	}
	if c := CheckPlacement("", at(monday, 10, 0), at(monday, 12, 0), snap, ""); c != nil {
		t.Fatalf("open shifts never conflict, got %+v", c)
	}
}
