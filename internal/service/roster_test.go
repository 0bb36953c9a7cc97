package service

import (
	"errors"
	"fmt"
	"testing"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/export"
)

func TestAddEmployeeValidation(t *testing.T) {
	f := newFixture(t, models.PlanProPlus)

	cases := []struct {
		name     string
		employee models.Employee
	}{
		{"missing name", models.Employee{Email: "a@example.com"}},
		{"missing email", models.Employee{Name: "Alice"}},
		{"bad email", models.Employee{Name: "Alice", Email: "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.roster.AddEmployee(&tc.employee)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message == "" {
				t.Fatalf("expected translated message")
			}
		})
	}
}

func TestAddEmployeeDefaultsAndAccessCode(t *testing.T) {
	f := newFixture(t, models.PlanProPlus)
	e := f.addEmployee(t, "Alice", "Alice@Example.com", "")

	if e.Role != models.DefaultEmployeeRole || e.Gender != models.DefaultEmployeeGender {
		t.Fatalf("expected defaults, got role=%q gender=%q", e.Role, e.Gender)
	}
	if e.AccessCode == nil || len(*e.AccessCode) != 6 || (*e.AccessCode)[0] == '0' {
		t.Fatalf("expected six digit access code, got %v", e.AccessCode)
	}

	if _, err := f.roster.AddEmployee(&models.Employee{Name: "Alice 2", Email: "alice@example.COM "}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	pro := newFixture(t, models.PlanPro)
	e = pro.addEmployee(t, "Bob", "bob@example.com", "Manager")
	if e.AccessCode != nil {
		t.Fatalf("access codes are issued only with clocking")
	}
}

func TestEmployeeLimit(t *testing.T) {
	f := newFixture(t, models.PlanFree)
	for i := 0; i < 10; i++ {
		f.addEmployee(t, fmt.Sprintf("Employee %d", i), fmt.Sprintf("e%d@example.com", i), "")
	}
	_, err := f.roster.AddEmployee(&models.Employee{Name: "Extra", Email: "extra@example.com"})
	if !errors.Is(err, ErrEmployeeLimitReached) {
		t.Fatalf("expected ErrEmployeeLimitReached, got %v", err)
	}
	if count := len(f.storedEmployees(t)); count != 10 {
		t.Fatalf("expected 10 stored employees, got %d", count)
	}
}

func TestImportEmployees(t *testing.T) {
	f := newFixture(t, models.PlanProPlus)
	f.addEmployee(t, "Alice", "alice@example.com", "Cashier")

	rows := []export.EmployeeRow{
		{Name: "Bob", Email: "bob@example.com", Role: "Manager"},
		{Name: "Alice again", Email: "ALICE@example.com"},
		{Name: "", Email: "nobody@example.com"},
		{Name: "Broken", Email: "broken"},
		{Name: "Bob twin", Email: "bob@example.com"},
		{Name: "Carol", Email: "carol@example.com"},
	}
	result, err := f.roster.ImportEmployees(rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 2 || result.Skipped != 4 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(f.roster.Employees()) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(f.roster.Employees()))
	}

	free := newFixture(t, models.PlanFree)
	if _, err := free.roster.ImportEmployees(rows); !errors.Is(err, ErrFeatureUnavailable) {
		t.Fatalf("expected ErrFeatureUnavailable, got %v", err)
	}
}

func TestLoginBindsChat(t *testing.T) {
	f := newFixture(t, models.PlanProPlus)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")

	if _, err := f.roster.Login(42, "alice", "alice@example.com", "000000"); !errors.Is(err, ErrInvalidAccessCode) {
		t.Fatalf("expected ErrInvalidAccessCode, got %v", err)
	}
	if _, err := f.roster.EmployeeForChat(42); !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}

	if _, err := f.roster.Login(42, "alice", " ALICE@example.com", *alice.AccessCode); err != nil {
		t.Fatalf("login: %v", err)
	}
	linked, err := f.roster.EmployeeForChat(42)
	if err != nil || linked.ID != alice.ID {
		t.Fatalf("expected chat linked to alice, got %v, %v", linked, err)
	}

	code, err := f.roster.RegenerateAccessCode(alice.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	stored := f.storedEmployee(t, alice.ID)
	if stored.AccessCode == nil || *stored.AccessCode != code {
		t.Fatalf("expected new code persisted")
	}
}

func TestDeleteEmployeeCascades(t *testing.T) {
	f := newFixture(t, models.PlanProPlus)
	alice := f.addEmployee(t, "Alice", "alice@example.com", "Cashier")
	bob := f.addEmployee(t, "Bob", "bob@example.com", "Manager")

	f.placeShift(t, alice.ID, at(monday, 9, 0), at(monday, 17, 0))
	bobShift := f.placeShift(t, bob.ID, at(monday, 9, 0), at(monday, 17, 0))
	if _, err := f.calendar.AddAbsence(&models.Absence{
		EmployeeID:    alice.ID,
		AbsenceTypeID: f.vacationTypeID(t),
		StartDate:     monday.AddDate(0, 0, 7),
		EndDate:       monday.AddDate(0, 0, 8),
	}); err != nil {
		t.Fatalf("add absence: %v", err)
	}
	msg, err := f.inbox.SubmitComplaint(alice.ID, "Schedule", "Too many night shifts")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.roster.DeleteEmployee(alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := f.ws.Snapshot()
	if len(snap.Shifts) != 1 || snap.Shifts[0].ID != bobShift.ID {
		t.Fatalf("expected only bob's shift to remain, got %d", len(snap.Shifts))
	}
	if len(snap.Absences) != 0 {
		t.Fatalf("expected absences to be removed")
	}
	if snap.InboxMessage(msg.ID) == nil {
		t.Fatalf("inbox message must survive employee deletion")
	}
	if f.ws.UndoDepth() != 0 {
		t.Fatalf("undo history must be reset after deleting an employee")
	}

	if stored := f.storedShiftsOf(t, alice.ID); len(stored) != 0 {
		t.Fatalf("expected alice's shifts deleted from store")
	}
	if err := f.inbox.FollowUp(msg.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if err := f.roster.DeleteEmployee(alice.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound on second delete, got %v", err)
	}
}
