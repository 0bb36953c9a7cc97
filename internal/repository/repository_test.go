package repository

import (
	"testing"
	"time"

	"shift-planner-bot/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// у каждого соединения своя in-memory база
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func testShift(employeeID string, startHour, endHour int) *models.Shift {
	return &models.Shift{
		CompanyID:  "acme",
		EmployeeID: models.StringPtr(employeeID),
		StartTime:  day.Add(time.Duration(startHour) * time.Hour),
		EndTime:    day.Add(time.Duration(endHour) * time.Hour),
	}
}

func findShift(t *testing.T, repo *GormShiftRepository, id string) *models.Shift {
	t.Helper()
	shift, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return shift
}

func TestShiftRepositoryApplyChanges(t *testing.T) {
	store := newTestStore(t)
	repo := store.Shifts

	a := testShift("e1", 9, 12)
	b := testShift("e2", 9, 12)
	if err := repo.ApplyChanges([]*models.Shift{a, b}, nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || b.ID == "" {
		t.Fatalf("expected ids to be generated")
	}
	got := findShift(t, repo, a.ID)
	if got == nil || !got.StartTime.Equal(a.StartTime) || got.Employee() != "e1" {
		t.Fatalf("unexpected shift %+v", got)
	}

	a.EndTime = day.Add(13 * time.Hour)
	a.EmployeeID = nil
	c := testShift("e3", 14, 18)
	c.ID = models.NewID()
	if err := repo.ApplyChanges([]*models.Shift{c}, []*models.Shift{a}, []string{b.ID}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	shifts, err := repo.GetByCompany("acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(shifts) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(shifts))
	}
	updated := findShift(t, repo, a.ID)
	if !updated.EndTime.Equal(day.Add(13*time.Hour)) || !updated.IsOpen() {
		t.Fatalf("update was not applied: %+v", updated)
	}
	if missing := findShift(t, repo, b.ID); missing != nil {
		t.Fatalf("expected nil, nil for a deleted shift, got %+v", missing)
	}

	if err := repo.ApplyChanges(nil, nil, []string{a.ID, c.ID, "missing"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	shifts, _ = repo.GetByCompany("acme")
	if len(shifts) != 0 {
		t.Fatalf("expected no shifts, got %d", len(shifts))
	}
}

func TestShiftRepositoryApplyChangesIsAtomic(t *testing.T) {
	store := newTestStore(t)
	repo := store.Shifts

	a := testShift("e1", 9, 12)
	if err := repo.ApplyChanges([]*models.Shift{a}, nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	// повторная вставка того же id ломает транзакцию целиком
	dup := testShift("e2", 13, 15)
	dup.ID = a.ID
	if err := repo.ApplyChanges([]*models.Shift{dup}, nil, []string{a.ID}); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
	if kept := findShift(t, repo, a.ID); kept == nil || kept.Employee() != "e1" {
		t.Fatalf("failed batch must not delete anything, got %+v", kept)
	}
}

func TestShiftRepositoryClocking(t *testing.T) {
	store := newTestStore(t)
	repo := store.Shifts

	shift := testShift("e1", 9, 17)
	if err := repo.ApplyChanges([]*models.Shift{shift}, nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	if closed, err := repo.AutoClose(shift.ID, shift.EndTime); err != nil || closed {
		t.Fatalf("a shift without clock-in must not be closed: %v %v", closed, err)
	}

	if err := repo.SetActualStart(shift.ID, day.Add(9*time.Hour)); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if err := repo.SetActualStart(shift.ID, day.Add(10*time.Hour)); err == nil {
		t.Fatalf("second clock in must fail")
	}

	closed, err := repo.AutoClose(shift.ID, shift.EndTime)
	if err != nil || !closed {
		t.Fatalf("expected auto close: %v %v", closed, err)
	}
	closed, err = repo.AutoClose(shift.ID, shift.EndTime.Add(time.Hour))
	if err != nil || closed {
		t.Fatalf("auto close must be idempotent: %v %v", closed, err)
	}

	got, _ := repo.GetByID(shift.ID)
	if got.ActualEndTime == nil || !got.ActualEndTime.Equal(shift.EndTime) {
		t.Fatalf("actual end = %v, want %v", got.ActualEndTime, shift.EndTime)
	}
	if err := repo.SetActualEnd(shift.ID, day.Add(18*time.Hour)); err == nil {
		t.Fatalf("clock out after auto close must fail")
	}
}

func TestEmployeeDeleteCascades(t *testing.T) {
	store := newTestStore(t)

	employee := &models.Employee{CompanyID: "acme", Name: "Alice", Email: "Alice@Example.com"}
	other := &models.Employee{CompanyID: "acme", Name: "Bob", Email: "bob@example.com"}
	for _, e := range []*models.Employee{employee, other} {
		if err := store.Employees.Create(e); err != nil {
			t.Fatalf("create employee: %v", err)
		}
	}

	if err := store.Shifts.ApplyChanges([]*models.Shift{testShift(employee.ID, 9, 17), testShift(other.ID, 9, 17)}, nil, nil); err != nil {
		t.Fatalf("create shifts: %v", err)
	}
	absence := &models.Absence{CompanyID: "acme", EmployeeID: employee.ID, AbsenceTypeID: "vac", StartDate: day, EndDate: day}
	if err := store.Absences.Create(absence); err != nil {
		t.Fatalf("create absence: %v", err)
	}
	message := &models.InboxMessage{CompanyID: "acme", EmployeeID: employee.ID, Type: models.MessageTypeComplaint, Body: "noise", Date: day, Status: models.MessageStatusPending}
	if err := store.InboxMessages.Create(message); err != nil {
		t.Fatalf("create message: %v", err)
	}
	user := &models.User{ChatID: 42, EmployeeID: models.StringPtr(employee.ID)}
	if err := store.Users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := store.Employees.DeleteWithCascade(employee.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	shifts, _ := store.Shifts.GetByCompany("acme")
	if len(shifts) != 1 || shifts[0].Employee() != other.ID {
		t.Fatalf("only the other employee's shift must stay, got %d", len(shifts))
	}
	if absences, _ := store.Absences.GetByCompany("acme"); len(absences) != 0 {
		t.Fatalf("expected absences to be deleted")
	}
	messages, err := store.InboxMessages.GetByCompany("acme")
	if err != nil || len(messages) != 1 || messages[0].EmployeeID != employee.ID {
		t.Fatalf("inbox message must be kept: %v %v", messages, err)
	}
	linked, _ := store.Users.GetByChatID(42)
	if linked == nil || linked.IsLinked() {
		t.Fatalf("user must be unlinked: %+v", linked)
	}

	if err := store.Employees.DeleteWithCascade(employee.ID); err == nil {
		t.Fatalf("expected error deleting a missing employee")
	}
}

func TestEmployeesScopedToCompany(t *testing.T) {
	store := newTestStore(t)
	if err := store.Employees.Create(&models.Employee{CompanyID: "acme", Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	employees, err := store.Employees.GetByCompany("acme")
	if err != nil || len(employees) != 1 {
		t.Fatalf("expected one employee, got %v %v", employees, err)
	}
	if got := employees[0].Role; got != models.DefaultEmployeeRole {
		t.Fatalf("expected default role, got %q", got)
	}
	if other, _ := store.Employees.GetByCompany("other"); len(other) != 0 {
		t.Fatalf("listing must be scoped to the company")
	}
}

func TestSpecialDaysBulkCreateSkipsDuplicates(t *testing.T) {
	store := newTestStore(t)
	dayType := &models.SpecialDayType{CompanyID: "acme", Name: models.PublicHolidayTypeName, IsHoliday: true}
	if err := store.SpecialDayTypes.Create(dayType); err != nil {
		t.Fatalf("create type: %v", err)
	}

	days := []*models.SpecialDay{
		{CompanyID: "acme", Date: day, TypeID: dayType.ID, Coverage: models.CoverageAllDay},
		{CompanyID: "acme", Date: day.AddDate(0, 0, 1), TypeID: dayType.ID, Coverage: models.CoveragePartial},
	}
	added, err := store.SpecialDays.BulkCreate(days)
	if err != nil || added != 2 {
		t.Fatalf("expected 2 added, got %d %v", added, err)
	}

	again := []*models.SpecialDay{{CompanyID: "acme", Date: day, TypeID: dayType.ID, Coverage: models.CoverageAllDay}}
	added, err = store.SpecialDays.BulkCreate(again)
	if err != nil || added != 0 {
		t.Fatalf("expected duplicate to be skipped, got %d %v", added, err)
	}

	stored, err := store.SpecialDays.GetByCompany("acme")
	if err != nil || len(stored) != 2 {
		t.Fatalf("expected two stored days, got %d %v", len(stored), err)
	}
	first := stored[0]
	if !first.Date.Equal(day) {
		first = stored[1]
	}
	if first.Year != 2024 || first.Month != 3 || first.Day != 4 {
		t.Fatalf("date parts must be filled on save: %+v", first)
	}

	types, err := store.SpecialDayTypes.GetByCompany("acme")
	if err != nil || len(types) != 1 || !types[0].IsHoliday {
		t.Fatalf("expected holiday type, got %v %v", types, err)
	}
}

func TestAbsenceTypesSeedOnce(t *testing.T) {
	store := newTestStore(t)

	first, err := store.AbsenceTypes.SeedDefaults("acme")
	if err != nil || len(first) != 3 {
		t.Fatalf("expected 3 default types, got %d %v", len(first), err)
	}
	second, err := store.AbsenceTypes.SeedDefaults("acme")
	if err != nil || len(second) != 3 {
		t.Fatalf("seeding twice must not duplicate, got %d %v", len(second), err)
	}
}

func TestInboxNotifications(t *testing.T) {
	store := newTestStore(t)
	pending := &models.InboxMessage{CompanyID: "acme", EmployeeID: "e1", Type: models.MessageTypeComplaint, Body: "x", Date: day, Status: models.MessageStatusPending}
	done := &models.InboxMessage{CompanyID: "acme", EmployeeID: "e1", Type: models.MessageTypeComplaint, Body: "y", Date: day, Status: models.MessageStatusFollowedUp}
	for _, m := range []*models.InboxMessage{pending, done} {
		if err := store.InboxMessages.Create(m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	unnotified, err := store.InboxMessages.GetUnnotified("acme")
	if err != nil || len(unnotified) != 1 || unnotified[0].ID != pending.ID {
		t.Fatalf("expected only the pending message, got %v %v", unnotified, err)
	}
	if err := store.InboxMessages.MarkNotified([]string{pending.ID}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	unnotified, _ = store.InboxMessages.GetUnnotified("acme")
	if len(unnotified) != 0 {
		t.Fatalf("expected no unnotified messages")
	}
}

func TestDirectoryRepositories(t *testing.T) {
	store := newTestStore(t)

	if err := store.Locations.Create(&models.Location{CompanyID: "acme"}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	for _, name := range []string{"Склад", "Зал"} {
		if err := store.Locations.Create(&models.Location{CompanyID: "acme", Name: name}); err != nil {
			t.Fatalf("create location %s: %v", name, err)
		}
	}
	if err := store.Locations.Create(&models.Location{CompanyID: "other", Name: "Офис"}); err != nil {
		t.Fatalf("create foreign location: %v", err)
	}

	locations, err := store.Locations.GetByCompany("acme")
	if err != nil {
		t.Fatalf("list locations: %v", err)
	}
	if len(locations) != 2 || locations[0].Name != "Зал" || locations[0].ID == "" {
		t.Fatalf("expected 2 locations ordered by name, got %+v", locations)
	}

	if err := store.Locations.Delete(locations[0].ID); err != nil {
		t.Fatalf("delete location: %v", err)
	}
	if err := store.Locations.Delete(locations[0].ID); err == nil {
		t.Fatalf("expected error for missing location")
	}

	role := &models.Role{CompanyID: "acme", Name: "Повар"}
	if err := store.Roles.Create(role); err != nil {
		t.Fatalf("create role: %v", err)
	}
	if err := store.Departments.Create(&models.Department{CompanyID: "acme", Name: "Кухня"}); err != nil {
		t.Fatalf("create department: %v", err)
	}
	roles, _ := store.Roles.GetByCompany("acme")
	departments, _ := store.Departments.GetByCompany("acme")
	if len(roles) != 1 || roles[0].ID != role.ID || len(departments) != 1 {
		t.Fatalf("unexpected roles %+v and departments %+v", roles, departments)
	}
}
