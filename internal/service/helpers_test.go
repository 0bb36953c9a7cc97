package service

import (
	"testing"
	"time"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 4 марта 2024 - понедельник
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

type fixture struct {
	store *repository.Store
	ws    *Workspace
	now   time.Time

	shifts   *ShiftService
	clocking *ClockingService
	roster   *RosterService
	calendar *CalendarService
	inbox    *InboxService
	hours    *HoursService
	dir      *DirectoryService
}

func newFixture(t *testing.T, plan models.Plan) *fixture {
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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store, err := repository.NewStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	f := &fixture{store: store, now: at(monday, 8, 0)}
	return f.open(t, RepositoriesFromStore(store), plan)
}

// open создает рабочее пространство поверх репозиториев
func (f *fixture) open(t *testing.T, repos Repositories, plan models.Plan) *fixture {
	t.Helper()

	f.ws = NewWorkspace(repos, WorkspaceOptions{
		CompanyID: "acme",
		Plan:      plan,
		Clock:     func() time.Time { return f.now },
	})
	if err := f.ws.Load(); err != nil {
		t.Fatalf("load workspace: %v", err)
	}

	f.shifts = NewShiftService(f.ws)
	f.clocking = NewClockingService(f.ws)
	f.roster = NewRosterService(f.ws, f.store.Users)
	f.calendar = NewCalendarService(f.ws)
	f.inbox = NewInboxService(f.ws)
	f.hours = NewHoursService(f.ws)
	f.dir = NewDirectoryService(f.ws)
	return f
}

func (f *fixture) addEmployee(t *testing.T, name, email, role string) *models.Employee {
	t.Helper()
	e, err := f.roster.AddEmployee(&models.Employee{Name: name, Email: email, Role: role})
	if err != nil {
		t.Fatalf("add employee %s: %v", name, err)
	}
	return e
}

func (f *fixture) placeShift(t *testing.T, employeeID string, start, end time.Time) *models.Shift {
	t.Helper()
	shift := &models.Shift{StartTime: start, EndTime: end}
	if employeeID != "" {
		shift.EmployeeID = models.StringPtr(employeeID)
	}
	placed, err := f.shifts.PlaceShift(shift)
	if err != nil {
		t.Fatalf("place shift: %v", err)
	}
	return placed
}

func (f *fixture) vacationTypeID(t *testing.T) string {
	t.Helper()
	vacation := f.calendar.FindAbsenceType("vacation")
	if vacation == nil {
		t.Fatalf("default absence types were not seeded")
	}
	return vacation.ID
}

func (f *fixture) storedEmployees(t *testing.T) []*models.Employee {
	t.Helper()
	employees, err := f.store.Employees.GetByCompany("acme")
	if err != nil {
		t.Fatalf("list stored employees: %v", err)
	}
	return employees
}

func (f *fixture) storedEmployee(t *testing.T, id string) *models.Employee {
	t.Helper()
	for _, e := range f.storedEmployees(t) {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("employee %s is not stored", id)
	return nil
}

func (f *fixture) storedMessage(t *testing.T, id string) *models.InboxMessage {
	t.Helper()
	messages, err := f.store.InboxMessages.GetByCompany("acme")
	if err != nil {
		t.Fatalf("list stored messages: %v", err)
	}
	for _, m := range messages {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("message %s is not stored", id)
	return nil
}

func (f *fixture) storedShiftsOf(t *testing.T, employeeID string) []*models.Shift {
	t.Helper()
	shifts, err := f.store.Shifts.GetByCompany("acme")
	if err != nil {
		t.Fatalf("list stored shifts: %v", err)
	}
	var out []*models.Shift
	for _, sh := range shifts {
		if sh.AssignedTo(employeeID) {
			out = append(out, sh)
		}
	}
	return out
}
