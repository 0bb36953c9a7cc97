package engine

import (
	"time"

	"shift-planner-bot/internal/models"
)

// 4 марта 2024 - понедельник
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		CompanyID: "acme",
		Employees: []*models.Employee{
			{ID: "A", CompanyID: "acme", Name: "Alice", Email: "alice@example.com", Phone: "+1", Role: "Cashier"},
			{ID: "B", CompanyID: "acme", Name: "Bob", Email: "bob@example.com", Role: "Manager"},
		},
		AbsenceTypes: []*models.AbsenceType{
			{ID: "vac", CompanyID: "acme", Name: "Vacation"},
		},
		SpecialDayTypes: []*models.SpecialDayType{
			{ID: "hol", CompanyID: "acme", Name: "Public holiday", IsHoliday: true},
			{ID: "evt", CompanyID: "acme", Name: "Event", IsHoliday: false},
		},
	}
}

func shiftFor(id, employeeID string, start, end time.Time) *models.Shift {
	return &models.Shift{
		ID:         id,
		CompanyID:  "acme",
		EmployeeID: models.StringPtr(employeeID),
		StartTime:  start,
		EndTime:    end,
	}
}
