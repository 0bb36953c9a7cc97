package engine

import (
	"slices"
	"time"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"
)

// UnknownEmployeeName - имя для смен удаленных сотрудников
const UnknownEmployeeName = "Unknown"

// HoursFilter - фильтры отчета по часам. Пустые списки ничего не ограничивают.
type HoursFilter struct {
	Weeks         int
	RoleNames     []string
	DepartmentIDs []string
}

// EmployeeHours - часы одного сотрудника
type EmployeeHours struct {
	EmployeeID string
	Name       string
	Email      string
	Phone      string
	Hours      float64
}

// HoursReport - сводка часов за окно [From, To]
type HoursReport struct {
	TotalHours  float64
	PerEmployee []EmployeeHours
	From        time.Time
	To          time.Time
}

// AggregateHours суммирует часы смен за последние filter.Weeks недель.
// С useActual учитываются только смены с обеими фактическими отметками.
func AggregateHours(shifts []*models.Shift, employees []*models.Employee, filter HoursFilter, useActual bool, now time.Time) HoursReport {
	weeks := filter.Weeks
	if weeks < 1 {
		weeks = 1
	}
	report := HoursReport{
		From: calendar.StartOfDay(now.AddDate(0, 0, -weeks*calendar.DaysInWeek)),
		To:   now,
	}

	byID := make(map[string]*models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	index := map[string]int{}
	for _, sh := range shifts {
		if sh.IsOpen() {
			continue
		}

		var hours float64
		var relevant time.Time
		if useActual {
			d, ok := sh.ActualDuration()
			if !ok {
				continue
			}
			hours = d.Hours()
			relevant = *sh.ActualStartTime
		} else {
			hours = sh.Duration().Hours()
			relevant = sh.StartTime
		}
		if relevant.Before(report.From) || relevant.After(report.To) {
			continue
		}

		if len(filter.DepartmentIDs) > 0 {
			if sh.DepartmentID == nil || !slices.Contains(filter.DepartmentIDs, *sh.DepartmentID) {
				continue
			}
		}

		employee := byID[sh.Employee()]
		if len(filter.RoleNames) > 0 {
			if employee == nil || !slices.Contains(filter.RoleNames, employee.Role) {
				continue
			}
		}

		report.TotalHours += hours

		i, ok := index[sh.Employee()]
		if !ok {
			entry := EmployeeHours{EmployeeID: sh.Employee(), Name: UnknownEmployeeName}
			if employee != nil {
				entry.Name = employee.Name
				entry.Email = employee.Email
				entry.Phone = employee.Phone
			}
			report.PerEmployee = append(report.PerEmployee, entry)
			i = len(report.PerEmployee) - 1
			index[sh.Employee()] = i
		}
		report.PerEmployee[i].Hours += hours
	}

	slices.SortStableFunc(report.PerEmployee, func(a, b EmployeeHours) int {
		switch {
		case a.Hours > b.Hours:
			return -1
		case a.Hours < b.Hours:
			return 1
		}
		return 0
	})
	return report
}

// ExportRow - строка табличного отчета
type ExportRow struct {
	Name  string
	Email string
	Phone string
	Hours float64
}

// TotalRowName - название итоговой строки
const TotalRowName = "Total"

// ExportRows превращает отчет в строки таблицы с итоговой строкой в конце
func ExportRows(report HoursReport) []ExportRow {
	rows := make([]ExportRow, 0, len(report.PerEmployee)+1)
	for _, e := range report.PerEmployee {
		rows = append(rows, ExportRow{Name: e.Name, Email: e.Email, Phone: e.Phone, Hours: e.Hours})
	}
	rows = append(rows, ExportRow{Name: TotalRowName, Hours: report.TotalHours})
	return rows
}
