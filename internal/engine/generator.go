package engine

import (
	"time"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"
)

// WeekdayMask - выбранные дни недели, понедельник = 0
type WeekdayMask [7]bool

// Empty - ни один день не выбран
func (m WeekdayMask) Empty() bool {
	for _, v := range m {
		if v {
			return false
		}
	}
	return true
}

// Has проверяет, выбран ли день недели даты
func (m WeekdayMask) Has(t time.Time) bool {
	return m[calendar.WeekdayIndex(t)]
}

// GenerateRequest - запрос на создание повторяющихся смен
type GenerateRequest struct {
	EmployeeIDs  []string
	From         calendar.TimeOfDay
	To           calendar.TimeOfDay
	StartDate    time.Time
	EndDate      time.Time
	Weekdays     WeekdayMask
	LocationID   string
	DepartmentID string
}

// GenerateResult - результат генерации. При конфликтах Created пуст.
type GenerateResult struct {
	Created   []*models.Shift
	Conflicts []Conflict
	Mutation  *Mutation
}

// GenerateShifts разворачивает запрос в смены для каждого сотрудника и выбранного дня.
// Если хотя бы один кандидат конфликтует, не создается ни одной смены,
// а в результате перечисляются все найденные конфликты.
// Пакет, начинающийся в прошедшем дне, отклоняется до проверки конфликтов.
func GenerateShifts(snap *Snapshot, req GenerateRequest, opts MutationOptions) (*GenerateResult, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}
	if calendar.StartOfDay(req.EndDate).Before(calendar.StartOfDay(req.StartDate)) || req.Weekdays.Empty() {
		return nil, ErrInvalidRange
	}

	var days []time.Time
	for _, d := range calendar.Days(req.StartDate, req.EndDate) {
		if req.Weekdays.Has(d) {
			days = append(days, d)
		}
	}
	if len(days) > 0 && !opts.Now.IsZero() && calendar.StartOfDay(days[0]).Before(calendar.StartOfDay(opts.Now)) {
		return nil, ErrPastDay
	}

	// неизвестные и повторяющиеся сотрудники пропускаются
	var employees []string
	seen := map[string]bool{}
	for _, employeeID := range req.EmployeeIDs {
		if seen[employeeID] || snap.Employee(employeeID) == nil {
			continue
		}
		seen[employeeID] = true
		employees = append(employees, employeeID)
	}
	if len(employees) == 0 {
		return nil, ErrNoEmployees
	}

	// кандидаты проверяются и против уже принятых кандидатов пакета
	working := snap.WithShifts(append([]*models.Shift(nil), snap.Shifts...))
	result := &GenerateResult{}
	var created []*models.Shift

	for _, employeeID := range employees {
		for _, day := range days {
			shift := &models.Shift{
				ID:           models.NewID(),
				CompanyID:    snap.CompanyID,
				EmployeeID:   models.StringPtr(employeeID),
				StartTime:    req.From.On(day),
				EndTime:      req.To.On(day),
				LocationID:   models.StringPtr(req.LocationID),
				DepartmentID: models.StringPtr(req.DepartmentID),
			}
			shift.NormalizeOvernight()

			if c := CheckPlacement(employeeID, shift.StartTime, shift.EndTime, working, ""); c != nil {
				c.Date = calendar.StartOfDay(day)
				result.Conflicts = append(result.Conflicts, *c)
				continue
			}

			created = append(created, shift)
			working.Shifts = append(working.Shifts, shift)
		}
	}

	if len(result.Conflicts) > 0 {
		return result, nil
	}

	after := CloneShifts(snap.Shifts)
	after = append(after, created...)
	result.Created = created
	result.Mutation = &Mutation{
		Before:  snap.Shifts,
		After:   after,
		Created: created,
	}
	return result, nil
}
