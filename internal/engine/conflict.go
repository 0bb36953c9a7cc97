package engine

import (
	"fmt"
	"time"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"
)

// ConflictKind - причина, по которой смену нельзя поставить
type ConflictKind string

const (
	ConflictHoliday ConflictKind = "holiday"
	ConflictAbsence ConflictKind = "absent"
	ConflictOverlap ConflictKind = "overlap"
)

// Conflict описывает препятствие для размещения смены
type Conflict struct {
	Kind         ConflictKind
	EmployeeID   string
	EmployeeName string
	Date         time.Time

	// ShiftID - смена, с которой найдено пересечение (только для ConflictOverlap)
	ShiftID string
	Detail  string
}

func (c Conflict) String() string {
	var reason string
	switch c.Kind {
	case ConflictHoliday:
		reason = "holiday"
	case ConflictAbsence:
		reason = "absent"
	case ConflictOverlap:
		reason = "overlapping shift"
	default:
		reason = string(c.Kind)
	}
	if c.Detail != "" {
		reason += " (" + c.Detail + ")"
	}
	name := c.EmployeeName
	if name == "" {
		name = c.EmployeeID
	}
	return fmt.Sprintf("%s on %s: %s", name, c.Date.Format("2006-01-02"), reason)
}

// HolidayOn возвращает праздничный день, блокирующий весь день.
// Частичные праздники не блокируют размещение.
func HolidayOn(day time.Time, snap *Snapshot) *models.SpecialDay {
	for _, sd := range snap.SpecialDays {
		if !sd.IsAllDay() || !calendar.SameDay(sd.Date, day) {
			continue
		}
		if t := snap.SpecialDayType(sd.TypeID); t != nil && t.IsHoliday {
			return sd
		}
	}
	return nil
}

// PartialHolidayOn возвращает частичный праздник на день, если он есть
func PartialHolidayOn(day time.Time, snap *Snapshot) *models.SpecialDay {
	for _, sd := range snap.SpecialDays {
		if sd.IsAllDay() || !calendar.SameDay(sd.Date, day) {
			continue
		}
		if t := snap.SpecialDayType(sd.TypeID); t != nil && t.IsHoliday {
			return sd
		}
	}
	return nil
}

// CheckPlacement проверяет, можно ли поставить сотрудника на интервал [start, end).
// Порядок проверок: праздник, отсутствие, пересечение со сменами.
// Для открытой смены (пустой employeeID) конфликтов не бывает.
func CheckPlacement(employeeID string, start, end time.Time, snap *Snapshot, excludeShiftID string) *Conflict {
	if employeeID == "" {
		return nil
	}

	conflict := func(kind ConflictKind) *Conflict {
		return &Conflict{
			Kind:         kind,
			EmployeeID:   employeeID,
			EmployeeName: snap.EmployeeName(employeeID),
			Date:         calendar.StartOfDay(start),
		}
	}

	if sd := HolidayOn(start, snap); sd != nil {
		c := conflict(ConflictHoliday)
		c.Detail = holidayName(sd, snap)
		return c
	}

	if a := snap.AbsenceOn(employeeID, start); a != nil {
		c := conflict(ConflictAbsence)
		if t := snap.AbsenceType(a.AbsenceTypeID); t != nil {
			c.Detail = t.Name
		}
		return c
	}

	for _, other := range snap.Shifts {
		if other.ID == excludeShiftID && excludeShiftID != "" {
			continue
		}
		if !other.AssignedTo(employeeID) {
			continue
		}
		if calendar.Overlaps(start, end, other.StartTime, other.EndTime) {
			c := conflict(ConflictOverlap)
			c.ShiftID = other.ID
			c.Detail = other.StartTime.Format("15:04") + "-" + other.EndTime.Format("15:04")
			return c
		}
	}

	return nil
}

func holidayName(sd *models.SpecialDay, snap *Snapshot) string {
	if sd.Name != "" {
		return sd.Name
	}
	if t := snap.SpecialDayType(sd.TypeID); t != nil {
		return t.Name
	}
	return ""
}
