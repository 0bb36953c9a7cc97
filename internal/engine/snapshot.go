// Package engine проверяет и применяет изменения расписания смен.
// Все функции работают над явной копией данных компании и ничего не сохраняют.
package engine

import (
	"time"

	"shift-planner-bot/internal/models"
)

// Snapshot - данные одной компании в памяти
type Snapshot struct {
	CompanyID       string
	Shifts          []*models.Shift
	Absences        []*models.Absence
	AbsenceTypes    []*models.AbsenceType
	SpecialDays     []*models.SpecialDay
	SpecialDayTypes []*models.SpecialDayType
	Employees       []*models.Employee
	InboxMessages   []*models.InboxMessage
	Locations       []*models.Location
	Departments     []*models.Department
	Roles           []*models.Role
}

// Clone копирует снимок. Смены копируются глубоко, остальные коллекции - поверхностно.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Shifts = CloneShifts(s.Shifts)
	c.Absences = append([]*models.Absence(nil), s.Absences...)
	c.AbsenceTypes = append([]*models.AbsenceType(nil), s.AbsenceTypes...)
	c.SpecialDays = append([]*models.SpecialDay(nil), s.SpecialDays...)
	c.SpecialDayTypes = append([]*models.SpecialDayType(nil), s.SpecialDayTypes...)
	c.Employees = append([]*models.Employee(nil), s.Employees...)
	c.InboxMessages = append([]*models.InboxMessage(nil), s.InboxMessages...)
	c.Locations = append([]*models.Location(nil), s.Locations...)
	c.Departments = append([]*models.Department(nil), s.Departments...)
	c.Roles = append([]*models.Role(nil), s.Roles...)
	return &c
}

// WithShifts возвращает копию снимка с другим набором смен
func (s *Snapshot) WithShifts(shifts []*models.Shift) *Snapshot {
	c := *s
	c.Shifts = shifts
	return &c
}

// CloneShifts глубоко копирует набор смен
func CloneShifts(shifts []*models.Shift) []*models.Shift {
	if shifts == nil {
		return nil
	}
	out := make([]*models.Shift, len(shifts))
	for i, sh := range shifts {
		out[i] = sh.Clone()
	}
	return out
}

func (s *Snapshot) Shift(id string) *models.Shift {
	for _, sh := range s.Shifts {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

func (s *Snapshot) Employee(id string) *models.Employee {
	for _, e := range s.Employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// EmployeeName возвращает имя сотрудника или его идентификатор
func (s *Snapshot) EmployeeName(id string) string {
	if e := s.Employee(id); e != nil {
		return e.Name
	}
	return id
}

func (s *Snapshot) SpecialDayType(id string) *models.SpecialDayType {
	for _, t := range s.SpecialDayTypes {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Snapshot) AbsenceType(id string) *models.AbsenceType {
	for _, t := range s.AbsenceTypes {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Snapshot) InboxMessage(id string) *models.InboxMessage {
	for _, m := range s.InboxMessages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// ShiftsOf возвращает смены сотрудника
func (s *Snapshot) ShiftsOf(employeeID string) []*models.Shift {
	var out []*models.Shift
	for _, sh := range s.Shifts {
		if sh.AssignedTo(employeeID) {
			out = append(out, sh)
		}
	}
	return out
}

// AbsenceOn возвращает отсутствие сотрудника, покрывающее день
func (s *Snapshot) AbsenceOn(employeeID string, day time.Time) *models.Absence {
	for _, a := range s.Absences {
		if a.EmployeeID == employeeID && a.Covers(day) {
			return a
		}
	}
	return nil
}

func (s *Snapshot) Location(id string) *models.Location {
	for _, l := range s.Locations {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *Snapshot) Department(id string) *models.Department {
	for _, d := range s.Departments {
		if d.ID == id {
			return d
		}
	}
	return nil
}
