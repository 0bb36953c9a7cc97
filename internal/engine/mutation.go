package engine

import (
	"time"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"
)

// Mutation - результат изменения набора смен.
// Before остается нетронутым, чтобы вызывающий мог откатиться.
type Mutation struct {
	Before  []*models.Shift
	After   []*models.Shift
	Created []*models.Shift
	Updated []*models.Shift
	Deleted []string
}

// Empty - изменение ничего не затрагивает
func (m *Mutation) Empty() bool {
	return len(m.Created) == 0 && len(m.Updated) == 0 && len(m.Deleted) == 0
}

// MutationOptions - внешние условия изменения
type MutationOptions struct {
	// Locked - календарь закрыт для изменений
	Locked bool

	// Now - текущее время для проверки блокировки смен
	Now time.Time
}

// IsShiftLocked - смену нельзя редактировать: есть фактическая отметка или она уже закончилась
func IsShiftLocked(s *models.Shift, now time.Time) bool {
	if s.ActualStartTime != nil || s.ActualEndTime != nil {
		return true
	}
	return !now.IsZero() && s.EndTime.Before(now)
}

// PlaceShift создает новую смену или полностью обновляет существующую с тем же ID
func PlaceShift(snap *Snapshot, candidate *models.Shift, opts MutationOptions) (*Mutation, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}

	shift := candidate.Clone()
	if shift.CompanyID == "" {
		shift.CompanyID = snap.CompanyID
	}
	shift.NormalizeOvernight()
	if !shift.IsValid() {
		return nil, ErrInvalidShift
	}

	var existing *models.Shift
	if shift.ID != "" {
		existing = snap.Shift(shift.ID)
	}

	if existing != nil {
		if IsShiftLocked(existing, opts.Now) {
			return nil, ErrShiftLocked
		}
		// фактические отметки не редактируются администратором
		shift.ActualStartTime = existing.ActualStartTime
		shift.ActualEndTime = existing.ActualEndTime
	} else {
		if !opts.Now.IsZero() && calendar.StartOfDay(shift.StartTime).Before(calendar.StartOfDay(opts.Now)) {
			return nil, ErrPastDay
		}
		if shift.ID == "" {
			shift.ID = models.NewID()
		}
	}

	if c := CheckPlacement(shift.Employee(), shift.StartTime, shift.EndTime, snap, shift.ID); c != nil {
		return nil, &ConflictError{Conflict: *c}
	}

	return replaceShift(snap, shift, existing == nil), nil
}

// UpdateShift обновляет существующую смену
func UpdateShift(snap *Snapshot, shift *models.Shift, opts MutationOptions) (*Mutation, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}
	if shift.ID == "" || snap.Shift(shift.ID) == nil {
		return nil, ErrShiftNotFound
	}
	return PlaceShift(snap, shift, opts)
}

// AssignShift назначает смену сотруднику. Пустой employeeID делает смену открытой.
func AssignShift(snap *Snapshot, shiftID, employeeID string, opts MutationOptions) (*Mutation, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}
	existing := snap.Shift(shiftID)
	if existing == nil {
		return nil, ErrShiftNotFound
	}
	shift := existing.Clone()
	shift.EmployeeID = models.StringPtr(employeeID)
	return PlaceShift(snap, shift, opts)
}

// MoveShift переносит смену на другой день, сохраняя время начала и длительность.
// При любом конфликте перенос отклоняется целиком.
func MoveShift(snap *Snapshot, shiftID string, newDay time.Time, opts MutationOptions) (*Mutation, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}
	existing := snap.Shift(shiftID)
	if existing == nil {
		return nil, ErrShiftNotFound
	}
	if IsShiftLocked(existing, opts.Now) {
		return nil, ErrShiftLocked
	}

	duration := existing.Duration()
	shift := existing.Clone()
	y, m, d := newDay.Date()
	st := existing.StartTime
	shift.StartTime = time.Date(y, m, d, st.Hour(), st.Minute(), st.Second(), st.Nanosecond(), st.Location())
	shift.EndTime = shift.StartTime.Add(duration)
	if !opts.Now.IsZero() && calendar.StartOfDay(shift.StartTime).Before(calendar.StartOfDay(opts.Now)) {
		return nil, ErrPastDay
	}

	if c := CheckPlacement(shift.Employee(), shift.StartTime, shift.EndTime, snap, shift.ID); c != nil {
		return nil, &ConflictError{Conflict: *c}
	}

	return replaceShift(snap, shift, false), nil
}

// DeleteShift удаляет смену без проверки конфликтов
func DeleteShift(snap *Snapshot, shiftID string, opts MutationOptions) (*Mutation, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}
	if snap.Shift(shiftID) == nil {
		return nil, ErrShiftNotFound
	}
	return DeleteMany(snap, []string{shiftID}, opts)
}

// DeleteMany удаляет набор смен. Неизвестные идентификаторы пропускаются.
func DeleteMany(snap *Snapshot, shiftIDs []string, opts MutationOptions) (*Mutation, error) {
	if opts.Locked {
		return nil, ErrLockedCalendar
	}

	remove := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		remove[id] = true
	}

	m := &Mutation{Before: snap.Shifts}
	after := make([]*models.Shift, 0, len(snap.Shifts))
	for _, sh := range snap.Shifts {
		if remove[sh.ID] {
			m.Deleted = append(m.Deleted, sh.ID)
			continue
		}
		after = append(after, sh.Clone())
	}
	m.After = after
	return m, nil
}

// replaceShift строит новый набор смен с добавленной или замененной сменой
func replaceShift(snap *Snapshot, shift *models.Shift, created bool) *Mutation {
	m := &Mutation{Before: snap.Shifts}
	after := make([]*models.Shift, 0, len(snap.Shifts)+1)
	for _, sh := range snap.Shifts {
		if sh.ID == shift.ID {
			after = append(after, shift)
			continue
		}
		after = append(after, sh.Clone())
	}
	if created {
		after = append(after, shift)
		m.Created = []*models.Shift{shift}
	} else {
		m.Updated = []*models.Shift{shift}
	}
	m.After = after
	return m
}
