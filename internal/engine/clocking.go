package engine

import (
	"time"

	"shift-planner-bot/internal/models"
)

// ClockingState - состояние отметок по смене
type ClockingState string

const (
	StateFuture     ClockingState = "future"
	StateNotClocked ClockingState = "not-clocked-in"
	StateAbsent     ClockingState = "absent"
	StatePresent    ClockingState = "present"
	StateClosed     ClockingState = "closed"
)

const (
	DefaultEarlyWindow    = 10 * time.Minute
	DefaultAutoCloseGrace = 30 * time.Minute
)

// ClockPolicy - правила отметок для тарифа компании
type ClockPolicy struct {
	Capabilities models.Capabilities

	// EarlyWindow - насколько раньше начала смены можно отметить приход
	EarlyWindow time.Duration

	// AutoCloseGrace - через сколько после окончания смена закрывается автоматически
	AutoCloseGrace time.Duration
}

// DefaultClockPolicy возвращает правила со стандартными интервалами
func DefaultClockPolicy(caps models.Capabilities) ClockPolicy {
	return ClockPolicy{
		Capabilities:   caps,
		EarlyWindow:    DefaultEarlyWindow,
		AutoCloseGrace: DefaultAutoCloseGrace,
	}
}

// ClockingStatus вычисляет состояние смены на момент now
func ClockingStatus(shift *models.Shift, snap *Snapshot, policy ClockPolicy, now time.Time) ClockingState {
	if !policy.Capabilities.SupportsClocking || shift.IsOpen() {
		return StateFuture
	}
	if shift.IsClosed() {
		return StateClosed
	}
	if snap != nil && snap.AbsenceOn(shift.Employee(), shift.StartTime) != nil {
		return StateAbsent
	}
	if shift.HasClockedIn() {
		return StatePresent
	}
	if !now.Before(shift.StartTime) {
		return StateNotClocked
	}
	return StateFuture
}

// ClockIn отмечает приход и возвращает обновленную копию смены
func ClockIn(shift *models.Shift, policy ClockPolicy, now time.Time) (*models.Shift, error) {
	if !policy.Capabilities.SupportsClocking {
		return nil, ErrClockingUnsupported
	}
	if shift.IsOpen() {
		return nil, ErrUnassignedShift
	}
	if shift.HasClockedIn() {
		return nil, ErrAlreadyClockedIn
	}
	if now.Before(shift.StartTime.Add(-policy.EarlyWindow)) {
		return nil, ErrClockInTooEarly
	}

	updated := shift.Clone()
	updated.ActualStartTime = &now
	return updated, nil
}

// ClockOut отмечает уход и возвращает обновленную копию смены
func ClockOut(shift *models.Shift, policy ClockPolicy, now time.Time) (*models.Shift, error) {
	if !policy.Capabilities.SupportsClocking {
		return nil, ErrClockingUnsupported
	}
	if shift.IsOpen() {
		return nil, ErrUnassignedShift
	}
	if !shift.HasClockedIn() {
		return nil, ErrNotClockedIn
	}
	if shift.ActualEndTime != nil {
		return nil, ErrAlreadyClockedOut
	}

	updated := shift.Clone()
	updated.ActualEndTime = &now
	return updated, nil
}

// NeedsAutoClose - сотрудник отметил приход, не отметил уход, и запас после окончания истек
func NeedsAutoClose(shift *models.Shift, policy ClockPolicy, now time.Time) bool {
	return shift.ActualStartTime != nil &&
		shift.ActualEndTime == nil &&
		now.After(shift.EndTime.Add(policy.AutoCloseGrace))
}

// AutoCloseSweep возвращает копии смен, закрытых по плановому окончанию.
// Уже закрытые смены не затрагиваются, поэтому повторный запуск ничего не меняет.
func AutoCloseSweep(shifts []*models.Shift, policy ClockPolicy, now time.Time) []*models.Shift {
	if !policy.Capabilities.SupportsClocking {
		return nil
	}

	var closed []*models.Shift
	for _, sh := range shifts {
		if !NeedsAutoClose(sh, policy, now) {
			continue
		}
		updated := sh.Clone()
		end := sh.EndTime
		updated.ActualEndTime = &end
		closed = append(closed, updated)
	}
	return closed
}
