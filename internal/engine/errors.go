package engine

import (
	"errors"
	"fmt"
)

var (
	ErrLockedCalendar      = errors.New("calendar is locked")
	ErrInvalidRange        = errors.New("invalid range")
	ErrNoEmployees         = errors.New("no employees selected")
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftLocked         = errors.New("shift is locked for editing")
	ErrPastDay             = errors.New("cannot place a shift on a past day")
	ErrInvalidShift        = errors.New("invalid shift")
	ErrClockingUnsupported = errors.New("clocking is not supported by the plan")
	ErrUnassignedShift     = errors.New("shift is not assigned")
	ErrClockInTooEarly     = errors.New("too early to clock in")
	ErrAlreadyClockedIn    = errors.New("already clocked in")
	ErrNotClockedIn        = errors.New("not clocked in")
	ErrAlreadyClockedOut   = errors.New("already clocked out")
	ErrPersistence         = errors.New("persistence failure")
)

// ConflictError - отказ в операции из-за конфликта
type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Conflict.String()
}

// PersistenceError - ошибка записи в хранилище
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
