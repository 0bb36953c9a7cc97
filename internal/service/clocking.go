package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"

	"github.com/sirupsen/logrus"
)

type ClockingService struct {
	ws     *Workspace
	logger *logrus.Logger
}

func NewClockingService(ws *Workspace) *ClockingService {
	return &ClockingService{
		ws:     ws,
		logger: newLogger(),
	}
}

// EarlyWindow - насколько раньше начала можно отметить приход
func (s *ClockingService) EarlyWindow() time.Duration {
	return s.ws.ClockPolicy().EarlyWindow
}

// ClockInEmployee отмечает приход на ближайшую смену сотрудника
func (s *ClockingService) ClockInEmployee(employeeID string) (*models.Shift, error) {
	if !s.ws.Capabilities().SupportsClocking {
		return nil, engine.ErrClockingUnsupported
	}

	shift := s.clockInCandidate(employeeID)
	if shift == nil {
		if s.hasUpcomingShiftToday(employeeID) {
			return nil, engine.ErrClockInTooEarly
		}
		s.logger.WithField("employee_id", employeeID).Warn("No shift to clock in")
		return nil, ErrNoShiftToClock
	}
	return s.ClockIn(shift.ID)
}

// ClockOutEmployee отмечает уход с открытой смены сотрудника
func (s *ClockingService) ClockOutEmployee(employeeID string) (*models.Shift, error) {
	if !s.ws.Capabilities().SupportsClocking {
		return nil, engine.ErrClockingUnsupported
	}

	shift := s.ActiveShift(employeeID)
	if shift == nil {
		s.logger.WithField("employee_id", employeeID).Warn("No shift to clock out")
		return nil, ErrNoShiftToClock
	}
	return s.ClockOut(shift.ID)
}

// ClockIn отмечает приход на смену
func (s *ClockingService) ClockIn(shiftID string) (*models.Shift, error) {
	var clocked *models.Shift
	err := s.ws.update(func(snap *engine.Snapshot) error {
		shift := snap.Shift(shiftID)
		if shift == nil {
			return engine.ErrShiftNotFound
		}

		updated, err := engine.ClockIn(shift, s.ws.ClockPolicy(), s.ws.Now())
		if err != nil {
			return err
		}
		if err := s.ws.repos.Shifts.SetActualStart(shiftID, *updated.ActualStartTime); err != nil {
			return &engine.PersistenceError{Op: "clock_in", Err: err}
		}

		replaceShift(snap, updated)
		clocked = updated
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("shift_id", shiftID).Warn("Clock in rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"shift_id":    shiftID,
		"employee_id": clocked.Employee(),
		"at":          clocked.ActualStartTime.Format("15:04"),
	}).Info("Employee clocked in")
	return clocked.Clone(), nil
}

// ClockOut отмечает уход со смены
func (s *ClockingService) ClockOut(shiftID string) (*models.Shift, error) {
	var clocked *models.Shift
	err := s.ws.update(func(snap *engine.Snapshot) error {
		shift := snap.Shift(shiftID)
		if shift == nil {
			return engine.ErrShiftNotFound
		}

		updated, err := engine.ClockOut(shift, s.ws.ClockPolicy(), s.ws.Now())
		if err != nil {
			return err
		}
		if err := s.ws.repos.Shifts.SetActualEnd(shiftID, *updated.ActualEndTime); err != nil {
			return &engine.PersistenceError{Op: "clock_out", Err: err}
		}

		replaceShift(snap, updated)
		clocked = updated
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("shift_id", shiftID).Warn("Clock out rejected")
		return nil, err
	}

	worked, _ := clocked.ActualDuration()
	s.logger.WithFields(logrus.Fields{
		"shift_id":    shiftID,
		"employee_id": clocked.Employee(),
		"worked":      worked.String(),
	}).Info("Employee clocked out")
	return clocked.Clone(), nil
}

// AutoClockOut закрывает смены, по которым забыли отметить уход.
// Смена закрывается плановым окончанием. Возвращает число закрытых смен.
func (s *ClockingService) AutoClockOut() (int, error) {
	policy := s.ws.ClockPolicy()
	if !policy.Capabilities.SupportsClocking {
		return 0, nil
	}

	candidates := engine.AutoCloseSweep(s.ws.Snapshot().Shifts, policy, s.ws.Now())
	var errs []error
	closed := 0

	for _, sh := range candidates {
		ok, err := s.ws.repos.Shifts.AutoClose(sh.ID, sh.EndTime)
		if err != nil {
			errs = append(errs, fmt.Errorf("auto close %s: %w", sh.ID, err))
			continue
		}

		if !ok {
			// уход успели отметить вручную, берем версию из хранилища
			if err := s.reloadShift(sh.ID); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		end := *sh.ActualEndTime
		s.ws.modify(func(snap *engine.Snapshot) {
			current := snap.Shift(sh.ID)
			if current == nil || current.ActualEndTime != nil {
				return
			}
			updated := current.Clone()
			updated.ActualEndTime = &end
			replaceShift(snap, updated)
		})
		closed++
	}

	if closed > 0 {
		s.logger.WithField("closed", closed).Info("Shifts closed automatically")
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.WithError(err).Error("Auto clock-out finished with errors")
		return closed, err
	}
	return closed, nil
}

func (s *ClockingService) reloadShift(id string) error {
	fresh, err := s.ws.repos.Shifts.GetByID(id)
	if err != nil {
		return fmt.Errorf("reload shift %s: %w", id, err)
	}
	if fresh == nil {
		return nil
	}
	s.ws.modify(func(snap *engine.Snapshot) {
		replaceShift(snap, fresh)
	})
	return nil
}

// ActiveShift возвращает смену, на которой сотрудник сейчас отмечен
func (s *ClockingService) ActiveShift(employeeID string) *models.Shift {
	for _, sh := range s.ws.Snapshot().ShiftsOf(employeeID) {
		if sh.HasClockedIn() && sh.ActualEndTime == nil {
			return sh
		}
	}
	return nil
}

// clockInCandidate - самая ранняя смена, на которую уже можно отметить приход
func (s *ClockingService) clockInCandidate(employeeID string) *models.Shift {
	policy := s.ws.ClockPolicy()
	now := s.ws.Now()

	var best *models.Shift
	for _, sh := range s.ws.Snapshot().ShiftsOf(employeeID) {
		if sh.HasClockedIn() || !now.Before(sh.EndTime) {
			continue
		}
		if now.Before(sh.StartTime.Add(-policy.EarlyWindow)) {
			continue
		}
		if best == nil || sh.StartTime.Before(best.StartTime) {
			best = sh
		}
	}
	return best
}

// hasUpcomingShiftToday - сегодня еще будет смена, но окно прихода пока не открылось
func (s *ClockingService) hasUpcomingShiftToday(employeeID string) bool {
	now := s.ws.Now()
	for _, sh := range s.ws.Snapshot().ShiftsOf(employeeID) {
		if !sh.HasClockedIn() && now.Before(sh.StartTime) && calendar.SameDay(sh.StartTime, now) {
			return true
		}
	}
	return false
}

// FormatStatus форматирует смену с ее состоянием отметок
func FormatStatus(shift *models.Shift, state engine.ClockingState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s - %s", stateEmoji(state),
		shift.StartTime.Format("02.01 15:04"),
		shift.EndTime.Format("15:04"))

	if shift.ActualStartTime != nil {
		fmt.Fprintf(&b, "\n   ⏰ Приход: %s", shift.ActualStartTime.Format("15:04"))
	}
	if shift.ActualEndTime != nil {
		fmt.Fprintf(&b, "\n   🏁 Уход: %s", shift.ActualEndTime.Format("15:04"))
	}
	return b.String()
}

func stateEmoji(state engine.ClockingState) string {
	switch state {
	case engine.StatePresent:
		return "🟢"
	case engine.StateClosed:
		return "✅"
	case engine.StateAbsent:
		return "🏖"
	case engine.StateNotClocked:
		return "🔴"
	default:
		return "🕒"
	}
}
