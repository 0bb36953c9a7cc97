package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"

	"github.com/sirupsen/logrus"
)

type ShiftService struct {
	ws     *Workspace
	logger *logrus.Logger
}

func NewShiftService(ws *Workspace) *ShiftService {
	return &ShiftService{
		ws:     ws,
		logger: newLogger(),
	}
}

// PlaceShift создает смену или обновляет существующую
func (s *ShiftService) PlaceShift(shift *models.Shift) (*models.Shift, error) {
	m, err := s.ws.mutateShifts("place", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		return engine.PlaceShift(snap, shift, opts)
	})
	if err != nil {
		return nil, err
	}
	return firstChanged(m), nil
}

func (s *ShiftService) UpdateShift(shift *models.Shift) (*models.Shift, error) {
	m, err := s.ws.mutateShifts("update", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		return engine.UpdateShift(snap, shift, opts)
	})
	if err != nil {
		return nil, err
	}
	return firstChanged(m), nil
}

// AssignShift назначает смену сотруднику, пустой employeeID снимает назначение
func (s *ShiftService) AssignShift(shiftID, employeeID string) (*models.Shift, error) {
	m, err := s.ws.mutateShifts("assign", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		return engine.AssignShift(snap, shiftID, employeeID, opts)
	})
	if err != nil {
		return nil, err
	}
	return firstChanged(m), nil
}

func (s *ShiftService) MoveShift(shiftID string, newDay time.Time) (*models.Shift, error) {
	m, err := s.ws.mutateShifts("move", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		return engine.MoveShift(snap, shiftID, newDay, opts)
	})
	if err != nil {
		return nil, err
	}
	return firstChanged(m), nil
}

func (s *ShiftService) DeleteShift(shiftID string) error {
	_, err := s.ws.mutateShifts("delete", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		return engine.DeleteShift(snap, shiftID, opts)
	})
	return err
}

// DeleteShifts удаляет несколько смен и возвращает число удаленных
func (s *ShiftService) DeleteShifts(shiftIDs []string) (int, error) {
	m, err := s.ws.mutateShifts("delete_many", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		return engine.DeleteMany(snap, shiftIDs, opts)
	})
	if err != nil {
		return 0, err
	}
	return len(m.Deleted), nil
}

// GenerateShifts создает повторяющиеся смены. При конфликтах ничего не сохраняется.
func (s *ShiftService) GenerateShifts(req engine.GenerateRequest) (*engine.GenerateResult, error) {
	var result *engine.GenerateResult
	_, err := s.ws.mutateShifts("generate", func(snap *engine.Snapshot, opts engine.MutationOptions) (*engine.Mutation, error) {
		res, err := engine.GenerateShifts(snap, req, opts)
		if err != nil {
			return nil, err
		}
		result = res
		return res.Mutation, nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Conflicts) > 0 {
		s.logger.WithFields(logrus.Fields{
			"employees": len(req.EmployeeIDs),
			"conflicts": len(result.Conflicts),
		}).Warn("Shift generation rejected because of conflicts")
	}
	return result, nil
}

func (s *ShiftService) Lock() {
	s.ws.SetLocked(true)
}

func (s *ShiftService) Unlock() {
	s.ws.SetLocked(false)
}

func (s *ShiftService) IsLocked() bool {
	return s.ws.IsLocked()
}

// Undo отменяет последнее изменение расписания
func (s *ShiftService) Undo() (*engine.Mutation, error) {
	return s.ws.Undo()
}

// Snapshot возвращает текущий снимок данных для вывода
func (s *ShiftService) Snapshot() *engine.Snapshot {
	return s.ws.Snapshot()
}

// Now - текущее время рабочего пространства
func (s *ShiftService) Now() time.Time {
	return s.ws.Now()
}

// ShiftsOn возвращает смены, начинающиеся в указанный день, по времени начала
func (s *ShiftService) ShiftsOn(day time.Time) []*models.Shift {
	snap := s.ws.Snapshot()
	var shifts []*models.Shift
	for _, sh := range snap.Shifts {
		if calendar.SameDay(sh.StartTime, day) {
			shifts = append(shifts, sh)
		}
	}
	sortByStart(shifts)
	return shifts
}

// EmployeeShifts возвращает смены сотрудника в диапазоне дней
func (s *ShiftService) EmployeeShifts(employeeID string, from, to time.Time) []*models.Shift {
	snap := s.ws.Snapshot()
	var shifts []*models.Shift
	for _, sh := range snap.ShiftsOf(employeeID) {
		if calendar.DateInRange(sh.StartTime, from, to) {
			shifts = append(shifts, sh)
		}
	}
	sortByStart(shifts)
	return shifts
}

// DayPlan - смены и особые отметки одного дня
type DayPlan struct {
	Day            time.Time
	Shifts         []*models.Shift
	Holiday        *models.SpecialDay
	PartialHoliday *models.SpecialDay
}

// Week возвращает план недели с понедельника, содержащей day
func (s *ShiftService) Week(day time.Time) []DayPlan {
	return s.plan(calendar.WeekOf(day))
}

// Month возвращает сетку месяца из 42 дней
func (s *ShiftService) Month(day time.Time) []DayPlan {
	return s.plan(calendar.MonthGrid(day))
}

func (s *ShiftService) plan(days []time.Time) []DayPlan {
	snap := s.ws.Snapshot()
	plans := make([]DayPlan, 0, len(days))
	for _, d := range days {
		p := DayPlan{
			Day:            d,
			Holiday:        engine.HolidayOn(d, snap),
			PartialHoliday: engine.PartialHolidayOn(d, snap),
		}
		for _, sh := range snap.Shifts {
			if calendar.SameDay(sh.StartTime, d) {
				p.Shifts = append(p.Shifts, sh)
			}
		}
		sortByStart(p.Shifts)
		plans = append(plans, p)
	}
	return plans
}

// Status возвращает состояние отметок по смене
func (s *ShiftService) Status(shift *models.Shift) engine.ClockingState {
	return engine.ClockingStatus(shift, s.ws.Snapshot(), s.ws.ClockPolicy(), s.ws.Now())
}

// IsEditable - смену можно менять через редактор
func (s *ShiftService) IsEditable(shift *models.Shift) bool {
	return !s.ws.IsLocked() && !engine.IsShiftLocked(shift, s.ws.Now())
}

func firstChanged(m *engine.Mutation) *models.Shift {
	if m == nil {
		return nil
	}
	if len(m.Created) > 0 {
		return m.Created[0]
	}
	if len(m.Updated) > 0 {
		return m.Updated[0]
	}
	return nil
}

func sortByStart(shifts []*models.Shift) {
	slices.SortStableFunc(shifts, func(a, b *models.Shift) int {
		return a.StartTime.Compare(b.StartTime)
	})
}

// FormatShift форматирует смену одной строкой
func FormatShift(shift *models.Shift, snap *engine.Snapshot) string {
	name := "🔓 Свободная смена"
	if !shift.IsOpen() {
		name = "👤 " + snap.EmployeeName(shift.Employee())
	}
	text := fmt.Sprintf("%s - %s %s", shift.StartTime.Format("02.01 15:04"), shift.EndTime.Format("15:04"), name)
	if place := placeText(shift, snap); place != "" {
		text += "\n   📍 " + place
	}
	return text + "\n   🆔 " + shift.ID
}

// placeText - площадка и отдел смены через " / "
func placeText(shift *models.Shift, snap *engine.Snapshot) string {
	var parts []string
	if shift.LocationID != nil {
		if l := snap.Location(*shift.LocationID); l != nil {
			parts = append(parts, l.Name)
		}
	}
	if shift.DepartmentID != nil {
		if d := snap.Department(*shift.DepartmentID); d != nil {
			parts = append(parts, d.Name)
		}
	}
	return strings.Join(parts, " / ")
}

// FormatWeek форматирует план недели
func FormatWeek(plans []DayPlan, snap *engine.Snapshot) string {
	var b strings.Builder
	for _, p := range plans {
		fmt.Fprintf(&b, "📅 %s %s", weekdayShort(p.Day), p.Day.Format("02.01"))
		if p.Holiday != nil {
			fmt.Fprintf(&b, " 🎉 %s", p.Holiday.Name)
		} else if p.PartialHoliday != nil {
			fmt.Fprintf(&b, " ⚠️ %s (неполный день)", p.PartialHoliday.Name)
		}
		b.WriteString("\n")

		if len(p.Shifts) == 0 {
			b.WriteString("   -\n")
		}
		for _, sh := range p.Shifts {
			fmt.Fprintf(&b, "   %s\n", FormatShift(sh, snap))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatConflicts форматирует конфликты генерации
func FormatConflicts(conflicts []engine.Conflict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Найдено конфликтов: %d. Смены не созданы.\n\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(&b, "• %s %s: %s\n", c.Date.Format("02.01"), c.EmployeeName, conflictTitle(c.Kind))
	}
	return b.String()
}

func conflictTitle(kind engine.ConflictKind) string {
	switch kind {
	case engine.ConflictHoliday:
		return "праздничный день"
	case engine.ConflictAbsence:
		return "отсутствие"
	case engine.ConflictOverlap:
		return "пересечение со сменой"
	}
	return string(kind)
}

var weekdayNames = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

func weekdayShort(day time.Time) string {
	return weekdayNames[calendar.WeekdayIndex(day)]
}
