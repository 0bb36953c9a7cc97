package service

import (
	"fmt"
	"strings"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"
	"shift-planner-bot/pkg/weekends"

	"github.com/sirupsen/logrus"
)

// CalendarService ведет отсутствия и особые дни компании
type CalendarService struct {
	ws     *Workspace
	logger *logrus.Logger
}

func NewCalendarService(ws *Workspace) *CalendarService {
	return &CalendarService{
		ws:     ws,
		logger: newLogger(),
	}
}

// AddAbsence добавляет отсутствие сотрудника
func (s *CalendarService) AddAbsence(absence *models.Absence) (*models.Absence, error) {
	if s.ws.IsLocked() {
		return nil, engine.ErrLockedCalendar
	}
	if !s.ws.Capabilities().CanAddAbsence {
		return nil, ErrFeatureUnavailable
	}

	candidate := *absence
	var created *models.Absence
	err := s.ws.update(func(snap *engine.Snapshot) error {
		a, err := s.prepareAbsence(snap, &candidate)
		if err != nil {
			return err
		}
		if err := s.ws.repos.Absences.Create(a); err != nil {
			return fmt.Errorf("create absence: %w", err)
		}
		snap.Absences = append(append([]*models.Absence(nil), snap.Absences...), a)
		created = a
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", absence.EmployeeID).Warn("Absence not added")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": created.EmployeeID,
		"start":       created.StartDate.Format("2006-01-02"),
		"end":         created.EndDate.Format("2006-01-02"),
	}).Info("Absence added")
	copied := *created
	return &copied, nil
}

// prepareAbsence проверяет отсутствие и заполняет служебные поля
func (s *CalendarService) prepareAbsence(snap *engine.Snapshot, a *models.Absence) (*models.Absence, error) {
	if snap.Employee(a.EmployeeID) == nil {
		return nil, ErrEmployeeNotFound
	}
	if snap.AbsenceType(a.AbsenceTypeID) == nil {
		return nil, ErrAbsenceTypeNotFound
	}
	if a.StartDate.IsZero() || calendar.StartOfDay(a.EndDate).Before(calendar.StartOfDay(a.StartDate)) {
		return nil, ErrInvalidDates
	}

	a.StartDate = calendar.StartOfDay(a.StartDate)
	a.EndDate = calendar.StartOfDay(a.EndDate)
	if a.ID == "" {
		a.ID = models.NewID()
	}
	a.CompanyID = s.ws.CompanyID()
	return a, nil
}

// DeleteAbsence удаляет отсутствие
func (s *CalendarService) DeleteAbsence(absenceID string) error {
	if s.ws.IsLocked() {
		return engine.ErrLockedCalendar
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		absences := make([]*models.Absence, 0, len(snap.Absences))
		found := false
		for _, a := range snap.Absences {
			if a.ID == absenceID {
				found = true
				continue
			}
			absences = append(absences, a)
		}
		if !found {
			return fmt.Errorf("отсутствие не найдено")
		}
		if err := s.ws.repos.Absences.Delete(absenceID); err != nil {
			return fmt.Errorf("delete absence: %w", err)
		}
		snap.Absences = absences
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithField("absence_id", absenceID).Info("Absence deleted")
	return nil
}

// AbsencesOf возвращает отсутствия сотрудника по дате начала
func (s *CalendarService) AbsencesOf(employeeID string) []*models.Absence {
	var result []*models.Absence
	for _, a := range s.ws.Snapshot().Absences {
		if a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	return result
}

// AbsencesOn возвращает отсутствия, приходящиеся на день
func (s *CalendarService) AbsencesOn(day time.Time) []*models.Absence {
	var result []*models.Absence
	for _, a := range s.ws.Snapshot().Absences {
		if a.Covers(day) {
			result = append(result, a)
		}
	}
	return result
}

func (s *CalendarService) AbsenceTypes() []*models.AbsenceType {
	return s.ws.Snapshot().AbsenceTypes
}

// FindAbsenceType ищет вид отсутствия по id или названию без учета регистра
func (s *CalendarService) FindAbsenceType(key string) *models.AbsenceType {
	snap := s.ws.Snapshot()
	if t := snap.AbsenceType(key); t != nil {
		return t
	}
	for _, t := range snap.AbsenceTypes {
		if strings.EqualFold(t.Name, strings.TrimSpace(key)) {
			return t
		}
	}
	return nil
}

func (s *CalendarService) AddAbsenceType(name, color string) (*models.AbsenceType, error) {
	t := &models.AbsenceType{
		ID:        models.NewID(),
		CompanyID: s.ws.CompanyID(),
		Name:      strings.TrimSpace(name),
		Color:     color,
	}
	if t.Name == "" {
		return nil, fmt.Errorf("название не может быть пустым")
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		if err := s.ws.repos.AbsenceTypes.Create(t); err != nil {
			return fmt.Errorf("create absence type: %w", err)
		}
		snap.AbsenceTypes = append(append([]*models.AbsenceType(nil), snap.AbsenceTypes...), t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// AddSpecialDayType добавляет тип особого дня
func (s *CalendarService) AddSpecialDayType(name string, isHoliday bool) (*models.SpecialDayType, error) {
	t := &models.SpecialDayType{
		ID:        models.NewID(),
		CompanyID: s.ws.CompanyID(),
		Name:      strings.TrimSpace(name),
		IsHoliday: isHoliday,
	}
	if t.Name == "" {
		return nil, fmt.Errorf("название не может быть пустым")
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		if err := s.ws.repos.SpecialDayTypes.Create(t); err != nil {
			return fmt.Errorf("create special day type: %w", err)
		}
		snap.SpecialDayTypes = append(append([]*models.SpecialDayType(nil), snap.SpecialDayTypes...), t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"name":       t.Name,
		"is_holiday": t.IsHoliday,
	}).Info("Special day type added")
	return t, nil
}

func (s *CalendarService) SpecialDayTypes() []*models.SpecialDayType {
	return s.ws.Snapshot().SpecialDayTypes
}

// AddSpecialDay отмечает особый день
func (s *CalendarService) AddSpecialDay(day *models.SpecialDay) (*models.SpecialDay, error) {
	if s.ws.IsLocked() {
		return nil, engine.ErrLockedCalendar
	}

	candidate := *day
	if candidate.Coverage == "" {
		candidate.Coverage = models.CoverageAllDay
	}
	candidate.Date = calendar.StartOfDay(candidate.Date)
	if !candidate.IsValid() {
		return nil, fmt.Errorf("некорректный особый день")
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		if snap.SpecialDayType(candidate.TypeID) == nil {
			return ErrSpecialDayTypeNotFound
		}
		if candidate.ID == "" {
			candidate.ID = models.NewID()
		}
		candidate.CompanyID = s.ws.CompanyID()
		if err := s.ws.repos.SpecialDays.Create(&candidate); err != nil {
			return fmt.Errorf("create special day: %w", err)
		}
		stored := candidate
		snap.SpecialDays = append(append([]*models.SpecialDay(nil), snap.SpecialDays...), &stored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"date":     candidate.Date.Format("2006-01-02"),
		"coverage": candidate.Coverage,
	}).Info("Special day added")
	return &candidate, nil
}

func (s *CalendarService) DeleteSpecialDay(id string) error {
	if s.ws.IsLocked() {
		return engine.ErrLockedCalendar
	}

	return s.ws.update(func(snap *engine.Snapshot) error {
		days := make([]*models.SpecialDay, 0, len(snap.SpecialDays))
		for _, d := range snap.SpecialDays {
			if d.ID != id {
				days = append(days, d)
			}
		}
		if len(days) == len(snap.SpecialDays) {
			return fmt.Errorf("особый день не найден")
		}
		if err := s.ws.repos.SpecialDays.Delete(id); err != nil {
			return fmt.Errorf("delete special day: %w", err)
		}
		snap.SpecialDays = days
		return nil
	})
}

// SpecialDaysIn возвращает особые дни диапазона
func (s *CalendarService) SpecialDaysIn(from, to time.Time) []*models.SpecialDay {
	var result []*models.SpecialDay
	for _, d := range s.ws.Snapshot().SpecialDays {
		if calendar.DateInRange(d.Date, from, to) {
			result = append(result, d)
		}
	}
	return result
}

// LoadHolidays загружает производственный календарь в особые дни типа "Public holiday".
// Сокращенные дни становятся частичными и не блокируют смены. Возвращает число новых дней.
func (s *CalendarService) LoadHolidays(days []weekends.Day) (int, error) {
	var added int
	err := s.ws.update(func(snap *engine.Snapshot) error {
		holidayType, err := s.publicHolidayType(snap)
		if err != nil {
			return err
		}

		batch := make([]*models.SpecialDay, 0, len(days))
		for _, d := range days {
			coverage := models.CoverageAllDay
			if d.Shortened {
				coverage = models.CoveragePartial
			}
			batch = append(batch, &models.SpecialDay{
				ID:        models.NewID(),
				CompanyID: s.ws.CompanyID(),
				Date:      calendar.StartOfDay(d.Date),
				TypeID:    holidayType.ID,
				Coverage:  coverage,
				Name:      models.PublicHolidayTypeName,
			})
		}

		if added, err = s.ws.repos.SpecialDays.BulkCreate(batch); err != nil {
			return fmt.Errorf("load holidays: %w", err)
		}
		if added == 0 {
			return nil
		}

		stored, err := s.ws.repos.SpecialDays.GetByCompany(s.ws.CompanyID())
		if err != nil {
			return fmt.Errorf("reload special days: %w", err)
		}
		snap.SpecialDays = stored
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to load holidays")
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"total": len(days),
		"added": added,
	}).Info("Holiday calendar loaded")
	return added, nil
}

func (s *CalendarService) publicHolidayType(snap *engine.Snapshot) (*models.SpecialDayType, error) {
	for _, t := range snap.SpecialDayTypes {
		if t.Name == models.PublicHolidayTypeName {
			return t, nil
		}
	}

	t := &models.SpecialDayType{
		ID:        models.NewID(),
		CompanyID: s.ws.CompanyID(),
		Name:      models.PublicHolidayTypeName,
		IsHoliday: true,
	}
	if err := s.ws.repos.SpecialDayTypes.Create(t); err != nil {
		return nil, fmt.Errorf("create holiday type: %w", err)
	}
	snap.SpecialDayTypes = append(append([]*models.SpecialDayType(nil), snap.SpecialDayTypes...), t)
	return t, nil
}

// FormatAbsences форматирует отсутствия с названиями видов
func FormatAbsences(absences []*models.Absence, snap *engine.Snapshot) string {
	if len(absences) == 0 {
		return "📭 Отсутствий нет"
	}

	var b strings.Builder
	b.WriteString("🏖 Отсутствия:\n\n")
	for i, a := range absences {
		typeName := "?"
		if t := snap.AbsenceType(a.AbsenceTypeID); t != nil {
			typeName = t.Name
		}
		fmt.Fprintf(&b, "%d. %s: %s, %s - %s\n   🆔 %s\n", i+1,
			snap.EmployeeName(a.EmployeeID), typeName,
			a.StartDate.Format("02.01.2006"), a.EndDate.Format("02.01.2006"), a.ID)
	}
	return b.String()
}
