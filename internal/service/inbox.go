package service

import (
	"fmt"
	"strings"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/pkg/calendar"

	"github.com/sirupsen/logrus"
)

// InboxService - запросы на отсутствие и жалобы сотрудников
type InboxService struct {
	ws     *Workspace
	logger *logrus.Logger
}

func NewInboxService(ws *Workspace) *InboxService {
	return &InboxService{
		ws:     ws,
		logger: newLogger(),
	}
}

// SubmitAbsenceRequest создает запрос сотрудника на отсутствие
func (s *InboxService) SubmitAbsenceRequest(employeeID, absenceTypeID string, start, end time.Time, comment string) (*models.InboxMessage, error) {
	startDay := calendar.StartOfDay(start)
	endDay := calendar.StartOfDay(end)
	return s.submit(&models.InboxMessage{
		EmployeeID:    employeeID,
		Type:          models.MessageTypeAbsenceRequest,
		Subject:       "Запрос на отсутствие",
		Body:          strings.TrimSpace(comment),
		AbsenceTypeID: models.StringPtr(absenceTypeID),
		StartDate:     &startDay,
		EndDate:       &endDay,
	})
}

// SubmitComplaint создает жалобу сотрудника
func (s *InboxService) SubmitComplaint(employeeID, subject, body string) (*models.InboxMessage, error) {
	return s.submit(&models.InboxMessage{
		EmployeeID: employeeID,
		Type:       models.MessageTypeComplaint,
		Subject:    strings.TrimSpace(subject),
		Body:       strings.TrimSpace(body),
	})
}

func (s *InboxService) submit(msg *models.InboxMessage) (*models.InboxMessage, error) {
	if err := validateStruct(msg); err != nil {
		return nil, err
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		if snap.Employee(msg.EmployeeID) == nil {
			return ErrEmployeeNotFound
		}
		if msg.IsAbsenceRequest() {
			if msg.AbsenceTypeID == nil || msg.StartDate == nil || msg.EndDate == nil {
				return ErrAbsenceRequestIncomplete
			}
			if snap.AbsenceType(*msg.AbsenceTypeID) == nil {
				return ErrAbsenceTypeNotFound
			}
			if msg.EndDate.Before(*msg.StartDate) {
				return ErrInvalidDates
			}
		}

		msg.ID = models.NewID()
		msg.CompanyID = s.ws.CompanyID()
		msg.Date = s.ws.Now()
		msg.Status = models.MessageStatusPending
		if err := s.ws.repos.InboxMessages.Create(msg); err != nil {
			return fmt.Errorf("create inbox message: %w", err)
		}

		stored := *msg
		snap.InboxMessages = append(append([]*models.InboxMessage(nil), snap.InboxMessages...), &stored)
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", msg.EmployeeID).Warn("Inbox message rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"message_id":  msg.ID,
		"employee_id": msg.EmployeeID,
		"type":        msg.Type,
	}).Info("Inbox message submitted")
	return msg, nil
}

// Validate одобряет запрос на отсутствие и создает отсутствие.
// Запрос отклоняется, если на период приходится смена сотрудника.
func (s *InboxService) Validate(messageID string) (*models.Absence, error) {
	if s.ws.IsLocked() {
		return nil, engine.ErrLockedCalendar
	}

	var absence *models.Absence
	err := s.transition(messageID, models.MessageTypeAbsenceRequest, func(snap *engine.Snapshot, msg *models.InboxMessage) error {
		if msg.AbsenceTypeID == nil || msg.StartDate == nil || msg.EndDate == nil {
			return ErrAbsenceRequestIncomplete
		}
		if snap.AbsenceType(*msg.AbsenceTypeID) == nil {
			return ErrAbsenceTypeNotFound
		}
		for _, sh := range snap.ShiftsOf(msg.EmployeeID) {
			if calendar.DateInRange(sh.StartTime, *msg.StartDate, *msg.EndDate) {
				return ErrAbsenceOverlapsShift
			}
		}

		absence = &models.Absence{
			ID:            models.NewID(),
			CompanyID:     s.ws.CompanyID(),
			EmployeeID:    msg.EmployeeID,
			AbsenceTypeID: *msg.AbsenceTypeID,
			StartDate:     calendar.StartOfDay(*msg.StartDate),
			EndDate:       calendar.StartOfDay(*msg.EndDate),
		}
		if err := s.ws.repos.Absences.Create(absence); err != nil {
			return fmt.Errorf("create absence: %w", err)
		}

		msg.Status = models.MessageStatusValidated
		if err := s.ws.repos.InboxMessages.Update(msg); err != nil {
			// без смены статуса отсутствие не должно остаться в хранилище
			if derr := s.ws.repos.Absences.Delete(absence.ID); derr != nil {
				s.logger.WithError(derr).WithField("absence_id", absence.ID).Error("Failed to roll back absence")
			}
			return fmt.Errorf("update inbox message: %w", err)
		}

		snap.Absences = append(append([]*models.Absence(nil), snap.Absences...), absence)
		return nil
	})
	if err != nil {
		return nil, err
	}

	copied := *absence
	return &copied, nil
}

// Refuse отклоняет запрос на отсутствие с указанием причины
func (s *InboxService) Refuse(messageID, reason string) error {
	return s.transition(messageID, models.MessageTypeAbsenceRequest, func(snap *engine.Snapshot, msg *models.InboxMessage) error {
		msg.Status = models.MessageStatusRefused
		msg.RefusalReason = models.StringPtr(strings.TrimSpace(reason))
		if err := s.ws.repos.InboxMessages.Update(msg); err != nil {
			return fmt.Errorf("update inbox message: %w", err)
		}
		return nil
	})
}

// FollowUp отмечает жалобу как рассмотренную
func (s *InboxService) FollowUp(messageID string) error {
	return s.transition(messageID, models.MessageTypeComplaint, func(snap *engine.Snapshot, msg *models.InboxMessage) error {
		msg.Status = models.MessageStatusFollowedUp
		if err := s.ws.repos.InboxMessages.Update(msg); err != nil {
			return fmt.Errorf("update inbox message: %w", err)
		}
		return nil
	})
}

// transition проверяет общие условия перехода и вызывает apply для копии сообщения.
// Копия попадает в снимок только если apply завершился без ошибки.
func (s *InboxService) transition(messageID, messageType string, apply func(*engine.Snapshot, *models.InboxMessage) error) error {
	err := s.ws.update(func(snap *engine.Snapshot) error {
		current := snap.InboxMessage(messageID)
		if current == nil {
			return ErrMessageNotFound
		}
		if snap.Employee(current.EmployeeID) == nil {
			return ErrEmployeeNotFound
		}
		if current.Type != messageType {
			return ErrWrongMessageType
		}
		if !current.IsPending() {
			return ErrMessageNotPending
		}

		msg := *current
		if err := apply(snap, &msg); err != nil {
			return err
		}
		replaceMessage(snap, &msg)
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("message_id", messageID).Warn("Inbox transition rejected")
		return err
	}

	s.logger.WithField("message_id", messageID).Info("Inbox message processed")
	return nil
}

// Pending возвращает необработанные сообщения
func (s *InboxService) Pending() []*models.InboxMessage {
	var pending []*models.InboxMessage
	for _, m := range s.ws.Snapshot().InboxMessages {
		if m.IsPending() {
			pending = append(pending, m)
		}
	}
	return pending
}

// Messages возвращает все сообщения сотрудника
func (s *InboxService) Messages(employeeID string) []*models.InboxMessage {
	var result []*models.InboxMessage
	for _, m := range s.ws.Snapshot().InboxMessages {
		if m.EmployeeID == employeeID {
			result = append(result, m)
		}
	}
	return result
}

// Message возвращает сообщение по id
func (s *InboxService) Message(messageID string) (*models.InboxMessage, error) {
	m := s.ws.Snapshot().InboxMessage(messageID)
	if m == nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// Refresh перечитывает входящие из хранилища и возвращает сообщения,
// о которых администратор еще не получал уведомления
func (s *InboxService) Refresh() ([]*models.InboxMessage, error) {
	fresh, err := s.ws.repos.InboxMessages.GetUnnotified(s.ws.CompanyID())
	if err != nil {
		return nil, fmt.Errorf("get unnotified messages: %w", err)
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(fresh))
	for _, m := range fresh {
		ids = append(ids, m.ID)
	}
	if err := s.ws.repos.InboxMessages.MarkNotified(ids); err != nil {
		return nil, fmt.Errorf("mark messages notified: %w", err)
	}

	all, err := s.ws.repos.InboxMessages.GetByCompany(s.ws.CompanyID())
	if err != nil {
		return nil, fmt.Errorf("reload inbox: %w", err)
	}
	s.ws.modify(func(snap *engine.Snapshot) {
		snap.InboxMessages = all
	})

	s.logger.WithField("new", len(fresh)).Info("Inbox refreshed")
	return fresh, nil
}

func replaceMessage(snap *engine.Snapshot, msg *models.InboxMessage) {
	messages := append([]*models.InboxMessage(nil), snap.InboxMessages...)
	for i, m := range messages {
		if m.ID == msg.ID {
			messages[i] = msg
		}
	}
	snap.InboxMessages = messages
}

// FormatMessage форматирует сообщение для администратора
func FormatMessage(msg *models.InboxMessage, snap *engine.Snapshot) string {
	var b strings.Builder

	emoji := "📨"
	if msg.IsComplaint() {
		emoji = "📣"
	}
	fmt.Fprintf(&b, "%s %s\n", emoji, msg.Subject)
	fmt.Fprintf(&b, "👤 %s\n", snap.EmployeeName(msg.EmployeeID))
	fmt.Fprintf(&b, "📅 %s\n", msg.Date.Format("02.01.2006 15:04"))

	if msg.IsAbsenceRequest() && msg.StartDate != nil && msg.EndDate != nil {
		typeName := "?"
		if msg.AbsenceTypeID != nil {
			if t := snap.AbsenceType(*msg.AbsenceTypeID); t != nil {
				typeName = t.Name
			}
		}
		fmt.Fprintf(&b, "🏖 %s: %s - %s\n", typeName,
			msg.StartDate.Format("02.01.2006"), msg.EndDate.Format("02.01.2006"))
	}
	if msg.Body != "" {
		fmt.Fprintf(&b, "\n%s\n", msg.Body)
	}

	fmt.Fprintf(&b, "\n📌 Статус: %s", statusTitle(msg.Status))
	if msg.RefusalReason != nil && *msg.RefusalReason != "" {
		fmt.Fprintf(&b, "\n❌ Причина: %s", *msg.RefusalReason)
	}
	fmt.Fprintf(&b, "\n🆔 %s", msg.ID)
	return b.String()
}

func statusTitle(status string) string {
	switch status {
	case models.MessageStatusPending:
		return "ожидает"
	case models.MessageStatusValidated:
		return "одобрено"
	case models.MessageStatusRefused:
		return "отклонено"
	case models.MessageStatusFollowedUp:
		return "рассмотрено"
	}
	return status
}
