package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shift-planner-bot/internal/config"
	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/service"
	"shift-planner-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	stateAwaitingImport = "awaiting_import"
	stateAwaitingLogin  = "awaiting_login"
)

type Handler struct {
	client          telegram.Messenger
	userService     *service.UserService
	shiftService    *service.ShiftService
	clockingService *service.ClockingService
	rosterService   *service.RosterService
	calendarService *service.CalendarService
	inboxService    *service.InboxService
	hoursService    *service.HoursService
	directory       *service.DirectoryService
	userStates      map[int64]string
	config          *config.BotConfig
	download        func(url string) ([]byte, error)
}

func NewHandler(
	client telegram.Messenger,
	userService *service.UserService,
	shiftService *service.ShiftService,
	clockingService *service.ClockingService,
	rosterService *service.RosterService,
	calendarService *service.CalendarService,
	inboxService *service.InboxService,
	hoursService *service.HoursService,
	directory *service.DirectoryService,
	cfg *config.BotConfig,
) *Handler {
	return &Handler{
		client:          client,
		userService:     userService,
		shiftService:    shiftService,
		clockingService: clockingService,
		rosterService:   rosterService,
		calendarService: calendarService,
		inboxService:    inboxService,
		hoursService:    hoursService,
		directory:       directory,
		userStates:      make(map[int64]string),
		config:          cfg,
		download:        telegram.Download,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		// Обработка callback query (для inline кнопок)
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Удаляем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	h.client.Send(editMsg)

	fakeMessage := &tgbotapi.Message{
		MessageID: callback.Message.MessageID,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      callback.From,
	}

	switch data {
	case "command_clock_in":
		h.clockIn(fakeMessage)
	case "command_clock_out":
		h.clockOut(fakeMessage)
	case "command_undo":
		h.undo(fakeMessage)
	}

	// Кнопки обработки входящих несут id сообщения
	if id, ok := strings.CutPrefix(data, callbackValidate); ok {
		h.validateRequest(fakeMessage, id)
	} else if id, ok := strings.CutPrefix(data, callbackRefuse); ok {
		h.refuseRequest(fakeMessage, id)
	} else if id, ok := strings.CutPrefix(data, callbackFollowUp); ok {
		h.followUpComplaint(fakeMessage, id)
	}

	// Отвечаем на callback (убираем "часики" у кнопки)
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	h.client.Send(callbackConfig)
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	logrus.Infof("[%s] %s", username, message.Text)

	chatID := message.Chat.ID

	// Документ с подписью /import обрабатываем сразу
	if message.Document != nil && (h.userStates[chatID] == stateAwaitingImport || message.Caption == "/import") {
		delete(h.userStates, chatID)
		h.importDocument(message)
		return
	}

	if message.IsCommand() {
		delete(h.userStates, chatID)
		h.handleCommand(message)
		return
	}

	if state, exists := h.userStates[chatID]; exists {
		h.handleState(message, state)
		return
	}

	h.reply(chatID, "🤔 Не понимаю сообщение. Используйте /help для списка команд.")
}

func (h *Handler) handleState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	delete(h.userStates, chatID)

	switch state {
	case stateAwaitingLogin:
		h.login(message, message.Text)
	case stateAwaitingImport:
		h.reply(chatID, "❌ Ожидался файл XLSX. Отправьте /import еще раз.")
	}
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.client.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// replyError отправляет понятное пользователю описание ошибки
func (h *Handler) replyError(chatID int64, prefix string, err error) {
	h.reply(chatID, "❌ "+prefix+": "+h.errorText(err))
}

// requireAdmin проверяет права администратора и сообщает об отказе
func (h *Handler) requireAdmin(chatID int64) bool {
	isAdmin, err := h.userService.IsAdmin(chatID)
	if err != nil {
		logrus.WithError(err).Error("Error checking admin status")
		h.reply(chatID, "❌ Ошибка проверки прав доступа: "+err.Error())
		return false
	}

	if !isAdmin {
		logrus.WithField("chat_id", chatID).Warn("Unauthorized access to admin command")
		h.reply(chatID, "❌ Доступ запрещен. Эта команда только для администраторов.")
		return false
	}
	return true
}

// requireEmployee возвращает сотрудника, привязанного к чату
func (h *Handler) requireEmployee(chatID int64) (*models.Employee, bool) {
	employee, err := h.rosterService.EmployeeForChat(chatID)
	if errors.Is(err, service.ErrNotLinked) {
		h.reply(chatID, "🔗 Аккаунт не привязан к сотруднику.\nИспользуйте /login email код")
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to resolve employee")
		h.reply(chatID, "❌ Ошибка получения профиля: "+err.Error())
		return nil, false
	}
	return employee, true
}

// errorText переводит ошибки планировщика на русский
func (h *Handler) errorText(err error) string {
	var conflict *engine.ConflictError
	if errors.As(err, &conflict) {
		return conflictText(conflict.Conflict)
	}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	switch {
	case errors.Is(err, engine.ErrLockedCalendar):
		return "календарь заблокирован для изменений"
	case errors.Is(err, engine.ErrInvalidRange):
		return "неверный диапазон дат или дни недели"
	case errors.Is(err, engine.ErrNoEmployees):
		return "не выбраны сотрудники"
	case errors.Is(err, engine.ErrShiftNotFound):
		return "смена не найдена"
	case errors.Is(err, engine.ErrShiftLocked):
		return "смена уже началась или отмечена, изменить ее нельзя"
	case errors.Is(err, engine.ErrPastDay):
		return "нельзя ставить смену на прошедший день"
	case errors.Is(err, engine.ErrInvalidShift):
		return "некорректное время смены"
	case errors.Is(err, engine.ErrClockingUnsupported):
		return "отметки недоступны на текущем тарифе"
	case errors.Is(err, engine.ErrUnassignedShift):
		return "смена никому не назначена"
	case errors.Is(err, engine.ErrClockInTooEarly):
		return "слишком рано, приход можно отметить не раньше чем за " + windowText(h.clockingService.EarlyWindow()) + " до начала"
	case errors.Is(err, engine.ErrAlreadyClockedIn):
		return "приход уже отмечен"
	case errors.Is(err, engine.ErrNotClockedIn):
		return "приход еще не отмечен"
	case errors.Is(err, engine.ErrAlreadyClockedOut):
		return "уход уже отмечен"
	case errors.Is(err, engine.ErrPersistence):
		return "не удалось сохранить изменения, попробуйте позже"
	}
	return err.Error()
}

// windowText: 10m -> "10 мин."
func windowText(d time.Duration) string {
	if d%time.Minute != 0 {
		return fmt.Sprintf("%d сек.", int(d/time.Second))
	}
	return fmt.Sprintf("%d мин.", int(d/time.Minute))
}

func conflictText(c engine.Conflict) string {
	date := c.Date.Format("02.01.2006")
	switch c.Kind {
	case engine.ConflictHoliday:
		return fmt.Sprintf("%s - праздничный день (%s)", date, c.Detail)
	case engine.ConflictAbsence:
		return fmt.Sprintf("%s отсутствует %s", c.EmployeeName, date)
	case engine.ConflictOverlap:
		return fmt.Sprintf("у %s уже есть смена, пересекающаяся с этим временем %s", c.EmployeeName, date)
	}
	return c.String()
}
