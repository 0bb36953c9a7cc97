package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shift-planner-bot/internal/service"
	"shift-planner-bot/pkg/calendar"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// absenceKind - вид отсутствия, который сотрудник может запросить командой
type absenceKind struct {
	typeName string
	title    string
	command  string
}

var (
	absenceVacation = absenceKind{typeName: "Vacation", title: "отпуск", command: "vacation"}
	absenceSick     = absenceKind{typeName: "Sick leave", title: "больничный", command: "sick"}
	absenceDayOff   = absenceKind{typeName: "Day off", title: "отгул", command: "dayoff"}
)

// startLogin привязывает аккаунт сразу или ждет email и код следующим сообщением
func (h *Handler) startLogin(message *tgbotapi.Message, args string) {
	if strings.TrimSpace(args) != "" {
		h.login(message, args)
		return
	}

	h.userStates[message.Chat.ID] = stateAwaitingLogin
	h.reply(message.Chat.ID, "🔑 Отправьте email и код доступа через пробел.\nПример: ivan@mail.ru 123456")
}

func (h *Handler) login(message *tgbotapi.Message, text string) {
	chatID := message.Chat.ID

	parts := strings.Fields(text)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /login email код")
		return
	}

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}

	employee, err := h.rosterService.Login(chatID, username, parts[0], parts[1])
	if err != nil {
		if !errors.Is(err, service.ErrInvalidAccessCode) {
			logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to link account")
		}
		h.replyError(chatID, "Ошибка входа", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Аккаунт привязан!\n\n👨‍💼 %s\n💼 %s\n\nВаши смены: /myweek", employee.Name, employee.Role))
}

func (h *Handler) logout(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if err := h.userService.Logout(chatID); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Failed to logout")
		h.reply(chatID, "❌ Ошибка выхода: "+err.Error())
		return
	}
	h.reply(chatID, "👋 Аккаунт отвязан от сотрудника")
}

func (h *Handler) showProfile(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := h.userService.GetUser(chatID)
	if err != nil {
		h.reply(chatID, "❌ Профиль не найден.\nИспользуйте /start чтобы начать работу с ботом.")
		return
	}

	// непривязанный аккаунт показываем без сотрудника
	employee, _ := h.rosterService.EmployeeForChat(chatID)
	h.reply(chatID, service.FormatUserInfo(user, employee))
}

// clockIn отмечает приход на ближайшую смену
func (h *Handler) clockIn(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	shift, err := h.clockingService.ClockInEmployee(employee.ID)
	if err != nil {
		logrus.WithError(err).WithField("employee_id", employee.ID).Warn("Clock in rejected")
		h.replyError(chatID, "Не могу отметить приход", err)
		return
	}

	response := fmt.Sprintf(`✅ Приход отмечен!

⏰ Время: %s
📅 Смена: %s - %s

💡 Не забудьте отметить уход командой /out`,
		shift.ActualStartTime.Format("15:04"),
		shift.StartTime.Format("02.01 15:04"),
		shift.EndTime.Format("15:04"),
	)

	msg := tgbotapi.NewMessage(chatID, response)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏁 Отметить уход", "command_clock_out"),
		),
	)
	if _, err := h.client.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to send clock in confirmation")
	}
}

// clockOut отмечает уход с открытой смены
func (h *Handler) clockOut(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	shift, err := h.clockingService.ClockOutEmployee(employee.ID)
	if err != nil {
		logrus.WithError(err).WithField("employee_id", employee.ID).Warn("Clock out rejected")
		h.replyError(chatID, "Не могу отметить уход", err)
		return
	}

	worked, _ := shift.ActualDuration()
	response := fmt.Sprintf(`🏁 Уход отмечен!

⏰ Приход: %s
⏰ Уход: %s
⏳ Отработано: %d ч %d мин`,
		shift.ActualStartTime.Format("15:04"),
		shift.ActualEndTime.Format("15:04"),
		int(worked.Hours()), int(worked.Minutes())%60,
	)
	h.reply(chatID, response)
}

// showStatus показывает состояние отметок по сменам сегодня
func (h *Handler) showStatus(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	today := h.shiftService.Now()
	shifts := h.shiftService.EmployeeShifts(employee.ID, today, today)
	if len(shifts) == 0 {
		h.reply(chatID, "📭 Сегодня смен нет")
		return
	}

	var b strings.Builder
	b.WriteString("📊 Статус на сегодня:\n\n")
	for _, sh := range shifts {
		b.WriteString(service.FormatStatus(sh, h.shiftService.Status(sh)))
		b.WriteString("\n")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	if active := h.clockingService.ActiveShift(employee.ID); active != nil {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🏁 Отметить уход", "command_clock_out"),
			),
		)
	} else {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⏰ Отметить приход", "command_clock_in"),
			),
		)
	}
	if _, err := h.client.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to send status")
	}
}

func (h *Handler) showMyDay(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	today := h.shiftService.Now()
	shifts := h.shiftService.EmployeeShifts(employee.ID, today, today)

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s %s\n\n", weekdayName(today), today.Format("02.01.2006"))
	if len(shifts) == 0 {
		b.WriteString("📭 Смен нет")
	}
	snap := h.shiftService.Snapshot()
	for _, sh := range shifts {
		b.WriteString(service.FormatShift(sh, snap))
		b.WriteString("\n")
	}
	if absence := snap.AbsenceOn(employee.ID, today); absence != nil {
		b.WriteString("\n🏖 Сегодня у вас отсутствие")
	}
	h.reply(chatID, b.String())
}

func (h *Handler) showMyWeek(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	day := h.shiftService.Now()
	if args = strings.TrimSpace(args); args != "" {
		parsed, err := parseDate(args, day)
		if err != nil {
			h.reply(chatID, "❌ "+err.Error())
			return
		}
		day = parsed
	}

	week := calendar.WeekOf(day)
	shifts := h.shiftService.EmployeeShifts(employee.ID, week[0], week[len(week)-1])

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 Мои смены %s - %s\n\n", week[0].Format("02.01"), week[len(week)-1].Format("02.01"))
	if len(shifts) == 0 {
		b.WriteString("📭 Смен нет")
	}
	for _, sh := range shifts {
		fmt.Fprintf(&b, "%s %s - %s\n", weekdayName(sh.StartTime), sh.StartTime.Format("02.01 15:04"), sh.EndTime.Format("15:04"))
	}
	h.reply(chatID, b.String())
}

// requestAbsence отправляет администратору запрос на отсутствие
func (h *Handler) requestAbsence(message *tgbotapi.Message, args string, kind absenceKind) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) == 0 {
		h.reply(chatID, fmt.Sprintf(`🏖️ Запрос: %s

Формат команды:
/%s дата_начала [дата_окончания] [комментарий]

Пример:
/%s 01.07.2026 14.07.2026 семейные обстоятельства`, kind.title, kind.command, kind.command))
		return
	}

	now := h.shiftService.Now()
	start, err := parseDate(parts[0], now)
	if err != nil {
		h.reply(chatID, "❌ Ошибка парсинга даты начала: "+err.Error())
		return
	}

	end := start
	rest := parts[1:]
	if len(rest) > 0 {
		if parsed, err := parseDate(rest[0], now); err == nil {
			end = parsed
			rest = rest[1:]
		}
	}

	absenceType := h.calendarService.FindAbsenceType(kind.typeName)
	if absenceType == nil {
		h.replyError(chatID, "Ошибка запроса", service.ErrAbsenceTypeNotFound)
		return
	}

	msg, err := h.inboxService.SubmitAbsenceRequest(employee.ID, absenceType.ID, start, end, strings.Join(rest, " "))
	if err != nil {
		logrus.WithError(err).WithField("employee_id", employee.ID).Warn("Absence request rejected")
		h.replyError(chatID, "Ошибка запроса", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("📨 Запрос на %s с %s по %s отправлен администратору.\nСтатус: /myrequests\n🆔 %s",
		kind.title, start.Format("02.01.2006"), end.Format("02.01.2006"), msg.ID))
}

// sendComplaint отправляет жалобу в формате "тема; текст"
func (h *Handler) sendComplaint(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	subject, body, found := strings.Cut(args, ";")
	if !found {
		body = subject
		subject = "Обращение"
	}

	msg, err := h.inboxService.SubmitComplaint(employee.ID, strings.TrimSpace(subject), strings.TrimSpace(body))
	if err != nil {
		h.replyError(chatID, "Ошибка отправки", err)
		return
	}
	h.reply(chatID, "📣 Обращение отправлено администратору\n🆔 "+msg.ID)
}

func (h *Handler) showMyRequests(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	messages := h.inboxService.Messages(employee.ID)
	if len(messages) == 0 {
		h.reply(chatID, "📭 Запросов пока нет")
		return
	}

	snap := h.shiftService.Snapshot()
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, service.FormatMessage(m, snap))
	}
	h.reply(chatID, strings.Join(parts, "\n\n"))
}

func (h *Handler) showMyAbsences(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employee, ok := h.requireEmployee(chatID)
	if !ok {
		return
	}

	h.reply(chatID, service.FormatAbsences(h.calendarService.AbsencesOf(employee.ID), h.shiftService.Snapshot()))
}

var weekdayNames = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

func weekdayName(t time.Time) string {
	return weekdayNames[calendar.WeekdayIndex(t)]
}
