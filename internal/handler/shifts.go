package handler

import (
	"fmt"
	"strings"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// undoKeyboard - кнопка отмены под подтверждением изменения
func undoKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Отменить", "command_undo"),
		),
	)
}

// replyWithUndo отправляет подтверждение изменения смен с кнопкой отмены
func (h *Handler) replyWithUndo(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = undoKeyboard()
	if _, err := h.client.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// dateArg разбирает необязательную дату, по умолчанию сегодня
func (h *Handler) dateArg(chatID int64, args string) (time.Time, bool) {
	now := h.shiftService.Now()
	args = strings.TrimSpace(args)
	if args == "" {
		return now, true
	}

	day, err := parseDate(args, now)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return time.Time{}, false
	}
	return day, true
}

// resolveEmployee ищет сотрудника по email или id. "-" означает "без сотрудника".
func (h *Handler) resolveEmployee(key string) (string, error) {
	if key == "" || key == "-" {
		return "", nil
	}
	if e := h.rosterService.FindByEmail(key); e != nil {
		return e.ID, nil
	}
	if e, err := h.rosterService.Employee(key); err == nil {
		return e.ID, nil
	}
	return "", service.ErrEmployeeNotFound
}

func (h *Handler) showSchedule(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	day, ok := h.dateArg(chatID, args)
	if !ok {
		return
	}

	text := "🗓 План недели\n\n" + service.FormatWeek(h.shiftService.Week(day), h.shiftService.Snapshot())
	if h.shiftService.IsLocked() {
		text += "🔒 Календарь заблокирован"
	}
	h.reply(chatID, text)
}

// showMonth показывает только дни месяца со сменами или праздниками
func (h *Handler) showMonth(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	day, ok := h.dateArg(chatID, args)
	if !ok {
		return
	}

	var plans []service.DayPlan
	for _, p := range h.shiftService.Month(day) {
		if p.Day.Month() != day.Month() {
			continue
		}
		if len(p.Shifts) > 0 || p.Holiday != nil || p.PartialHoliday != nil {
			plans = append(plans, p)
		}
	}

	if len(plans) == 0 {
		h.reply(chatID, "📭 В этом месяце смен нет")
		return
	}
	h.reply(chatID, fmt.Sprintf("🗓 План на %s\n\n", day.Format("01.2006"))+service.FormatWeek(plans, h.shiftService.Snapshot()))
}

func (h *Handler) showDay(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	day, ok := h.dateArg(chatID, args)
	if !ok {
		return
	}

	shifts := h.shiftService.ShiftsOn(day)
	if len(shifts) == 0 {
		h.reply(chatID, "📭 Смен на "+day.Format("02.01.2006")+" нет")
		return
	}

	snap := h.shiftService.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s %s\n\n", weekdayName(day), day.Format("02.01.2006"))
	for _, sh := range shifts {
		b.WriteString(service.FormatShift(sh, snap))
		if !sh.IsOpen() {
			fmt.Fprintf(&b, "\n   %s", service.FormatStatus(sh, h.shiftService.Status(sh)))
		}
		b.WriteString("\n")
	}
	h.reply(chatID, b.String())
}

// addShift: /addshift дата ЧЧ:ММ-ЧЧ:ММ [email][; loc=площадка][; dept=отдел]
func (h *Handler) addShift(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	segments := splitFields(args, ";")
	parts := strings.Fields(segments[0])
	if len(parts) < 2 || len(parts) > 3 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /addshift дата ЧЧ:ММ-ЧЧ:ММ [email][; loc=площадка][; dept=отдел]\nПример: /addshift 05.03.2026 09:00-17:00 ivan@mail.ru; loc=Склад")
		return
	}
	opts, err := parseOptions(segments[1:], optionLocation, optionDepartment)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	day, err := parseDate(parts[0], h.shiftService.Now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}
	from, to, err := parseTimeRange(parts[1])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	employeeID := ""
	if len(parts) == 3 {
		if employeeID, err = h.resolveEmployee(parts[2]); err != nil {
			h.replyError(chatID, "Ошибка создания смены", err)
			return
		}
	}

	shift := &models.Shift{
		EmployeeID: models.StringPtr(employeeID),
		StartTime:  from.On(day),
		EndTime:    to.On(day),
	}
	if err := h.applyPlace(shift, opts); err != nil {
		h.replyError(chatID, "Ошибка создания смены", err)
		return
	}

	shift, err = h.shiftService.PlaceShift(shift)
	if err != nil {
		h.replyError(chatID, "Ошибка создания смены", err)
		return
	}

	h.replyWithUndo(chatID, "✅ Смена создана\n\n"+service.FormatShift(shift, h.shiftService.Snapshot()))
}

// editShift: /editshift id ЧЧ:ММ-ЧЧ:ММ[; loc=площадка|-][; dept=отдел|-]
func (h *Handler) editShift(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	segments := splitFields(args, ";")
	parts := strings.Fields(segments[0])
	if len(parts) != 2 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /editshift id ЧЧ:ММ-ЧЧ:ММ[; loc=площадка|-][; dept=отдел|-]")
		return
	}
	opts, err := parseOptions(segments[1:], optionLocation, optionDepartment)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	existing := h.shiftService.Snapshot().Shift(parts[0])
	if existing == nil {
		h.replyError(chatID, "Ошибка изменения смены", engine.ErrShiftNotFound)
		return
	}
	from, to, err := parseTimeRange(parts[1])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	changed := existing.Clone()
	changed.StartTime = from.On(existing.StartTime)
	changed.EndTime = to.On(existing.StartTime)
	if err := h.applyPlace(changed, opts); err != nil {
		h.replyError(chatID, "Ошибка изменения смены", err)
		return
	}

	shift, err := h.shiftService.UpdateShift(changed)
	if err != nil {
		h.replyError(chatID, "Ошибка изменения смены", err)
		return
	}
	h.replyWithUndo(chatID, "✏️ Смена изменена\n\n"+service.FormatShift(shift, h.shiftService.Snapshot()))
}

// assignShift: /assign id email|-
func (h *Handler) assignShift(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /assign id email (или - чтобы освободить смену)")
		return
	}

	employeeID, err := h.resolveEmployee(parts[1])
	if err != nil {
		h.replyError(chatID, "Ошибка назначения", err)
		return
	}

	shift, err := h.shiftService.AssignShift(parts[0], employeeID)
	if err != nil {
		h.replyError(chatID, "Ошибка назначения", err)
		return
	}
	h.replyWithUndo(chatID, "👤 Смена назначена\n\n"+service.FormatShift(shift, h.shiftService.Snapshot()))
}

// moveShift: /moveshift id дата
func (h *Handler) moveShift(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /moveshift id дата")
		return
	}

	day, err := parseDate(parts[1], h.shiftService.Now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	shift, err := h.shiftService.MoveShift(parts[0], day)
	if err != nil {
		h.replyError(chatID, "Ошибка переноса", err)
		return
	}
	h.replyWithUndo(chatID, "📦 Смена перенесена\n\n"+service.FormatShift(shift, h.shiftService.Snapshot()))
}

// deleteShifts: /delshift id [id ...]
func (h *Handler) deleteShifts(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	ids := strings.Fields(args)
	if len(ids) == 0 {
		h.reply(chatID, "❌ Укажите id смен: /delshift id [id ...]")
		return
	}

	if len(ids) == 1 {
		if err := h.shiftService.DeleteShift(ids[0]); err != nil {
			h.replyError(chatID, "Ошибка удаления", err)
			return
		}
		h.replyWithUndo(chatID, "🗑 Смена удалена")
		return
	}

	deleted, err := h.shiftService.DeleteShifts(ids)
	if err != nil {
		h.replyError(chatID, "Ошибка удаления", err)
		return
	}
	h.replyWithUndo(chatID, fmt.Sprintf("🗑 Удалено смен: %d из %d", deleted, len(ids)))
}

// generateShifts: /bulk emails; дата_начала; дата_окончания; ЧЧ:ММ-ЧЧ:ММ; дни[; loc=площадка][; dept=отдел]
func (h *Handler) generateShifts(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	fields := splitFields(args, ";")
	if len(fields) < 5 {
		h.reply(chatID, `❌ Неверный формат. Используйте:
/bulk emails; дата_начала; дата_окончания; ЧЧ:ММ-ЧЧ:ММ; дни[; loc=площадка][; dept=отдел]

Дни: будни, выходные, все, пн,ср,пт или 1-5
Пример: /bulk a@mail.ru,b@mail.ru; 01.03; 31.03; 09:00-17:00; будни; dept=Кухня`)
		return
	}
	opts, err := parseOptions(fields[5:], optionLocation, optionDepartment)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}
	locationID, _, err := h.placeOption(opts, optionLocation)
	if err != nil {
		h.replyError(chatID, "Ошибка генерации", err)
		return
	}
	departmentID, _, err := h.placeOption(opts, optionDepartment)
	if err != nil {
		h.replyError(chatID, "Ошибка генерации", err)
		return
	}

	var employeeIDs []string
	for _, key := range splitFields(fields[0], ",") {
		if key == "" {
			continue
		}
		id, err := h.resolveEmployee(key)
		if err != nil {
			h.reply(chatID, "❌ Сотрудник не найден: "+key)
			return
		}
		employeeIDs = append(employeeIDs, id)
	}

	now := h.shiftService.Now()
	startDate, err := parseDate(fields[1], now)
	if err != nil {
		h.reply(chatID, "❌ Ошибка парсинга даты начала: "+err.Error())
		return
	}
	endDate, err := parseDate(fields[2], now)
	if err != nil {
		h.reply(chatID, "❌ Ошибка парсинга даты окончания: "+err.Error())
		return
	}
	from, to, err := parseTimeRange(fields[3])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}
	weekdays, err := parseWeekdays(fields[4])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	result, err := h.shiftService.GenerateShifts(engine.GenerateRequest{
		EmployeeIDs:  employeeIDs,
		From:         from,
		To:           to,
		StartDate:    startDate,
		EndDate:      endDate,
		Weekdays:     weekdays,
		LocationID:   locationID,
		DepartmentID: departmentID,
	})
	if err != nil {
		h.replyError(chatID, "Ошибка генерации", err)
		return
	}

	if len(result.Conflicts) > 0 {
		h.reply(chatID, service.FormatConflicts(result.Conflicts))
		return
	}
	h.replyWithUndo(chatID, fmt.Sprintf("✅ Создано смен: %d", len(result.Created)))
}

func (h *Handler) setLocked(message *tgbotapi.Message, locked bool) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	if locked {
		h.shiftService.Lock()
		h.reply(chatID, "🔒 Календарь заблокирован. Изменения смен и отсутствий запрещены.")
		return
	}
	h.shiftService.Unlock()
	h.reply(chatID, "🔓 Календарь разблокирован")
}

// undo откатывает последнее изменение смен
func (h *Handler) undo(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	m, err := h.shiftService.Undo()
	if err != nil {
		h.replyError(chatID, "Ошибка отмены", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("↩️ Изменение отменено (создано: %d, изменено: %d, удалено: %d)",
		len(m.Created), len(m.Updated), len(m.Deleted)))
}
