package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// addAbsence: /addabsence email; вид; дата_начала; дата_окончания
func (h *Handler) addAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	fields := splitFields(args, ";")
	if len(fields) < 3 || len(fields) > 4 {
		h.reply(chatID, h.absenceUsage())
		return
	}

	employeeID, err := h.resolveEmployee(fields[0])
	if err != nil || employeeID == "" {
		h.replyError(chatID, "Ошибка добавления отсутствия", service.ErrEmployeeNotFound)
		return
	}

	absenceType := h.calendarService.FindAbsenceType(fields[1])
	if absenceType == nil {
		h.reply(chatID, "❌ Вид отсутствия не найден\n\n"+h.absenceUsage())
		return
	}

	now := h.shiftService.Now()
	start, err := parseDate(fields[2], now)
	if err != nil {
		h.reply(chatID, "❌ Ошибка парсинга даты начала: "+err.Error())
		return
	}
	end := start
	if len(fields) == 4 {
		if end, err = parseDate(fields[3], now); err != nil {
			h.reply(chatID, "❌ Ошибка парсинга даты окончания: "+err.Error())
			return
		}
	}

	absence, err := h.calendarService.AddAbsence(&models.Absence{
		EmployeeID:    employeeID,
		AbsenceTypeID: absenceType.ID,
		StartDate:     start,
		EndDate:       end,
	})
	if err != nil {
		h.replyError(chatID, "Ошибка добавления отсутствия", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Отсутствие добавлено\n\n👤 %s\n🏖 %s: %s - %s\n🆔 %s",
		h.shiftService.Snapshot().EmployeeName(employeeID), absenceType.Name,
		absence.StartDate.Format("02.01.2006"), absence.EndDate.Format("02.01.2006"), absence.ID))
}

func (h *Handler) absenceUsage() string {
	var names []string
	for _, t := range h.calendarService.AbsenceTypes() {
		names = append(names, t.Name)
	}
	return "Формат: /addabsence email; вид; дата_начала [; дата_окончания]\nВиды: " + strings.Join(names, ", ")
}

func (h *Handler) deleteAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(chatID, "❌ Укажите id отсутствия: /delabsence id")
		return
	}

	if err := h.calendarService.DeleteAbsence(id); err != nil {
		h.replyError(chatID, "Ошибка удаления", err)
		return
	}
	h.reply(chatID, "🗑 Отсутствие удалено")
}

func (h *Handler) showAbsences(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	day, ok := h.dateArg(chatID, args)
	if !ok {
		return
	}
	h.reply(chatID, "📅 "+day.Format("02.01.2006")+"\n"+service.FormatAbsences(h.calendarService.AbsencesOn(day), h.shiftService.Snapshot()))
}

// addHoliday: /addholiday дата [название] [неполный]
func (h *Handler) addHoliday(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	parts := strings.Fields(args)
	if len(parts) == 0 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /addholiday дата [название] [неполный]\nПример: /addholiday 08.03 Женский день")
		return
	}

	day, err := parseDate(parts[0], h.shiftService.Now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	coverage := models.CoverageAllDay
	nameParts := parts[1:]
	if n := len(nameParts); n > 0 && strings.EqualFold(nameParts[n-1], "неполный") {
		coverage = models.CoveragePartial
		nameParts = nameParts[:n-1]
	}

	holidayType, err := h.holidayType()
	if err != nil {
		h.replyError(chatID, "Ошибка добавления праздника", err)
		return
	}

	special, err := h.calendarService.AddSpecialDay(&models.SpecialDay{
		Date:     day,
		TypeID:   holidayType.ID,
		Coverage: coverage,
		Name:     strings.Join(nameParts, " "),
	})
	if err != nil {
		h.replyError(chatID, "Ошибка добавления праздника", err)
		return
	}

	text := "🎉 Праздник добавлен: " + special.Date.Format("02.01.2006")
	if !special.IsAllDay() {
		text += " (неполный день, смены не блокируются)"
	}
	h.reply(chatID, text)
}

// holidayType возвращает праздничный тип особого дня, создавая его при необходимости
func (h *Handler) holidayType() (*models.SpecialDayType, error) {
	for _, t := range h.calendarService.SpecialDayTypes() {
		if t.IsHoliday {
			return t, nil
		}
	}
	return h.calendarService.AddSpecialDayType(models.PublicHolidayTypeName, true)
}

func (h *Handler) deleteHoliday(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(chatID, "❌ Укажите id праздника: /delholiday id")
		return
	}

	if err := h.calendarService.DeleteSpecialDay(id); err != nil {
		h.replyError(chatID, "Ошибка удаления", err)
		return
	}
	h.reply(chatID, "🗑 Праздник удален")
}

func (h *Handler) showHolidays(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	now := h.shiftService.Now()
	year := now.Year()
	if args = strings.TrimSpace(args); args != "" {
		parsed, err := strconv.Atoi(args)
		if err != nil || parsed < 1970 || parsed > 2100 {
			h.reply(chatID, "❌ Неверный год")
			return
		}
		year = parsed
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, now.Location())
	days := h.calendarService.SpecialDaysIn(from, to)
	if len(days) == 0 {
		h.reply(chatID, fmt.Sprintf("📭 Особых дней в %d году нет", year))
		return
	}

	snap := h.shiftService.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Особые дни %d:\n\n", year)
	for _, d := range days {
		typeName := ""
		if t := snap.SpecialDayType(d.TypeID); t != nil {
			typeName = t.Name
		}
		fmt.Fprintf(&b, "%s %s %s", weekdayName(d.Date), d.Date.Format("02.01"), typeName)
		if d.Name != "" {
			fmt.Fprintf(&b, " (%s)", d.Name)
		}
		if !d.IsAllDay() {
			b.WriteString(" ⏳")
		}
		fmt.Fprintf(&b, "\n   🆔 %s\n", d.ID)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) showHours(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	filter, err := h.hoursFilter(args)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	report, err := h.hoursService.Report(filter)
	if err != nil {
		h.replyError(chatID, "Ошибка отчета", err)
		return
	}
	h.reply(chatID, service.FormatReport(report))
}

// exportHours отправляет отчет по часам файлом XLSX
func (h *Handler) exportHours(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	filter, err := h.hoursFilter(args)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	data, err := h.hoursService.Export(filter)
	if err != nil {
		h.replyError(chatID, "Ошибка выгрузки", err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("hours_%s.xlsx", h.shiftService.Now().Format("2006-01-02")),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📊 Часы за последние %d нед.", filter.Weeks)
	if _, err := h.client.Send(doc); err != nil {
		logrus.WithError(err).Error("Failed to send hours export")
		h.reply(chatID, "❌ Не удалось отправить файл: "+err.Error())
	}
}

func (h *Handler) showSummary(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	summary, err := h.hoursService.Summary()
	if err != nil {
		h.replyError(chatID, "Ошибка сводки", err)
		return
	}
	h.reply(chatID, service.FormatSummary(summary))
}
