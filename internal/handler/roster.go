package handler

import (
	"fmt"
	"strings"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) showEmployees(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	employees := h.rosterService.Employees()
	text := service.FormatEmployees(employees)
	if len(employees) > 0 {
		text += fmt.Sprintf("\n📊 Всего: %d", len(employees))
	}
	h.reply(chatID, text)
}

// addEmployee: /addemployee имя; email; должность [; телефон]
func (h *Handler) addEmployee(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	fields := splitFields(args, ";")
	if len(fields) < 2 || len(fields) > 4 {
		h.reply(chatID, "❌ Неверный формат. Используйте: /addemployee имя; email; должность [; телефон]\nПример: /addemployee Иван Петров; ivan@mail.ru; Кассир")
		return
	}

	employee := &models.Employee{Name: fields[0], Email: fields[1]}
	if len(fields) > 2 {
		employee.Role = fields[2]
	}
	if len(fields) > 3 {
		employee.Phone = fields[3]
	}

	created, err := h.rosterService.AddEmployee(employee)
	if err != nil {
		h.replyError(chatID, "Ошибка добавления сотрудника", err)
		return
	}

	text := fmt.Sprintf("✅ Сотрудник добавлен\n\n👨‍💼 %s\n💼 %s\n📧 %s\n🆔 %s", created.Name, created.Role, created.Email, created.ID)
	if created.AccessCode != nil {
		text += fmt.Sprintf("\n\n🔑 Код доступа: %s\nСотрудник входит командой /login %s %s", *created.AccessCode, created.Email, *created.AccessCode)
	}
	h.reply(chatID, text)
}

// deleteEmployee удаляет сотрудника вместе с его сменами и отсутствиями
func (h *Handler) deleteEmployee(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	key := strings.TrimSpace(args)
	if key == "" {
		h.reply(chatID, "❌ Укажите email или id: /delemployee email")
		return
	}

	employeeID, err := h.resolveEmployee(key)
	if err != nil {
		h.replyError(chatID, "Ошибка удаления", err)
		return
	}

	if err := h.rosterService.DeleteEmployee(employeeID); err != nil {
		h.replyError(chatID, "Ошибка удаления", err)
		return
	}
	h.reply(chatID, "🗑 Сотрудник удален вместе со сменами и отсутствиями.\n⚠️ История отмены изменений сброшена.")
}

func (h *Handler) regenerateCode(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	employeeID, err := h.resolveEmployee(strings.TrimSpace(args))
	if err != nil || employeeID == "" {
		h.reply(chatID, "❌ Укажите email или id сотрудника: /newcode email")
		return
	}

	code, err := h.rosterService.RegenerateAccessCode(employeeID)
	if err != nil {
		h.replyError(chatID, "Ошибка выдачи кода", err)
		return
	}
	h.reply(chatID, "🔑 Новый код доступа: "+code)
}

func (h *Handler) startImport(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	h.userStates[chatID] = stateAwaitingImport
	h.reply(chatID, `📥 Отправьте файл XLSX со списком сотрудников.

Первая строка первого листа - заголовки колонок:
name, email, role, phone, gender

Обязательна только колонка email.`)
}

// importDocument загружает сотрудников из присланного файла
func (h *Handler) importDocument(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	url, err := h.client.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		logrus.WithError(err).Error("Failed to resolve document URL")
		h.reply(chatID, "❌ Не удалось получить файл: "+err.Error())
		return
	}

	data, err := h.download(url)
	if err != nil {
		logrus.WithError(err).Error("Failed to download document")
		h.reply(chatID, "❌ Не удалось скачать файл: "+err.Error())
		return
	}

	result, err := h.rosterService.ImportWorkbook(data)
	if err != nil {
		h.replyError(chatID, "Ошибка импорта", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Импорт завершен\n\n➕ Добавлено: %d\n⏭ Пропущено: %d", result.Added, result.Skipped))
}
