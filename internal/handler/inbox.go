package handler

import (
	"fmt"
	"strings"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Префиксы callback data кнопок входящих, за префиксом идет id сообщения
const (
	callbackValidate = "inbox_validate_"
	callbackRefuse   = "inbox_refuse_"
	callbackFollowUp = "inbox_followup_"
)

// inboxKeyboard - кнопки обработки сообщения
func inboxKeyboard(msg *models.InboxMessage) tgbotapi.InlineKeyboardMarkup {
	if msg.IsComplaint() {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👌 Рассмотрено", callbackFollowUp+msg.ID),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", callbackValidate+msg.ID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", callbackRefuse+msg.ID),
		),
	)
}

// sendInboxMessage отправляет сообщение администратору с кнопками обработки
func (h *Handler) sendInboxMessage(chatID int64, msg *models.InboxMessage) {
	out := tgbotapi.NewMessage(chatID, service.FormatMessage(msg, h.shiftService.Snapshot()))
	if msg.IsPending() {
		out.ReplyMarkup = inboxKeyboard(msg)
	}
	if _, err := h.client.Send(out); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"chat_id":    chatID,
			"message_id": msg.ID,
		}).Error("Failed to send inbox message")
	}
}

func (h *Handler) showInbox(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	pending := h.inboxService.Pending()
	if len(pending) == 0 {
		h.reply(chatID, "📭 Необработанных сообщений нет")
		return
	}

	h.reply(chatID, fmt.Sprintf("📥 Необработанных сообщений: %d", len(pending)))
	for _, msg := range pending {
		h.sendInboxMessage(chatID, msg)
	}
}

// validateRequest одобряет запрос на отсутствие и создает отсутствие
func (h *Handler) validateRequest(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(chatID, "❌ Укажите id запроса: /validate id")
		return
	}

	absence, err := h.inboxService.Validate(id)
	if err != nil {
		h.replyError(chatID, "Ошибка подтверждения", err)
		return
	}

	period := fmt.Sprintf("%s - %s", absence.StartDate.Format("02.01.2006"), absence.EndDate.Format("02.01.2006"))
	h.reply(chatID, "✅ Запрос одобрен, отсутствие добавлено: "+period)
	h.notifyEmployee(absence.EmployeeID, "✅ Ваш запрос на отсутствие одобрен: "+period)
}

// refuseCommand: /refuse id [причина]
func (h *Handler) refuseCommand(message *tgbotapi.Message, args string) {
	id, reason, _ := strings.Cut(strings.TrimSpace(args), " ")
	h.refuse(message, id, strings.TrimSpace(reason))
}

// refuseRequest отклоняет запрос кнопкой, без причины
func (h *Handler) refuseRequest(message *tgbotapi.Message, id string) {
	h.refuse(message, id, "")
}

func (h *Handler) refuse(message *tgbotapi.Message, id, reason string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	if id == "" {
		h.reply(chatID, "❌ Укажите id запроса: /refuse id [причина]")
		return
	}

	if err := h.inboxService.Refuse(id, reason); err != nil {
		h.replyError(chatID, "Ошибка отклонения", err)
		return
	}

	h.reply(chatID, "❌ Запрос отклонен")
	if msg, err := h.inboxService.Message(id); err == nil {
		text := "❌ Ваш запрос на отсутствие отклонен"
		if reason != "" {
			text += "\nПричина: " + reason
		}
		h.notifyEmployee(msg.EmployeeID, text)
	}
}

// followUpComplaint отмечает жалобу рассмотренной
func (h *Handler) followUpComplaint(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(chatID, "❌ Укажите id обращения: /followup id")
		return
	}

	if err := h.inboxService.FollowUp(id); err != nil {
		h.replyError(chatID, "Ошибка обработки", err)
		return
	}

	h.reply(chatID, "👌 Обращение отмечено рассмотренным")
	if msg, err := h.inboxService.Message(id); err == nil {
		h.notifyEmployee(msg.EmployeeID, "👌 Ваше обращение «"+msg.Subject+"» рассмотрено")
	}
}

// notifyEmployee пишет во все чаты, привязанные к сотруднику
func (h *Handler) notifyEmployee(employeeID, text string) {
	chats, err := h.userService.ChatsOfEmployee(employeeID)
	if err != nil {
		logrus.WithError(err).WithField("employee_id", employeeID).Warn("Failed to resolve employee chats")
		return
	}
	for _, chatID := range chats {
		h.reply(chatID, text)
	}
}

// NotifyInbox рассылает новые входящие всем администраторам
func (h *Handler) NotifyInbox(messages []*models.InboxMessage) {
	if len(messages) == 0 {
		return
	}

	admins, err := h.userService.AdminChatIDs()
	if err != nil {
		logrus.WithError(err).Error("Failed to get admin chats")
		return
	}

	for _, chatID := range admins {
		h.reply(chatID, fmt.Sprintf("🔔 Новых сообщений во входящих: %d", len(messages)))
		for _, msg := range messages {
			h.sendInboxMessage(chatID, msg)
		}
	}
}
