package handler

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	logrus.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"command": command,
	}).Debug("Handling command")

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "helpadmin":
		h.sendAdminHelpMessage(message)

	// Аккаунт (все пользователи)
	case "login":
		h.startLogin(message, args)
	case "logout":
		h.logout(message)
	case "myprofile":
		h.showProfile(message)

	// Отметки и свои смены
	case "in":
		h.clockIn(message)
	case "out":
		h.clockOut(message)
	case "status":
		h.showStatus(message)
	case "today":
		h.showMyDay(message)
	case "myweek":
		h.showMyWeek(message, args)

	// Запросы в администрацию
	case "vacation":
		h.requestAbsence(message, args, absenceVacation)
	case "sick":
		h.requestAbsence(message, args, absenceSick)
	case "dayoff":
		h.requestAbsence(message, args, absenceDayOff)
	case "complaint":
		h.sendComplaint(message, args)
	case "myrequests":
		h.showMyRequests(message)
	case "myabsences":
		h.showMyAbsences(message)

	// Планирование смен (админы)
	case "schedule", "week":
		h.showSchedule(message, args)
	case "month":
		h.showMonth(message, args)
	case "day":
		h.showDay(message, args)
	case "addshift":
		h.addShift(message, args)
	case "editshift":
		h.editShift(message, args)
	case "assign":
		h.assignShift(message, args)
	case "moveshift":
		h.moveShift(message, args)
	case "delshift":
		h.deleteShifts(message, args)
	case "bulk":
		h.generateShifts(message, args)
	case "lock":
		h.setLocked(message, true)
	case "unlock":
		h.setLocked(message, false)
	case "undo":
		h.undo(message)

	// Сотрудники (админы)
	case "employees":
		h.showEmployees(message)
	case "addemployee":
		h.addEmployee(message, args)
	case "delemployee":
		h.deleteEmployee(message, args)
	case "newcode":
		h.regenerateCode(message, args)
	case "import":
		h.startImport(message)

	// Справочники (админы)
	case "locations":
		h.showLocations(message)
	case "addlocation":
		h.addLocation(message, args)
	case "dellocation":
		h.deleteLocation(message, args)
	case "departments":
		h.showDepartments(message)
	case "adddepartment":
		h.addDepartment(message, args)
	case "deldepartment":
		h.deleteDepartment(message, args)
	case "roles":
		h.showRoles(message)
	case "addrole":
		h.addRole(message, args)
	case "delrole":
		h.deleteRole(message, args)

	// Входящие (админы)
	case "inbox":
		h.showInbox(message)
	case "validate":
		h.validateRequest(message, args)
	case "refuse":
		h.refuseCommand(message, args)
	case "followup":
		h.followUpComplaint(message, args)

	// Календарь и отчеты (админы)
	case "addabsence":
		h.addAbsence(message, args)
	case "delabsence":
		h.deleteAbsence(message, args)
	case "absences":
		h.showAbsences(message, args)
	case "addholiday":
		h.addHoliday(message, args)
	case "delholiday":
		h.deleteHoliday(message, args)
	case "holidays":
		h.showHolidays(message, args)
	case "hours":
		h.showHours(message, args)
	case "export":
		h.exportHours(message, args)
	case "summary":
		h.showSummary(message)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	firstName := ""
	username := ""
	if message.From != nil {
		firstName = message.From.FirstName
		username = message.From.UserName
	}

	if _, err := h.userService.GetOrCreate(chatID, username, firstName); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to register user")
		h.reply(chatID, "❌ Ошибка регистрации: "+err.Error())
		return
	}

	text := fmt.Sprintf(`👋 Привет, %s!

Я бот для планирования смен.

🔗 Чтобы видеть свои смены и отмечаться, привяжите аккаунт:
/login email код

Код доступа выдает администратор.

📋 Список команд: /help`, firstName)

	h.reply(chatID, text)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := fmt.Sprintf(`📋 Доступные команды:

👤 Аккаунт:
/login email код - Привязать аккаунт к сотруднику
/logout - Отвязать аккаунт
/myprofile - Показать мой профиль

⏰ Смены и отметки:
/in - Отметить приход (не раньше чем за %s до начала)
/out - Отметить уход
/status - Состояние моих смен на сегодня
/today - Мои смены на сегодня
/myweek [дата] - Мои смены на неделю

🏖️ Запросы:
/vacation дата_начала дата_окончания [комментарий] - Запросить отпуск
    Пример: /vacation 01.07.2026 14.07.2026
/sick дата_начала дата_окончания - Сообщить о больничном
/dayoff дата - Запросить отгул
    Пример: /dayoff 15.08.2026
/complaint тема; текст - Написать администратору
/myrequests - Мои запросы и их статусы
/myabsences - Мои подтвержденные отсутствия

🛠 Утилиты:
/start - Начать работу с ботом
/help - Показать это сообщение
/helpadmin - Команды администратора`, windowText(h.clockingService.EarlyWindow()))

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendAdminHelpMessage(message *tgbotapi.Message) {
	if !h.requireAdmin(message.Chat.ID) {
		return
	}

	text := fmt.Sprintf(`👑 Команды администратора (тариф: %s)

📅 Расписание:
/schedule [дата] - План недели
/month [дата] - План месяца
/day [дата] - Смены дня
/addshift дата ЧЧ:ММ-ЧЧ:ММ [email][; loc=площадка][; dept=отдел] - Создать смену
    Пример: /addshift 05.03.2026 09:00-17:00 ivan@mail.ru; loc=Склад
/editshift id ЧЧ:ММ-ЧЧ:ММ[; loc=площадка|-][; dept=отдел|-] - Изменить смену
/assign id email|- - Назначить смену (- освобождает)
/moveshift id дата - Перенести смену на другой день
/delshift id [id ...] - Удалить смены
/bulk emails; дата_начала; дата_окончания; ЧЧ:ММ-ЧЧ:ММ; дни[; loc=...][; dept=...]
    Пример: /bulk a@mail.ru,b@mail.ru; 01.03; 31.03; 09:00-17:00; будни
/lock, /unlock - Заблокировать/разблокировать календарь
/undo - Отменить последнее изменение смен

👥 Сотрудники:
/employees - Список сотрудников
/addemployee имя; email; должность [; телефон]
/delemployee email - Удалить сотрудника со сменами и отсутствиями
/newcode email - Выдать новый код доступа
/import - Загрузить сотрудников из XLSX

📚 Справочники:
/locations, /departments, /roles - Площадки, отделы, должности
/addlocation название [; адрес] - Добавить площадку
/adddepartment название - Добавить отдел
/addrole название - Добавить должность
/dellocation, /deldepartment, /delrole id|название - Удалить запись

📥 Входящие:
/inbox - Необработанные запросы
/validate id - Подтвердить запрос на отсутствие
/refuse id [причина] - Отклонить запрос на отсутствие
/followup id - Отметить жалобу обработанной

🗓 Календарь:
/addabsence email; вид; дата_начала; дата_окончания
/delabsence id - Удалить отсутствие
/absences [дата] - Отсутствующие в день
/addholiday дата [название] [неполный] - Добавить праздник
/delholiday id - Удалить праздник
/holidays [год] - Праздники года

📊 Отчеты:
/hours [недель][; role=должности][; dept=отделы] - Часы за последние недели
    Пример: /hours 4; role=Кассир,Повар
/export [недель][; role=...][; dept=...] - Выгрузить часы в XLSX
/summary - Сводка текущей недели`, h.config.Plan)

	h.reply(message.Chat.ID, text)
}
