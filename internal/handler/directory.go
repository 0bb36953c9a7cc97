package handler

import (
	"strings"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) showLocations(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	var names, ids []string
	for _, l := range h.directory.Locations() {
		name := l.Name
		if l.Address != "" {
			name += " (" + l.Address + ")"
		}
		names = append(names, name)
		ids = append(ids, l.ID)
	}
	h.reply(chatID, service.FormatDirectory("Площадки", names, ids))
}

// addLocation: /addlocation название [; адрес]
func (h *Handler) addLocation(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	fields := splitFields(args, ";")
	if len(fields) > 2 || fields[0] == "" {
		h.reply(chatID, "❌ Неверный формат. Используйте: /addlocation название [; адрес]")
		return
	}
	address := ""
	if len(fields) == 2 {
		address = fields[1]
	}

	location, err := h.directory.AddLocation(fields[0], address)
	if err != nil {
		h.replyError(chatID, "Ошибка добавления площадки", err)
		return
	}
	h.reply(chatID, "✅ Площадка добавлена: "+location.Name+"\n🆔 "+location.ID)
}

func (h *Handler) deleteLocation(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	location, err := h.directory.FindLocation(strings.TrimSpace(args))
	if err == nil {
		err = h.directory.DeleteLocation(location.ID)
	}
	if err != nil {
		h.replyError(chatID, "Ошибка удаления площадки", err)
		return
	}
	h.reply(chatID, "🗑 Площадка удалена: "+location.Name)
}

func (h *Handler) showDepartments(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	var names, ids []string
	for _, d := range h.directory.Departments() {
		names = append(names, d.Name)
		ids = append(ids, d.ID)
	}
	h.reply(chatID, service.FormatDirectory("Отделы", names, ids))
}

func (h *Handler) addDepartment(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	department, err := h.directory.AddDepartment(args)
	if err != nil {
		h.replyError(chatID, "Ошибка добавления отдела", err)
		return
	}
	h.reply(chatID, "✅ Отдел добавлен: "+department.Name+"\n🆔 "+department.ID)
}

func (h *Handler) deleteDepartment(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	department, err := h.directory.FindDepartment(strings.TrimSpace(args))
	if err == nil {
		err = h.directory.DeleteDepartment(department.ID)
	}
	if err != nil {
		h.replyError(chatID, "Ошибка удаления отдела", err)
		return
	}
	h.reply(chatID, "🗑 Отдел удален: "+department.Name)
}

func (h *Handler) showRoles(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	var names, ids []string
	for _, r := range h.directory.Roles() {
		names = append(names, r.Name)
		ids = append(ids, r.ID)
	}
	h.reply(chatID, service.FormatDirectory("Должности", names, ids))
}

func (h *Handler) addRole(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	role, err := h.directory.AddRole(args)
	if err != nil {
		h.replyError(chatID, "Ошибка добавления должности", err)
		return
	}
	h.reply(chatID, "✅ Должность добавлена: "+role.Name+"\n🆔 "+role.ID)
}

func (h *Handler) deleteRole(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(chatID) {
		return
	}

	key := strings.TrimSpace(args)
	var role *models.Role
	for _, r := range h.directory.Roles() {
		if r.ID == key || models.SameName(r.Name, key) {
			role = r
		}
	}
	if role == nil {
		h.replyError(chatID, "Ошибка удаления должности", service.ErrRoleNotFound)
		return
	}

	if err := h.directory.DeleteRole(role.ID); err != nil {
		h.replyError(chatID, "Ошибка удаления должности", err)
		return
	}
	h.reply(chatID, "🗑 Должность удалена: "+role.Name)
}

// placeOption переводит loc=/dept= в id справочника.
// given=false - параметр не указан, пустой id при "-" означает "снять".
func (h *Handler) placeOption(opts map[string]string, key string) (id string, given bool, err error) {
	value, ok := opts[key]
	if !ok {
		return "", false, nil
	}
	if value == "-" {
		return "", true, nil
	}

	switch key {
	case optionLocation:
		l, err := h.directory.FindLocation(value)
		if err != nil {
			return "", true, err
		}
		return l.ID, true, nil
	default:
		d, err := h.directory.FindDepartment(value)
		if err != nil {
			return "", true, err
		}
		return d.ID, true, nil
	}
}

// applyPlace проставляет площадку и отдел смены из параметров
func (h *Handler) applyPlace(shift *models.Shift, opts map[string]string) error {
	fields := map[string]**string{
		optionLocation:   &shift.LocationID,
		optionDepartment: &shift.DepartmentID,
	}
	for key, field := range fields {
		id, given, err := h.placeOption(opts, key)
		if err != nil {
			return err
		}
		if given {
			*field = models.StringPtr(id)
		}
	}
	return nil
}

// hoursFilter разбирает аргументы отчета: [недель][; role=a,b][; dept=x,y]
func (h *Handler) hoursFilter(args string) (engine.HoursFilter, error) {
	weeksArg, segments := splitReportArgs(args)
	weeks, err := parseWeeks(weeksArg)
	if err != nil {
		return engine.HoursFilter{}, err
	}
	opts, err := parseOptions(segments, optionRole, optionDepartment)
	if err != nil {
		return engine.HoursFilter{}, err
	}

	filter := engine.HoursFilter{Weeks: weeks}
	for _, key := range splitFields(opts[optionRole], ",") {
		if key == "" {
			continue
		}
		role, err := h.directory.ResolveRole(key)
		if err != nil {
			return engine.HoursFilter{}, err
		}
		filter.RoleNames = append(filter.RoleNames, role)
	}
	for _, key := range splitFields(opts[optionDepartment], ",") {
		if key == "" {
			continue
		}
		d, err := h.directory.FindDepartment(key)
		if err != nil {
			return engine.HoursFilter{}, err
		}
		filter.DepartmentIDs = append(filter.DepartmentIDs, d.ID)
	}
	return filter, nil
}
