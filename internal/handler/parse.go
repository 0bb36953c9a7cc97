package handler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/pkg/calendar"
)

// defaultReportWeeks - период отчета по часам, если не указан
const defaultReportWeeks = 4

// parseDate разбирает дату. Без года берется год now.
func parseDate(dateStr string, now time.Time) (time.Time, error) {
	// Пробуем разные форматы
	formats := []string{
		"02.01.2006",
		"02-01-2006",
		"02.01",
		"02-01",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, now.Location()); err == nil {
			// Если указан только день и месяц, добавляем текущий год
			if !strings.Contains(format, "2006") {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("неверный формат даты. Используйте ДД.ММ.ГГГГ или ДД.ММ")
}

// parseTimeRange разбирает интервал вида 09:00-17:00
func parseTimeRange(s string) (calendar.TimeOfDay, calendar.TimeOfDay, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return calendar.TimeOfDay{}, calendar.TimeOfDay{}, fmt.Errorf("неверный интервал %q, ожидается ЧЧ:ММ-ЧЧ:ММ", s)
	}

	start, err := calendar.ParseTimeOfDay(strings.TrimSpace(from))
	if err != nil {
		return calendar.TimeOfDay{}, calendar.TimeOfDay{}, err
	}
	end, err := calendar.ParseTimeOfDay(strings.TrimSpace(to))
	if err != nil {
		return calendar.TimeOfDay{}, calendar.TimeOfDay{}, err
	}
	return start, end, nil
}

var weekdayAliases = map[string]int{
	"пн": 0, "вт": 1, "ср": 2, "чт": 3, "пт": 4, "сб": 5, "вс": 6,
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// parseWeekdays разбирает дни недели: "будни", "все", "пн,ср,пт" или "1-5" (1 - понедельник)
func parseWeekdays(s string) (engine.WeekdayMask, error) {
	var mask engine.WeekdayMask
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "будни", "weekdays":
		return engine.WeekdayMask{true, true, true, true, true}, nil
	case "все", "all":
		return engine.WeekdayMask{true, true, true, true, true, true, true}, nil
	case "выходные", "weekend":
		return engine.WeekdayMask{5: true, 6: true}, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if idx, ok := weekdayAliases[part]; ok {
			mask[idx] = true
			continue
		}

		from, to, isRange := strings.Cut(part, "-")
		if !isRange {
			to = from
		}
		first, err1 := strconv.Atoi(from)
		last, err2 := strconv.Atoi(to)
		if err1 != nil || err2 != nil || first < 1 || last > 7 || first > last {
			return engine.WeekdayMask{}, fmt.Errorf("неверные дни недели %q", part)
		}
		for d := first; d <= last; d++ {
			mask[d-1] = true
		}
	}

	if mask.Empty() {
		return engine.WeekdayMask{}, fmt.Errorf("не указаны дни недели")
	}
	return mask, nil
}

// parseWeeks разбирает число недель отчета
func parseWeeks(args string) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return defaultReportWeeks, nil
	}
	weeks, err := strconv.Atoi(args)
	if err != nil || weeks < 1 || weeks > 52 {
		return 0, fmt.Errorf("укажите число недель от 1 до 52")
	}
	return weeks, nil
}

// splitFields делит аргументы по separator и убирает пробелы по краям
func splitFields(args, separator string) []string {
	parts := strings.Split(args, separator)
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		fields = append(fields, strings.TrimSpace(p))
	}
	return fields
}

// Необязательные параметры команд вида ключ=значение
const (
	optionLocation   = "loc"
	optionDepartment = "dept"
	optionRole       = "role"
)

var optionAliases = map[string]string{
	"loc": optionLocation, "location": optionLocation, "площадка": optionLocation,
	"dept": optionDepartment, "department": optionDepartment, "отдел": optionDepartment,
	"role": optionRole, "должность": optionRole,
}

// parseOptions разбирает сегменты ключ=значение. Значение "-" сохраняется как есть.
func parseOptions(segments []string, allowed ...string) (map[string]string, error) {
	opts := make(map[string]string, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		key, value, ok := strings.Cut(seg, "=")
		name, known := optionAliases[strings.ToLower(strings.TrimSpace(key))]
		if !ok || !known || !slices.Contains(allowed, name) {
			return nil, fmt.Errorf("неизвестный параметр %q, допустимы: %s", seg, strings.Join(allowed, "=, ")+"=")
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("не указано значение параметра %s", name)
		}
		opts[name] = value
	}
	return opts, nil
}

// splitReportArgs отделяет число недель от параметров: "4; role=Кассир; dept=Кухня"
func splitReportArgs(args string) (string, []string) {
	fields := splitFields(args, ";")
	if len(fields) == 0 || strings.Contains(fields[0], "=") {
		return "", fields
	}
	return fields[0], fields[1:]
}
