// Package calendar содержит функции для работы с днями, неделями и месяцами
package calendar

import (
	"fmt"
	"time"
)

// DaysInWeek - количество дней в неделе
const DaysInWeek = 7

// MonthGridDays - размер сетки месяца (6 полных недель)
const MonthGridDays = 42

// StartOfDay возвращает полночь того же дня
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay проверяет, что даты относятся к одному календарному дню
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateInRange проверяет вхождение дня в диапазон [start, end] включительно
func DateInRange(d, start, end time.Time) bool {
	day := StartOfDay(d)
	return !day.Before(StartOfDay(start)) && !day.After(StartOfDay(end))
}

// WeekdayIndex возвращает номер дня недели, где понедельник = 0, воскресенье = 6
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// StartOfWeek возвращает понедельник недели, содержащей дату
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// WeekOf возвращает 7 дней с понедельника по воскресенье
func WeekOf(t time.Time) []time.Time {
	monday := StartOfWeek(t)
	days := make([]time.Time, 0, DaysInWeek)
	for i := 0; i < DaysInWeek; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}
	return days
}

// MonthGrid возвращает 42 дня начиная с понедельника на/перед первым числом месяца
func MonthGrid(t time.Time) []time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	start := StartOfWeek(first)
	days := make([]time.Time, 0, MonthGridDays)
	for i := 0; i < MonthGridDays; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// Days перечисляет все дни диапазона [start, end] включительно
func Days(start, end time.Time) []time.Time {
	from := StartOfDay(start)
	to := StartOfDay(end)
	if to.Before(from) {
		return nil
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Overlaps проверяет строгое пересечение интервалов [aStart, aEnd) и [bStart, bEnd).
// Интервалы, касающиеся концами, не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// TimeOfDay - время суток без даты
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay разбирает время в формате ЧЧ:ММ
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("неверный формат времени %q, ожидается ЧЧ:ММ", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Of возвращает время суток из момента времени
func Of(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes возвращает количество минут от полуночи
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On переносит время суток на указанный день
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
