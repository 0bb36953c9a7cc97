// Package weekends разбирает производственный календарь в формате JSON
package weekends

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"shift-planner-bot/pkg/calendar"
)

// CalendarJSON - структура исходного JSON производственного календаря
type CalendarJSON struct {
	Year        int          `json:"year"`
	Months      []MonthDays  `json:"months"`
	Transitions []Transition `json:"transitions"`
}

type MonthDays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

type Transition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Day - нерабочий или сокращенный день календаря
type Day struct {
	Date time.Time `json:"date"`
	// Shortened - предпраздничный сокращенный день (отмечен "*")
	Shortened bool `json:"shortened"`
	// Transferred - перенесенный выходной (отмечен "+")
	Transferred bool `json:"transferred"`
}

// LoadFile читает календарь из файла
func LoadFile(filePath string, loc *time.Location) ([]Day, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return Parse(data, loc)
}

// Parse разбирает JSON календаря и возвращает дни в порядке месяцев
func Parse(data []byte, loc *time.Location) ([]Day, error) {
	if loc == nil {
		loc = time.Local
	}

	var cal CalendarJSON
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if cal.Year == 0 {
		return nil, fmt.Errorf("calendar year is missing")
	}

	days := []Day{}
	for _, monthData := range cal.Months {
		if monthData.Month < 1 || monthData.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", monthData.Month)
		}

		for _, dayStr := range strings.Split(monthData.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			if dayStr == "" {
				continue
			}

			entry := Day{}
			if strings.HasSuffix(dayStr, "*") {
				entry.Shortened = true
				dayStr = strings.TrimSuffix(dayStr, "*")
			}
			if strings.HasSuffix(dayStr, "+") {
				entry.Transferred = true
				dayStr = strings.TrimSuffix(dayStr, "+")
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w",
					dayStr, monthData.Month, err)
			}

			date := time.Date(cal.Year, time.Month(monthData.Month), day, 0, 0, 0, 0, loc)
			if date.Month() != time.Month(monthData.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, monthData.Month)
			}

			entry.Date = date
			days = append(days, entry)
		}
	}

	return days, nil
}

// Holidays возвращает только полные нерабочие дни
func Holidays(days []Day) []Day {
	result := []Day{}
	for _, d := range days {
		if !d.Shortened {
			result = append(result, d)
		}
	}
	return result
}

// Contains проверяет, есть ли дата в списке
func Contains(days []Day, date time.Time) bool {
	for _, d := range days {
		if calendar.SameDay(d.Date, date) {
			return true
		}
	}
	return false
}
