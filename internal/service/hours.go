package service

import (
	"fmt"
	"slices"
	"strings"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/pkg/export"

	"github.com/sirupsen/logrus"
)

// HoursService - отчеты по отработанным часам и сводка недели
type HoursService struct {
	ws     *Workspace
	logger *logrus.Logger
}

func NewHoursService(ws *Workspace) *HoursService {
	return &HoursService{
		ws:     ws,
		logger: newLogger(),
	}
}

// Report считает часы за последние недели. На тарифе с отметками учитываются фактические часы.
func (s *HoursService) Report(filter engine.HoursFilter) (engine.HoursReport, error) {
	caps := s.ws.Capabilities()
	if !caps.CanAccessDashboard {
		return engine.HoursReport{}, ErrFeatureUnavailable
	}

	snap := s.ws.Snapshot()
	report := engine.AggregateHours(snap.Shifts, snap.Employees, filter, caps.SupportsClocking, s.ws.Now())

	s.logger.WithFields(logrus.Fields{
		"weeks":      filter.Weeks,
		"use_actual": caps.SupportsClocking,
		"employees":  len(report.PerEmployee),
		"total":      report.TotalHours,
	}).Debug("Hours report built")
	return report, nil
}

// Export строит XLSX с часами сотрудников и итоговой строкой
func (s *HoursService) Export(filter engine.HoursFilter) ([]byte, error) {
	if !s.ws.Capabilities().CanExport {
		return nil, ErrFeatureUnavailable
	}

	report, err := s.Report(filter)
	if err != nil {
		return nil, err
	}

	var rows []export.Row
	for _, r := range engine.ExportRows(report) {
		rows = append(rows, export.Row{Name: r.Name, Email: r.Email, Phone: r.Phone, Hours: r.Hours})
	}

	data, err := export.HoursWorkbook(rows)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build hours workbook")
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	s.logger.WithField("rows", len(rows)).Info("Hours exported")
	return data, nil
}

// Summary возвращает показатели текущей недели
func (s *HoursService) Summary() (engine.Summary, error) {
	if !s.ws.Capabilities().CanAccessDashboard {
		return engine.Summary{}, ErrFeatureUnavailable
	}
	return engine.WeeklySummary(s.ws.Snapshot(), s.ws.Now()), nil
}

// FormatReport форматирует отчет по часам
func FormatReport(report engine.HoursReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Часы с %s по %s\n\n",
		report.From.Format("02.01.2006"), report.To.Format("02.01.2006"))

	if len(report.PerEmployee) == 0 {
		b.WriteString("📭 Отработанных смен нет")
		return b.String()
	}

	for i, e := range report.PerEmployee {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, e.Name, formatHours(e.Hours))
	}
	fmt.Fprintf(&b, "\n⏱ Всего: %s", formatHours(report.TotalHours))
	return b.String()
}

// FormatSummary форматирует сводку недели
func FormatSummary(summary engine.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Неделя %s - %s\n\n",
		summary.WeekStart.Format("02.01"), summary.WeekEnd.Format("02.01"))
	fmt.Fprintf(&b, "📋 Смен: %d\n", summary.TotalShifts)
	fmt.Fprintf(&b, "⏱ Запланировано: %s\n", formatHours(summary.ScheduledHours))
	fmt.Fprintf(&b, "🏖 Отсутствий: %d\n", summary.Absences)
	fmt.Fprintf(&b, "🔓 Свободных смен: %d\n", summary.OpenShifts)
	fmt.Fprintf(&b, "✅ Укомплектованность: %.0f%%\n", summary.FulfilmentRate)

	if len(summary.HoursByRole) > 0 {
		b.WriteString("\n💼 По должностям:\n")
		for _, role := range sortedKeys(summary.HoursByRole) {
			fmt.Fprintf(&b, "   %s: %s\n", role, formatHours(summary.HoursByRole[role]))
		}
	}

	if len(summary.Upcoming) > 0 {
		b.WriteString("\n⏭ Ближайшие события:\n")
		for _, item := range summary.Upcoming {
			emoji := "🕒"
			if item.Kind == engine.UpcomingAbsence {
				emoji = "🏖"
			}
			fmt.Fprintf(&b, "   %s %s %s\n", emoji, item.Start.Format("02.01 15:04"), item.EmployeeName)
		}
	}
	return b.String()
}

// formatHours выводит часы как "7ч" или "7ч 30м"
func formatHours(hours float64) string {
	minutes := int(hours*60 + 0.5)
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dч", h)
	}
	return fmt.Sprintf("%dч %dм", h, m)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
