package engine

import (
	"slices"
	"time"

	"shift-planner-bot/pkg/calendar"
)

const upcomingLimit = 5

const (
	UpcomingShift   = "shift"
	UpcomingAbsence = "absence"
)

// UpcomingItem - ближайшая смена или отсутствие
type UpcomingItem struct {
	Kind         string
	ID           string
	EmployeeName string
	Start        time.Time
}

// Summary - показатели текущей недели
type Summary struct {
	WeekStart      time.Time
	WeekEnd        time.Time
	TotalShifts    int
	ScheduledHours float64
	Absences       int
	OpenShifts     int
	FulfilmentRate float64
	HoursByRole    map[string]float64
	Upcoming       []UpcomingItem
}

// WeeklySummary считает показатели недели с понедельника, содержащей now
func WeeklySummary(snap *Snapshot, now time.Time) Summary {
	start := calendar.StartOfWeek(now)
	end := start.AddDate(0, 0, calendar.DaysInWeek)
	s := Summary{
		WeekStart:   start,
		WeekEnd:     end.AddDate(0, 0, -1),
		HoursByRole: map[string]float64{},
	}

	assigned := 0
	for _, sh := range snap.Shifts {
		if sh.StartTime.Before(start) || !sh.StartTime.Before(end) {
			continue
		}
		s.TotalShifts++
		hours := sh.Duration().Hours()
		s.ScheduledHours += hours
		if sh.IsOpen() {
			s.OpenShifts++
			continue
		}
		assigned++
		if e := snap.Employee(sh.Employee()); e != nil && hours > 0 {
			s.HoursByRole[e.Role] += hours
		}
	}

	s.FulfilmentRate = 100
	if s.TotalShifts > 0 {
		s.FulfilmentRate = float64(assigned) / float64(s.TotalShifts) * 100
	}

	for _, a := range snap.Absences {
		if a.OverlapsDays(start, s.WeekEnd) {
			s.Absences++
		}
	}

	for _, sh := range snap.Shifts {
		if sh.StartTime.After(now) {
			name := "Open shift"
			if !sh.IsOpen() {
				name = snap.EmployeeName(sh.Employee())
			}
			s.Upcoming = append(s.Upcoming, UpcomingItem{Kind: UpcomingShift, ID: sh.ID, EmployeeName: name, Start: sh.StartTime})
		}
	}
	for _, a := range snap.Absences {
		if a.StartDate.After(now) {
			s.Upcoming = append(s.Upcoming, UpcomingItem{Kind: UpcomingAbsence, ID: a.ID, EmployeeName: snap.EmployeeName(a.EmployeeID), Start: a.StartDate})
		}
	}
	slices.SortStableFunc(s.Upcoming, func(a, b UpcomingItem) int {
		return a.Start.Compare(b.Start)
	})
	if len(s.Upcoming) > upcomingLimit {
		s.Upcoming = s.Upcoming[:upcomingLimit]
	}
	return s
}
