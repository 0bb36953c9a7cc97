package models

import (
	"time"

	"shift-planner-bot/pkg/calendar"
)

// Absence - отсутствие сотрудника, границы включительно с точностью до дня
type Absence struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID     string    `gorm:"type:varchar(64);not null;index" json:"company_id"`
	EmployeeID    string    `gorm:"type:varchar(36);not null;index" json:"employee_id"`
	AbsenceTypeID string    `gorm:"type:varchar(36);not null" json:"absence_type_id"`
	StartDate     time.Time `gorm:"not null" json:"start_date"`
	EndDate       time.Time `gorm:"not null" json:"end_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Absence) TableName() string {
	return "absences"
}

// Covers проверяет, приходится ли день на отсутствие
func (a *Absence) Covers(day time.Time) bool {
	return calendar.DateInRange(day, a.StartDate, a.EndDate)
}

// OverlapsDays проверяет пересечение с диапазоном дней [start, end]
func (a *Absence) OverlapsDays(start, end time.Time) bool {
	return !calendar.StartOfDay(a.StartDate).After(calendar.StartOfDay(end)) &&
		!calendar.StartOfDay(a.EndDate).Before(calendar.StartOfDay(start))
}

func (a *Absence) IsValid() bool {
	return a.EmployeeID != "" &&
		a.AbsenceTypeID != "" &&
		!a.StartDate.IsZero() &&
		!calendar.StartOfDay(a.EndDate).Before(calendar.StartOfDay(a.StartDate))
}

// AbsenceType - вид отсутствия
type AbsenceType struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
	Color     string `json:"color"`
}

func (AbsenceType) TableName() string {
	return "absence_types"
}

// DefaultAbsenceTypes - виды отсутствий новой компании
func DefaultAbsenceTypes(companyID string) []*AbsenceType {
	return []*AbsenceType{
		{ID: NewID(), CompanyID: companyID, Name: "Vacation", Color: "#3b82f6"},
		{ID: NewID(), CompanyID: companyID, Name: "Sick leave", Color: "#ef4444"},
		{ID: NewID(), CompanyID: companyID, Name: "Day off", Color: "#a855f7"},
	}
}
