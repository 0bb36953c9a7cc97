package models

import (
	"time"
)

// Shift - смена сотрудника. Без EmployeeID смена считается открытой.
type Shift struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID       string     `gorm:"type:varchar(64);not null;index" json:"company_id"`
	EmployeeID      *string    `gorm:"type:varchar(36);index" json:"employee_id,omitempty"`
	StartTime       time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time  `gorm:"not null" json:"end_time"`
	LocationID      *string    `gorm:"type:varchar(36)" json:"location_id,omitempty"`
	DepartmentID    *string    `gorm:"type:varchar(36);index" json:"department_id,omitempty"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `gorm:"index" json:"actual_end_time,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}

// IsOpen - смена никому не назначена
func (s *Shift) IsOpen() bool {
	return s.EmployeeID == nil || *s.EmployeeID == ""
}

// AssignedTo проверяет, назначена ли смена сотруднику
func (s *Shift) AssignedTo(employeeID string) bool {
	return !s.IsOpen() && *s.EmployeeID == employeeID
}

// Employee возвращает идентификатор сотрудника или пустую строку
func (s *Shift) Employee() string {
	if s.IsOpen() {
		return ""
	}
	return *s.EmployeeID
}

// Duration - плановая длительность смены
func (s *Shift) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// ActualDuration - фактическая длительность, если обе отметки есть
func (s *Shift) ActualDuration() (time.Duration, bool) {
	if s.ActualStartTime == nil || s.ActualEndTime == nil {
		return 0, false
	}
	return s.ActualEndTime.Sub(*s.ActualStartTime), true
}

// HasClockedIn - сотрудник отметил приход
func (s *Shift) HasClockedIn() bool {
	return s.ActualStartTime != nil
}

// IsClosed - обе фактические отметки проставлены
func (s *Shift) IsClosed() bool {
	return s.ActualStartTime != nil && s.ActualEndTime != nil
}

// NormalizeOvernight переносит окончание на дату начала с тем же временем суток,
// а если время окончания не позже начала - на следующий день.
func (s *Shift) NormalizeOvernight() {
	start := s.StartTime
	y, m, d := start.Date()
	end := time.Date(y, m, d, s.EndTime.Hour(), s.EndTime.Minute(), s.EndTime.Second(), 0, start.Location())
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	s.EndTime = end
}

func (s *Shift) IsValid() bool {
	return s.CompanyID != "" &&
		!s.StartTime.IsZero() &&
		s.EndTime.After(s.StartTime)
}

// Clone возвращает глубокую копию смены
func (s *Shift) Clone() *Shift {
	c := *s
	c.EmployeeID = cloneString(s.EmployeeID)
	c.LocationID = cloneString(s.LocationID)
	c.DepartmentID = cloneString(s.DepartmentID)
	c.ActualStartTime = cloneTime(s.ActualStartTime)
	c.ActualEndTime = cloneTime(s.ActualEndTime)
	return &c
}

// StringPtr возвращает указатель на строку или nil для пустой строки
func StringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
