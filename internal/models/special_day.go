package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CoverageAllDay  = "all-day"
	CoveragePartial = "partial"
)

// PublicHolidayTypeName - тип для дней из производственного календаря
const PublicHolidayTypeName = "Public holiday"

// SpecialDay - особый день (праздник, мероприятие)
type SpecialDay struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string    `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Year      int       `gorm:"not null;index:idx_special_day_ymd" json:"year"`
	Month     int       `gorm:"not null;index:idx_special_day_ymd" json:"month"`
	Day       int       `gorm:"not null;index:idx_special_day_ymd" json:"day"`
	TypeID    string    `gorm:"type:varchar(36);not null" json:"type_id"`
	Coverage  string    `gorm:"type:varchar(16);not null;default:'all-day'" json:"coverage"`
	Name      string    `json:"name"`
}

func (SpecialDay) TableName() string {
	return "special_days"
}

// BeforeSave заполняет год, месяц и день из даты
func (d *SpecialDay) BeforeSave(tx *gorm.DB) error {
	d.Year = d.Date.Year()
	d.Month = int(d.Date.Month())
	d.Day = d.Date.Day()
	return nil
}

// IsAllDay - день покрывает сутки целиком
func (d *SpecialDay) IsAllDay() bool {
	return d.Coverage == CoverageAllDay
}

func (d *SpecialDay) IsValid() bool {
	return d.TypeID != "" &&
		!d.Date.IsZero() &&
		(d.Coverage == CoverageAllDay || d.Coverage == CoveragePartial)
}

// SpecialDayType - тип особого дня
type SpecialDayType struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
	IsHoliday bool   `gorm:"not null;default:false" json:"is_holiday"`
}

func (SpecialDayType) TableName() string {
	return "special_day_types"
}
