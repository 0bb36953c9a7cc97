package models

import "strings"

// Location - площадка, на которой проходят смены
type Location struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
	Address   string `json:"address"`
}

func (Location) TableName() string {
	return "locations"
}

// Department - отдел компании
type Department struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
}

func (Department) TableName() string {
	return "departments"
}

// Role - должность из справочника. У сотрудника должность хранится названием.
type Role struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// SameName сравнивает названия справочника без учета регистра и пробелов по краям
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
