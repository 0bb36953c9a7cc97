package models

import (
	"strings"
	"time"
)

const (
	DefaultEmployeeRole   = "Unassigned"
	DefaultEmployeeGender = "Prefer not to say"
)

// Employee - сотрудник компании
type Employee struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID  string    `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Name       string    `gorm:"not null" json:"name" validate:"required,max=128"`
	Email      string    `gorm:"not null;index" json:"email" validate:"required,email"`
	Phone      string    `json:"phone" validate:"omitempty,max=32"`
	Role       string    `gorm:"not null;default:'Unassigned'" json:"role"`
	Gender     string    `json:"gender"`
	AvatarURL  string    `json:"avatar_url" validate:"omitempty,url"`
	AccessCode *string   `gorm:"type:varchar(6)" json:"access_code,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// NormalizedEmail - email в нижнем регистре без пробелов
func (e *Employee) NormalizedEmail() string {
	return NormalizeEmail(e.Email)
}

// ApplyDefaults заполняет пустые поля значениями по умолчанию
func (e *Employee) ApplyDefaults() {
	e.Email = strings.TrimSpace(e.Email)
	if e.Role == "" {
		e.Role = DefaultEmployeeRole
	}
	if e.Gender == "" {
		e.Gender = DefaultEmployeeGender
	}
}

// NormalizeEmail приводит email к виду для сравнения
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
