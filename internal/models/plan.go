package models

import (
	"fmt"
	"strings"
)

// Plan - тарифный план компании
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanProPlus Plan = "pro-plus"
)

// Capabilities - возможности тарифа
type Capabilities struct {
	SupportsClocking   bool
	CanAccessDashboard bool
	CanExport          bool
	CanAddAbsence      bool
	CanImportEmployees bool
	EmployeeLimit      int
}

// ParsePlan разбирает название тарифа
func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanFree:
		return PlanFree, nil
	case PlanPro:
		return PlanPro, nil
	case PlanProPlus, "proplus", "pro_plus":
		return PlanProPlus, nil
	}
	return "", fmt.Errorf("unknown plan %q", s)
}

// Capabilities возвращает возможности тарифа
func (p Plan) Capabilities() Capabilities {
	switch p {
	case PlanProPlus:
		return Capabilities{
			SupportsClocking:   true,
			CanAccessDashboard: true,
			CanExport:          true,
			CanAddAbsence:      true,
			CanImportEmployees: true,
			EmployeeLimit:      300,
		}
	case PlanPro:
		return Capabilities{
			CanAccessDashboard: true,
			CanExport:          true,
			CanAddAbsence:      true,
			CanImportEmployees: true,
			EmployeeLimit:      100,
		}
	default:
		return Capabilities{EmployeeLimit: 10}
	}
}
