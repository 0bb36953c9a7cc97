package models

import "github.com/google/uuid"

// NewID генерирует идентификатор сущности
func NewID() string {
	return uuid.NewString()
}
