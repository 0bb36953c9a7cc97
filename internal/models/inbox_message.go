package models

import "time"

const (
	MessageTypeAbsenceRequest = "absence-request"
	MessageTypeComplaint      = "complaint"
)

const (
	MessageStatusPending    = "pending"
	MessageStatusValidated  = "validated"
	MessageStatusRefused    = "refused"
	MessageStatusFollowedUp = "followed-up"
)

// InboxMessage - запрос на отсутствие или жалоба от сотрудника
type InboxMessage struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID     string     `gorm:"type:varchar(64);not null;index" json:"company_id"`
	EmployeeID    string     `gorm:"type:varchar(36);not null;index" json:"employee_id"`
	Type          string     `gorm:"type:varchar(20);not null" json:"type" validate:"oneof=absence-request complaint"`
	Subject       string     `json:"subject" validate:"max=200"`
	Body          string     `json:"body" validate:"required_if=Type complaint"`
	Date          time.Time  `gorm:"not null" json:"date"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AbsenceTypeID *string    `gorm:"type:varchar(36)" json:"absence_type_id,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	RefusalReason *string    `json:"refusal_reason,omitempty"`

	// Notified - администратор уже получил уведомление о сообщении
	Notified bool `gorm:"not null;default:false" json:"-"`
}

func (InboxMessage) TableName() string {
	return "inbox_messages"
}

func (m *InboxMessage) IsPending() bool {
	return m.Status == MessageStatusPending
}

func (m *InboxMessage) IsAbsenceRequest() bool {
	return m.Type == MessageTypeAbsenceRequest
}

func (m *InboxMessage) IsComplaint() bool {
	return m.Type == MessageTypeComplaint
}
