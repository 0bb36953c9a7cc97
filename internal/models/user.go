package models

const (
	RoleEmployee string = "employee"
	RoleAdmin    string = "admin"
)

// User - аккаунт Telegram, работающий с ботом
type User struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
	ChatID     int64   `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username   string  `json:"username"`
	FirstName  string  `json:"first_name"`
	Role       string  `gorm:"default:'employee'" json:"role"`
	EmployeeID *string `gorm:"type:varchar(36);index" json:"employee_id,omitempty"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLinked - аккаунт привязан к сотруднику
func (u *User) IsLinked() bool {
	return u.EmployeeID != nil && *u.EmployeeID != ""
}

// TableName задает имя таблицы в БД
func (User) TableName() string {
	return "users"
}
