package service

import (
	"fmt"
	"strings"

	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/repository"
)

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetOrCreate возвращает аккаунт чата, создавая его с ролью employee при первом обращении
func (s *UserService) GetOrCreate(chatID int64, username, firstName string) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		Role:      models.RoleEmployee,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return user, nil
}

// GetUser возвращает пользователя по chatID
func (s *UserService) GetUser(chatID int64) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("пользователь не найден")
	}

	return user, nil
}

// IsAdmin проверяет, является ли пользователь администратором
func (s *UserService) IsAdmin(chatID int64) (bool, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return false, err
	}

	return user != nil && user.IsAdmin(), nil
}

// Logout отвязывает аккаунт от сотрудника
func (s *UserService) Logout(chatID int64) error {
	user, err := s.GetUser(chatID)
	if err != nil {
		return err
	}
	user.EmployeeID = nil
	return s.repo.Update(user)
}

// AdminChatIDs возвращает чаты всех администраторов
func (s *UserService) AdminChatIDs() ([]int64, error) {
	admins, err := s.repo.GetAdmins()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ChatID)
	}
	return ids, nil
}

// ChatsOfEmployee возвращает чаты, привязанные к сотруднику
func (s *UserService) ChatsOfEmployee(employeeID string) ([]int64, error) {
	users, err := s.repo.GetByEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ChatID)
	}
	return ids, nil
}

// InitializeAdmin инициализирует администратора из конфига
func (s *UserService) InitializeAdmin(adminChatID int64) error {
	if adminChatID == 0 {
		return nil // Админ не задан в конфиге
	}

	existingUser, err := s.repo.GetByChatID(adminChatID)
	if err != nil {
		return err
	}

	if existingUser != nil {
		// Если пользователь существует, обновляем его роль на админа
		return s.repo.UpdateRole(adminChatID, models.RoleAdmin)
	}

	adminUser := &models.User{
		ChatID:    adminChatID,
		Username:  "admin",
		FirstName: "Администратор",
		Role:      models.RoleAdmin,
	}

	return s.repo.Create(adminUser)
}

// FormatUserInfo форматирует информацию о пользователе для вывода
func FormatUserInfo(user *models.User, employee *models.Employee) string {
	var lines []string

	lines = append(lines, "👤 Профиль:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("🆔 ID чата: %d", user.ChatID))

	if user.Username != "" {
		lines = append(lines, fmt.Sprintf("📛 Никнейм: @%s", user.Username))
	}

	roleEmoji := "👤"
	if user.IsAdmin() {
		roleEmoji = "👑"
	}
	lines = append(lines, fmt.Sprintf("%s Роль в боте: %s", roleEmoji, user.Role))

	if employee != nil {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("👨‍💼 Сотрудник: %s", employee.Name))
		lines = append(lines, fmt.Sprintf("💼 Должность: %s", employee.Role))
		lines = append(lines, fmt.Sprintf("📧 Email: %s", employee.Email))
	} else {
		lines = append(lines, "", "🔗 Аккаунт не привязан к сотруднику. Используйте /login")
	}

	return strings.Join(lines, "\n")
}
