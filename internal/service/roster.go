package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"
	"shift-planner-bot/internal/repository"
	"shift-planner-bot/pkg/export"

	"github.com/sirupsen/logrus"
)

// ImportResult - итог загрузки сотрудников из таблицы
type ImportResult struct {
	Added   int
	Skipped int
}

type RosterService struct {
	ws     *Workspace
	users  *repository.UserRepository
	logger *logrus.Logger
}

func NewRosterService(ws *Workspace, users *repository.UserRepository) *RosterService {
	return &RosterService{
		ws:     ws,
		users:  users,
		logger: newLogger(),
	}
}

// AddEmployee добавляет сотрудника в компанию
func (s *RosterService) AddEmployee(employee *models.Employee) (*models.Employee, error) {
	candidate := *employee
	candidate.ApplyDefaults()
	if err := validateStruct(&candidate); err != nil {
		return nil, err
	}

	caps := s.ws.Capabilities()
	err := s.ws.update(func(snap *engine.Snapshot) error {
		if len(snap.Employees) >= caps.EmployeeLimit {
			return ErrEmployeeLimitReached
		}
		if findByEmail(snap.Employees, candidate.Email) != nil {
			return ErrDuplicateEmail
		}

		if candidate.ID == "" {
			candidate.ID = models.NewID()
		}
		candidate.CompanyID = s.ws.CompanyID()
		if caps.SupportsClocking && candidate.AccessCode == nil {
			code := newAccessCode(snap.Employees)
			candidate.AccessCode = &code
		}

		if err := s.ws.repos.Employees.Create(&candidate); err != nil {
			return fmt.Errorf("create employee: %w", err)
		}

		stored := candidate
		snap.Employees = append(append([]*models.Employee(nil), snap.Employees...), &stored)
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("email", candidate.Email).Warn("Employee not added")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": candidate.ID,
		"role":        candidate.Role,
	}).Info("Employee added")
	return &candidate, nil
}

// RegenerateAccessCode выдает сотруднику новый код доступа
func (s *RosterService) RegenerateAccessCode(employeeID string) (string, error) {
	var code string
	err := s.ws.update(func(snap *engine.Snapshot) error {
		current := snap.Employee(employeeID)
		if current == nil {
			return ErrEmployeeNotFound
		}

		updated := *current
		code = newAccessCode(snap.Employees)
		updated.AccessCode = &code
		if err := s.ws.repos.Employees.Update(&updated); err != nil {
			return fmt.Errorf("update employee: %w", err)
		}
		replaceEmployee(snap, &updated)
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.WithField("employee_id", employeeID).Info("Access code regenerated")
	return code, nil
}

// ImportEmployees добавляет сотрудников из строк таблицы.
// Строки без имени или email, с неверными данными и с уже занятым email пропускаются.
func (s *RosterService) ImportEmployees(rows []export.EmployeeRow) (ImportResult, error) {
	caps := s.ws.Capabilities()
	if !caps.CanImportEmployees {
		return ImportResult{}, ErrFeatureUnavailable
	}

	var result ImportResult
	err := s.ws.update(func(snap *engine.Snapshot) error {
		employees := append([]*models.Employee(nil), snap.Employees...)
		var batch []*models.Employee

		for _, row := range rows {
			e := &models.Employee{
				ID:        models.NewID(),
				CompanyID: s.ws.CompanyID(),
				Name:      strings.TrimSpace(row.Name),
				Email:     row.Email,
				Phone:     strings.TrimSpace(row.Phone),
				Role:      strings.TrimSpace(row.Role),
				Gender:    strings.TrimSpace(row.Gender),
			}
			e.ApplyDefaults()

			if validateStruct(e) != nil || findByEmail(employees, e.Email) != nil || len(employees) >= caps.EmployeeLimit {
				result.Skipped++
				continue
			}
			if caps.SupportsClocking {
				code := newAccessCode(employees)
				e.AccessCode = &code
			}
			employees = append(employees, e)
			batch = append(batch, e)
		}

		if len(batch) == 0 {
			return nil
		}
		if err := s.ws.repos.Employees.BulkCreate(batch); err != nil {
			return fmt.Errorf("import employees: %w", err)
		}
		snap.Employees = employees
		result.Added = len(batch)
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Employee import failed")
		return ImportResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"added":   result.Added,
		"skipped": result.Skipped,
	}).Info("Employees imported")
	return result, nil
}

// ImportWorkbook разбирает XLSX и импортирует сотрудников
func (s *RosterService) ImportWorkbook(data []byte) (ImportResult, error) {
	if !s.ws.Capabilities().CanImportEmployees {
		return ImportResult{}, ErrFeatureUnavailable
	}
	rows, err := export.ReadEmployees(data)
	if err != nil {
		return ImportResult{}, err
	}
	return s.ImportEmployees(rows)
}

// DeleteEmployee удаляет сотрудника вместе с его сменами и отсутствиями.
// Сообщения сотрудника остаются во входящих.
func (s *RosterService) DeleteEmployee(employeeID string) error {
	err := s.ws.update(func(snap *engine.Snapshot) error {
		if snap.Employee(employeeID) == nil {
			return ErrEmployeeNotFound
		}
		if err := s.ws.repos.Employees.DeleteWithCascade(employeeID); err != nil {
			return fmt.Errorf("delete employee: %w", err)
		}

		employees := make([]*models.Employee, 0, len(snap.Employees))
		for _, e := range snap.Employees {
			if e.ID != employeeID {
				employees = append(employees, e)
			}
		}
		shifts := make([]*models.Shift, 0, len(snap.Shifts))
		for _, sh := range snap.Shifts {
			if !sh.AssignedTo(employeeID) {
				shifts = append(shifts, sh)
			}
		}
		absences := make([]*models.Absence, 0, len(snap.Absences))
		for _, a := range snap.Absences {
			if a.EmployeeID != employeeID {
				absences = append(absences, a)
			}
		}

		snap.Employees = employees
		snap.Shifts = shifts
		snap.Absences = absences
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("employee_id", employeeID).Warn("Employee not deleted")
		return err
	}

	s.ws.resetUndo()
	s.logger.WithField("employee_id", employeeID).Info("Employee deleted")
	return nil
}

// Employees возвращает сотрудников компании
func (s *RosterService) Employees() []*models.Employee {
	return s.ws.Snapshot().Employees
}

// Employee возвращает сотрудника по id
func (s *RosterService) Employee(employeeID string) (*models.Employee, error) {
	e := s.ws.Snapshot().Employee(employeeID)
	if e == nil {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

// FindByEmail ищет сотрудника без учета регистра email
func (s *RosterService) FindByEmail(email string) *models.Employee {
	return findByEmail(s.ws.Snapshot().Employees, email)
}

// Login привязывает аккаунт Telegram к сотруднику по email и коду доступа
func (s *RosterService) Login(chatID int64, username, email, code string) (*models.Employee, error) {
	employee := findByEmail(s.ws.Snapshot().Employees, email)
	code = strings.TrimSpace(code)
	if employee == nil || employee.AccessCode == nil || *employee.AccessCode != code {
		s.logger.WithField("chat_id", chatID).Warn("Failed login attempt")
		return nil, ErrInvalidAccessCode
	}

	user, err := s.users.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if user == nil {
		user = &models.User{
			ChatID:     chatID,
			Username:   username,
			FirstName:  employee.Name,
			Role:       models.RoleEmployee,
			EmployeeID: models.StringPtr(employee.ID),
		}
		if err := s.users.Create(user); err != nil {
			return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
		}
	} else {
		user.EmployeeID = models.StringPtr(employee.ID)
		if err := s.users.Update(user); err != nil {
			return nil, fmt.Errorf("ошибка обновления пользователя: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"employee_id": employee.ID,
	}).Info("Account linked to employee")
	return employee, nil
}

// EmployeeForChat возвращает сотрудника, привязанного к чату
func (s *RosterService) EmployeeForChat(chatID int64) (*models.Employee, error) {
	user, err := s.users.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsLinked() {
		return nil, ErrNotLinked
	}

	employee := s.ws.Snapshot().Employee(*user.EmployeeID)
	if employee == nil {
		return nil, errors.Join(ErrNotLinked, ErrEmployeeNotFound)
	}
	return employee, nil
}

// FormatEmployees форматирует список сотрудников для администратора
func FormatEmployees(employees []*models.Employee) string {
	if len(employees) == 0 {
		return "📭 Сотрудников пока нет"
	}

	var b strings.Builder
	b.WriteString("👥 Сотрудники:\n\n")
	for i, e := range employees {
		fmt.Fprintf(&b, "%d. %s (%s)\n   📧 %s\n   🆔 %s\n", i+1, e.Name, e.Role, e.Email, e.ID)
	}
	return b.String()
}

func findByEmail(employees []*models.Employee, email string) *models.Employee {
	normalized := models.NormalizeEmail(email)
	for _, e := range employees {
		if e.NormalizedEmail() == normalized {
			return e
		}
	}
	return nil
}

func replaceEmployee(snap *engine.Snapshot, employee *models.Employee) {
	employees := append([]*models.Employee(nil), snap.Employees...)
	for i, e := range employees {
		if e.ID == employee.ID {
			employees[i] = employee
		}
	}
	snap.Employees = employees
}

// newAccessCode генерирует шестизначный код, не занятый другими сотрудниками
func newAccessCode(employees []*models.Employee) string {
	used := make(map[string]bool, len(employees))
	for _, e := range employees {
		if e.AccessCode != nil {
			used[*e.AccessCode] = true
		}
	}
	for {
		code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		if !used[code] {
			return code
		}
	}
}
