package repository

import (
	"errors"

	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	BulkCreate(employees []*models.Employee) error
	Update(employee *models.Employee) error
	GetByCompany(companyID string) ([]*models.Employee, error)
	DeleteWithCascade(id string) error
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employees table")
		return nil, err
	}

	logger.Info("Employee repository initialized")

	return &GormEmployeeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = models.NewID()
	}

	if err := r.db.Create(employee).Error; err != nil {
		r.logger.WithError(err).WithField("email", employee.Email).Error("Failed to create employee")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"email":       employee.Email,
	}).Info("Employee created")
	return nil
}

func (r *GormEmployeeRepository) BulkCreate(employees []*models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	for _, e := range employees {
		if e.ID == "" {
			e.ID = models.NewID()
		}
	}

	if err := r.db.CreateInBatches(employees, 100).Error; err != nil {
		r.logger.WithError(err).Error("Failed to import employees")
		return err
	}

	r.logger.WithField("count", len(employees)).Info("Employees imported")
	return nil
}

func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	if err := r.db.Save(employee).Error; err != nil {
		r.logger.WithError(err).WithField("employee_id", employee.ID).Error("Failed to update employee")
		return err
	}
	return nil
}

func (r *GormEmployeeRepository) GetByCompany(companyID string) ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&employees)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employees")
		return nil, result.Error
	}

	return employees, nil
}

// DeleteWithCascade удаляет сотрудника вместе с его сменами и отсутствиями.
// Сообщения из входящих остаются, привязка аккаунта Telegram снимается.
func (r *GormEmployeeRepository) DeleteWithCascade(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Employee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("сотрудник не найден")
		}

		if err := tx.Where("employee_id = ?", id).Delete(&models.Shift{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&models.Absence{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("employee_id = ?", id).
			Update("employee_id", nil).Error
	})
	if err != nil {
		r.logger.WithError(err).WithField("employee_id", id).Error("Failed to delete employee")
		return err
	}

	r.logger.WithField("employee_id", id).Info("Employee deleted with shifts and absences")
	return nil
}
