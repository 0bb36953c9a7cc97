package repository

import (
	"errors"

	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AbsenceRepository interface {
	Create(absence *models.Absence) error
	Delete(id string) error
	GetByCompany(companyID string) ([]*models.Absence, error)
}

type GormAbsenceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAbsenceRepository(db *gorm.DB) (*GormAbsenceRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Absence{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate absences table")
		return nil, err
	}

	logger.Info("Absence repository initialized")

	return &GormAbsenceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAbsenceRepository) Create(absence *models.Absence) error {
	if !absence.IsValid() {
		r.logger.WithField("employee_id", absence.EmployeeID).Warn("Invalid absence data")
		return errors.New("некорректные данные отсутствия")
	}
	if absence.ID == "" {
		absence.ID = models.NewID()
	}

	if err := r.db.Create(absence).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create absence")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"absence_id":  absence.ID,
		"employee_id": absence.EmployeeID,
		"start":       absence.StartDate.Format("2006-01-02"),
		"end":         absence.EndDate.Format("2006-01-02"),
	}).Info("Absence created")
	return nil
}

func (r *GormAbsenceRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Absence{})
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("absence_id", id).Error("Failed to delete absence")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("отсутствие не найдено")
	}

	return nil
}

func (r *GormAbsenceRepository) GetByCompany(companyID string) ([]*models.Absence, error) {
	var absences []*models.Absence
	result := r.db.Where("company_id = ?", companyID).Order("start_date ASC").Find(&absences)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("company_id", companyID).Error("Failed to get absences")
		return nil, result.Error
	}

	return absences, nil
}

type AbsenceTypeRepository interface {
	Create(absenceType *models.AbsenceType) error
	GetByCompany(companyID string) ([]*models.AbsenceType, error)
	SeedDefaults(companyID string) ([]*models.AbsenceType, error)
}

type GormAbsenceTypeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAbsenceTypeRepository(db *gorm.DB) (*GormAbsenceTypeRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.AbsenceType{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate absence_types table")
		return nil, err
	}

	return &GormAbsenceTypeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAbsenceTypeRepository) Create(absenceType *models.AbsenceType) error {
	if absenceType.Name == "" {
		return errors.New("название вида отсутствия обязательно")
	}
	if absenceType.ID == "" {
		absenceType.ID = models.NewID()
	}
	return r.db.Create(absenceType).Error
}

func (r *GormAbsenceTypeRepository) GetByCompany(companyID string) ([]*models.AbsenceType, error) {
	var types []*models.AbsenceType
	if err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// SeedDefaults создает стандартные виды отсутствий, если у компании их еще нет
func (r *GormAbsenceTypeRepository) SeedDefaults(companyID string) ([]*models.AbsenceType, error) {
	var count int64
	if err := r.db.Model(&models.AbsenceType{}).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return r.GetByCompany(companyID)
	}

	defaults := models.DefaultAbsenceTypes(companyID)
	if err := r.db.Create(defaults).Error; err != nil {
		r.logger.WithError(err).WithField("company_id", companyID).Error("Failed to seed absence types")
		return nil, err
	}

	r.logger.WithField("company_id", companyID).Info("Default absence types created")
	return r.GetByCompany(companyID)
}
