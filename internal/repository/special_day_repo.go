package repository

import (
	"errors"

	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SpecialDayRepository interface {
	Create(day *models.SpecialDay) error
	BulkCreate(days []*models.SpecialDay) (int, error)
	Delete(id string) error
	GetByCompany(companyID string) ([]*models.SpecialDay, error)
}

type GormSpecialDayRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSpecialDayRepository(db *gorm.DB) (*GormSpecialDayRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.SpecialDay{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate special_days table")
		return nil, err
	}

	logger.Info("Special day repository initialized")

	return &GormSpecialDayRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormSpecialDayRepository) Create(day *models.SpecialDay) error {
	if !day.IsValid() {
		return errors.New("некорректные данные особого дня")
	}
	if day.ID == "" {
		day.ID = models.NewID()
	}

	if err := r.db.Create(day).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create special day")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"date":     day.Date.Format("2006-01-02"),
		"coverage": day.Coverage,
	}).Info("Special day created")
	return nil
}

// BulkCreate добавляет дни, пропуская даты, на которые уже есть день того же типа
func (r *GormSpecialDayRepository) BulkCreate(days []*models.SpecialDay) (int, error) {
	added := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, day := range days {
			if !day.IsValid() {
				return errors.New("некорректные данные особого дня")
			}

			var count int64
			err := tx.Model(&models.SpecialDay{}).
				Where("company_id = ? AND type_id = ? AND year = ? AND month = ? AND day = ?",
					day.CompanyID, day.TypeID, day.Date.Year(), int(day.Date.Month()), day.Date.Day()).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			if day.ID == "" {
				day.ID = models.NewID()
			}
			if err := tx.Create(day).Error; err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to bulk create special days")
		return 0, err
	}

	r.logger.WithField("added", added).Info("Special days imported")
	return added, nil
}

func (r *GormSpecialDayRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.SpecialDay{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("особый день не найден")
	}
	return nil
}

func (r *GormSpecialDayRepository) GetByCompany(companyID string) ([]*models.SpecialDay, error) {
	var days []*models.SpecialDay
	result := r.db.Where("company_id = ?", companyID).
		Order("year ASC, month ASC, day ASC").
		Find(&days)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get special days")
		return nil, result.Error
	}

	return days, nil
}

type SpecialDayTypeRepository interface {
	Create(dayType *models.SpecialDayType) error
	GetByCompany(companyID string) ([]*models.SpecialDayType, error)
}

type GormSpecialDayTypeRepository struct {
	db *gorm.DB
}

func NewGormSpecialDayTypeRepository(db *gorm.DB) (*GormSpecialDayTypeRepository, error) {
	if err := db.AutoMigrate(&models.SpecialDayType{}); err != nil {
		return nil, err
	}
	return &GormSpecialDayTypeRepository{db: db}, nil
}

func (r *GormSpecialDayTypeRepository) Create(dayType *models.SpecialDayType) error {
	if dayType.Name == "" {
		return errors.New("название типа дня обязательно")
	}
	if dayType.ID == "" {
		dayType.ID = models.NewID()
	}
	return r.db.Create(dayType).Error
}

func (r *GormSpecialDayTypeRepository) GetByCompany(companyID string) ([]*models.SpecialDayType, error) {
	var types []*models.SpecialDayType
	if err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

