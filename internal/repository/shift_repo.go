package repository

import (
	"errors"
	"time"

	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	ApplyChanges(created, updated []*models.Shift, deleted []string) error
	GetByID(id string) (*models.Shift, error)
	GetByCompany(companyID string) ([]*models.Shift, error)
	SetActualStart(id string, at time.Time) error
	SetActualEnd(id string, at time.Time) error
	AutoClose(id string, scheduledEnd time.Time) (bool, error)
}

type GormShiftRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormShiftRepository(db *gorm.DB) (*GormShiftRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.Shift{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate shifts table")
		return nil, err
	}

	logger.Info("Shift repository initialized")

	return &GormShiftRepository{
		db:     db,
		logger: logger,
	}, nil
}

// ApplyChanges сохраняет изменение набора смен в одной транзакции
func (r *GormShiftRepository) ApplyChanges(created, updated []*models.Shift, deleted []string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(created) > 0 {
			assignIDs(created)
			if err := tx.CreateInBatches(created, 100).Error; err != nil {
				return err
			}
		}
		for _, shift := range updated {
			if err := tx.Save(shift).Error; err != nil {
				return err
			}
		}
		if len(deleted) > 0 {
			if err := tx.Where("id IN ?", deleted).Delete(&models.Shift{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to apply shift changes")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"created": len(created),
		"updated": len(updated),
		"deleted": len(deleted),
	}).Info("Shift changes applied")
	return nil
}

func (r *GormShiftRepository) GetByID(id string) (*models.Shift, error) {
	var shift models.Shift
	result := r.db.Where("id = ?", id).First(&shift)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("shift_id", id).Error("Failed to get shift")
		return nil, result.Error
	}

	return &shift, nil
}

func (r *GormShiftRepository) GetByCompany(companyID string) ([]*models.Shift, error) {
	var shifts []*models.Shift
	result := r.db.Where("company_id = ?", companyID).Order("start_time ASC").Find(&shifts)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("company_id", companyID).Error("Failed to get shifts")
		return nil, result.Error
	}

	return shifts, nil
}

// SetActualStart записывает отметку прихода
func (r *GormShiftRepository) SetActualStart(id string, at time.Time) error {
	result := r.db.Model(&models.Shift{}).
		Where("id = ? AND actual_start_time IS NULL", id).
		Update("actual_start_time", at)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("shift_id", id).Error("Failed to clock in")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("приход уже отмечен или смена не найдена")
	}

	return nil
}

// SetActualEnd записывает отметку ухода
func (r *GormShiftRepository) SetActualEnd(id string, at time.Time) error {
	result := r.db.Model(&models.Shift{}).
		Where("id = ? AND actual_start_time IS NOT NULL AND actual_end_time IS NULL", id).
		Update("actual_end_time", at)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("shift_id", id).Error("Failed to clock out")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("уход уже отмечен или смена не найдена")
	}

	return nil
}

// AutoClose закрывает смену плановым окончанием, если уход еще не отмечен.
// Возвращает false, если смена уже была закрыта.
func (r *GormShiftRepository) AutoClose(id string, scheduledEnd time.Time) (bool, error) {
	result := r.db.Model(&models.Shift{}).
		Where("id = ? AND actual_start_time IS NOT NULL AND actual_end_time IS NULL", id).
		Update("actual_end_time", scheduledEnd)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("shift_id", id).Error("Failed to auto close shift")
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	r.logger.WithFields(logrus.Fields{
		"shift_id":      id,
		"scheduled_end": scheduledEnd.Format("2006-01-02 15:04"),
	}).Info("Shift closed automatically")
	return true, nil
}

func assignIDs(shifts []*models.Shift) {
	for _, shift := range shifts {
		if shift.ID == "" {
			shift.ID = models.NewID()
		}
	}
}
