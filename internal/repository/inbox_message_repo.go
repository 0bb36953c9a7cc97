package repository

import (
	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InboxMessageRepository interface {
	Create(message *models.InboxMessage) error
	Update(message *models.InboxMessage) error
	GetByCompany(companyID string) ([]*models.InboxMessage, error)
	GetUnnotified(companyID string) ([]*models.InboxMessage, error)
	MarkNotified(ids []string) error
}

type GormInboxMessageRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormInboxMessageRepository(db *gorm.DB) (*GormInboxMessageRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.InboxMessage{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate inbox_messages table")
		return nil, err
	}

	logger.Info("Inbox message repository initialized")

	return &GormInboxMessageRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormInboxMessageRepository) Create(message *models.InboxMessage) error {
	if message.ID == "" {
		message.ID = models.NewID()
	}

	if err := r.db.Create(message).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create inbox message")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"message_id":  message.ID,
		"employee_id": message.EmployeeID,
		"type":        message.Type,
	}).Info("Inbox message created")
	return nil
}

func (r *GormInboxMessageRepository) Update(message *models.InboxMessage) error {
	if err := r.db.Save(message).Error; err != nil {
		r.logger.WithError(err).WithField("message_id", message.ID).Error("Failed to update inbox message")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"message_id": message.ID,
		"status":     message.Status,
	}).Info("Inbox message updated")
	return nil
}

func (r *GormInboxMessageRepository) GetByCompany(companyID string) ([]*models.InboxMessage, error) {
	var messages []*models.InboxMessage
	result := r.db.Where("company_id = ?", companyID).Order("date DESC").Find(&messages)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get inbox messages")
		return nil, result.Error
	}

	return messages, nil
}

// GetUnnotified возвращает ожидающие сообщения, о которых еще не сообщили администратору
func (r *GormInboxMessageRepository) GetUnnotified(companyID string) ([]*models.InboxMessage, error) {
	var messages []*models.InboxMessage
	result := r.db.Where("company_id = ? AND status = ? AND notified = ?", companyID, models.MessageStatusPending, false).
		Order("date ASC").
		Find(&messages)

	if result.Error != nil {
		return nil, result.Error
	}

	return messages, nil
}

func (r *GormInboxMessageRepository) MarkNotified(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.InboxMessage{}).Where("id IN ?", ids).Update("notified", true).Error
}
