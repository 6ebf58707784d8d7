package repositories

import (
	"issuetrack-restful/models"

	"gorm.io/gorm"
)

// NotificationRepository defines Notification-related database operations.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id uint) (*models.Notification, error)
	Update(notification *models.Notification) error
	Delete(notification *models.Notification) error
	FindAll() ([]models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository instance.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Preload("Recipient").First(&notification, id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) Update(notification *models.Notification) error {
	return r.db.Save(notification).Error
}

func (r *notificationRepository) Delete(notification *models.Notification) error {
	return r.db.Delete(notification).Error
}

func (r *notificationRepository) FindAll() ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Preload("Recipient").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
