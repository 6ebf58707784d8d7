package services

import (
	"errors"
	"fmt"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	"gorm.io/gorm"
)

// NotificationService defines notification operations. Notifications are
// created as a side effect of comments (see CommentService) or directly for
// system messages.
type NotificationService interface {
	CreateNotification(input *CreateNotificationInput) (*models.Notification, error)
	GetNotificationByID(id uint) (*models.Notification, error)
	UpdateNotification(actor policy.Identity, id uint, input *UpdateNotificationInput) (*models.Notification, error)
	DeleteNotification(actor policy.Identity, id uint) (*models.Notification, error)
	ListNotifications() ([]models.Notification, error)
}

type CreateNotificationInput struct {
	Message     string `json:"message"`
	RecipientID uint   `json:"recipientId"`
}

// UpdateNotificationInput accepts a partial {message?, read?} payload.
type UpdateNotificationInput struct {
	Message *string `json:"message"`
	Read    *bool   `json:"read"`
}

type notificationService struct {
	repo  repositories.NotificationRepository
	users repositories.UserRepository
}

var _ NotificationService = (*notificationService)(nil)

// NewNotificationService creates a new NotificationService instance.
func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository) NotificationService {
	return &notificationService{repo: repo, users: users}
}

func (s *notificationService) CreateNotification(input *CreateNotificationInput) (*models.Notification, error) {
	if input.Message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if _, err := s.users.FindByID(input.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipient %d does not exist", ErrValidation, input.RecipientID)
		}
		return nil, fmt.Errorf("checking recipient: %w", err)
	}

	notification := models.Notification{
		Message:     input.Message,
		RecipientID: input.RecipientID,
	}
	if err := s.repo.Create(&notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &notification, nil
}

func (s *notificationService) GetNotificationByID(id uint) (*models.Notification, error) {
	notification, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return nil, err
	}
	return notification, nil
}

// UpdateNotification applies a partial merge of message and read flag. Only
// the recipient or an admin may mutate.
func (s *notificationService) UpdateNotification(actor policy.Identity, id uint, input *UpdateNotificationInput) (*models.Notification, error) {
	notification, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanMutateNotification(actor, notification.RecipientID) {
		return nil, ErrForbidden
	}

	changed := false
	changed = patch(&notification.Message, input.Message) || changed
	changed = patch(&notification.Read, input.Read) || changed

	if changed {
		if err := s.repo.Update(notification); err != nil {
			return nil, fmt.Errorf("failed to save notification updates: %w", err)
		}
	}
	return notification, nil
}

// DeleteNotification removes the notification and returns its prior state.
func (s *notificationService) DeleteNotification(actor policy.Identity, id uint) (*models.Notification, error) {
	notification, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanMutateNotification(actor, notification.RecipientID) {
		return nil, ErrForbidden
	}

	if err := s.repo.Delete(notification); err != nil {
		return nil, fmt.Errorf("failed to delete notification: %w", err)
	}
	return notification, nil
}

func (s *notificationService) ListNotifications() ([]models.Notification, error) {
	notifications, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
