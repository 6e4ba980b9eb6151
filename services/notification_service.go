package services

import (
	"hotel-ops-backend/middleware"
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/gorm"
)

type NotificationService struct {
	db      *gorm.DB
	emitter realtime.Emitter
}

func NewNotificationService(db *gorm.DB, emitter realtime.Emitter) *NotificationService {
	return &NotificationService{db: db, emitter: emitter}
}

// Notify persists a notification and emits it on the role or user channel.
// Exactly one of role / recipientID should be set.
func (s *NotificationService) Notify(title, message, typ, role string, recipientID *uint, referenceID, link string) (*models.Notification, error) {
	n := models.Notification{
		Role:        role,
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        typ,
		ReferenceID: referenceID,
		Link:        link,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}

	if role != "" {
		s.emitter.Emit(realtime.EventNotification, n, realtime.RoleChannel(role))
	} else if recipientID != nil {
		s.emitter.Emit(realtime.EventNotification, n, realtime.UserChannel(*recipientID))
	}
	return &n, nil
}

// ListFor returns notifications addressed to the session's user, its role, or
// the Admin broadcast tag, newest first.
func (s *NotificationService) ListFor(session middleware.Session) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("recipient_id = ? OR role = ? OR role = ?", session.UserID(), session.Role(), models.RoleAdmin).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkRead(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.First(&n, id).Error; err != nil {
		return nil, ErrNotFound
	}
	n.IsRead = true
	if err := s.db.Save(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}
