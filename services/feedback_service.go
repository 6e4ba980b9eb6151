package services

import (
	"hotel-ops-backend/models"

	"gorm.io/gorm"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// Create stores a guest's feedback. The room number comes from the guest's
// stay record, never from the request body; guests without a room cannot
// submit.
func (s *FeedbackService) Create(guest *models.Guest, rating int, description, name, email, phone string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, Validationf("rating must be between 1 and 5")
	}
	if description == "" {
		return nil, Validationf("description is required")
	}
	if guest.RoomNumber == nil {
		return nil, Validationf("guest must be checked into a room to submit feedback")
	}

	if name == "" {
		name = guest.Name
	}
	if email == "" {
		email = guest.Email
	}
	if phone == "" {
		phone = guest.Phone
	}

	feedback := models.Feedback{
		GuestID:     guest.ID,
		RoomNumber:  *guest.RoomNumber,
		Name:        name,
		Email:       email,
		Phone:       phone,
		Rating:      rating,
		Description: description,
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackService) List(page, limit int) ([]models.Feedback, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var feedbacks []models.Feedback
	err := s.db.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&feedbacks).Error
	return feedbacks, total, err
}
