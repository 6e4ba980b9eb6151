package services

import (
	"errors"

	"hotel-ops-backend/models"

	"gorm.io/gorm"
)

type StaffService struct {
	db *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{db: db}
}

func (s *StaffService) Create(name, email, password, role string) (*models.Staff, error) {
	if !models.IsStaffRole(role) {
		return nil, Validationf("invalid role: %s", role)
	}
	if len(password) < 6 {
		return nil, Validationf("password must be at least 6 characters")
	}

	var existing models.Staff
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, Validationf("staff already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	staff := models.Staff{
		Name:     name,
		Email:    email,
		Password: password, // hashed by the BeforeSave hook
		Role:     role,
	}
	if err := s.db.Create(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (s *StaffService) List() ([]models.Staff, error) {
	var staff []models.Staff
	err := s.db.Find(&staff).Error
	return staff, err
}

// Login validates credentials and flags the account online.
func (s *StaffService) Login(email, password string) (*models.Staff, error) {
	var staff models.Staff
	if err := s.db.Where("email = ?", email).First(&staff).Error; err != nil {
		return nil, ErrUnauthorized
	}
	if !staff.MatchPassword(password) {
		return nil, ErrUnauthorized
	}

	if err := s.db.Model(&staff).Update("is_online", true).Error; err != nil {
		return nil, err
	}
	staff.IsOnline = true
	return &staff, nil
}

func (s *StaffService) Logout(id uint) error {
	return s.db.Model(&models.Staff{}).Where("id = ?", id).Update("is_online", false).Error
}
