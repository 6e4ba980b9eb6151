package services

import (
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/gorm"
)

type ServiceRequestService struct {
	db      *gorm.DB
	emitter realtime.Emitter
}

func NewServiceRequestService(db *gorm.DB, emitter realtime.Emitter) *ServiceRequestService {
	return &ServiceRequestService{db: db, emitter: emitter}
}

func (s *ServiceRequestService) Create(guestID uint, roomNumber, typ, priority, message string) (*models.ServiceRequest, error) {
	if roomNumber == "" || typ == "" {
		return nil, Validationf("roomNumber and type are required")
	}
	if priority == "" {
		priority = models.ServicePriorityNormal
	}
	if !models.IsServicePriority(priority) {
		return nil, Validationf("invalid priority: %s", priority)
	}

	request := models.ServiceRequest{
		GuestID:    guestID,
		RoomNumber: roomNumber,
		Type:       typ,
		Priority:   priority,
		Message:    message,
		Status:     models.ServiceStatusOpen,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}

	loaded, err := s.Get(request.ID)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(realtime.EventNewServiceRequest, loaded, "")
	return loaded, nil
}

func (s *ServiceRequestService) Get(id uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := s.db.Preload("Guest").First(&request, id).Error; err != nil {
		return nil, ErrNotFound
	}
	return &request, nil
}

func (s *ServiceRequestService) List() ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := s.db.Preload("Guest").Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// UpdateStatus moves the request machine and records which staff member
// handled it.
func (s *ServiceRequestService) UpdateStatus(id uint, status string, staffID *uint) (*models.ServiceRequest, error) {
	if !models.IsServiceStatus(status) {
		return nil, Validationf("invalid service request status: %s", status)
	}

	var request models.ServiceRequest
	if err := s.db.First(&request, id).Error; err != nil {
		return nil, ErrNotFound
	}

	request.Status = status
	if staffID != nil {
		request.HandledByID = staffID
	}
	if err := s.db.Save(&request).Error; err != nil {
		return nil, err
	}

	loaded, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(realtime.EventRequestStatusUpdated, loaded, "")
	return loaded, nil
}
