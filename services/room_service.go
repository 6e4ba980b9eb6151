package services

import (
	"errors"
	"fmt"

	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/gorm"
)

type RoomService struct {
	db            *gorm.DB
	emitter       realtime.Emitter
	notifications *NotificationService
}

func NewRoomService(db *gorm.DB, emitter realtime.Emitter, notifications *NotificationService) *RoomService {
	return &RoomService{db: db, emitter: emitter, notifications: notifications}
}

func (s *RoomService) List(page, limit int) ([]models.Room, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var total int64
	if err := s.db.Model(&models.Room{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	err := s.db.Order("room_number ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rooms).Error
	return rooms, total, err
}

func (s *RoomService) Get(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, id).Error; err != nil {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (s *RoomService) Create(roomNumber, roomType string, floor int, status string) (*models.Room, error) {
	if roomNumber == "" {
		return nil, Validationf("roomNumber is required")
	}
	if !models.IsRoomType(roomType) {
		return nil, Validationf("invalid room type: %s", roomType)
	}
	if status == "" {
		status = models.RoomStatusAvailable
	}
	if !models.IsRoomStatus(status) {
		return nil, Validationf("invalid room status: %s", status)
	}

	var existing models.Room
	if err := s.db.Where("room_number = ?", roomNumber).First(&existing).Error; err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := models.Room{
		RoomNumber: roomNumber,
		Type:       roomType,
		Status:     status,
		Floor:      floor,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}

	s.emitter.Emit(realtime.EventRoomStatusChanged, room, "")
	return &room, nil
}

// UpdateStatus moves the room machine. Cleaning/Maintenance notifies
// housekeeping; a transition to Available while a guest is still referenced
// checks that guest out and clears the reference in the same operation.
func (s *RoomService) UpdateStatus(id uint, status string) (*models.Room, error) {
	if !models.IsRoomStatus(status) {
		return nil, Validationf("invalid room status: %s", status)
	}

	var room models.Room
	if err := s.db.First(&room, id).Error; err != nil {
		return nil, ErrNotFound
	}

	var checkedOut *models.Guest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		room.Status = status

		if status == models.RoomStatusAvailable && room.CurrentGuestID != nil {
			var guest models.Guest
			if err := tx.First(&guest, *room.CurrentGuestID).Error; err == nil {
				guest.IsCheckedIn = false
				guest.RoomNumber = nil
				if err := tx.Save(&guest).Error; err != nil {
					return err
				}
				checkedOut = &guest
			}
			room.CurrentGuestID = nil
		}

		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, err
	}

	// Emit only after the transaction committed; a rollback must stay silent.
	if checkedOut != nil {
		s.emitter.Emit(realtime.EventGuestCheckedOut, *checkedOut, "")
	}
	s.emitter.Emit(realtime.EventRoomStatusChanged, room, "")

	if status == models.RoomStatusCleaning || status == models.RoomStatusMaintenance {
		_, _ = s.notifications.Notify(
			fmt.Sprintf("Room %s Status Update", room.RoomNumber),
			fmt.Sprintf("Room %s is now %s.", room.RoomNumber, status),
			models.NotificationInfo,
			models.RoleHousekeeping,
			nil,
			fmt.Sprintf("%d", room.ID),
			"/dashboard/rooms",
		)
	}

	return &room, nil
}

func (s *RoomService) Delete(id uint) error {
	res := s.db.Delete(&models.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
