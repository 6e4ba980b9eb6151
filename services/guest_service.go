package services

import (
	"errors"
	"time"

	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/gorm"
)

type GuestService struct {
	db      *gorm.DB
	emitter realtime.Emitter
}

func NewGuestService(db *gorm.DB, emitter realtime.Emitter) *GuestService {
	return &GuestService{db: db, emitter: emitter}
}

// Register self-registers a guest account (mobile app signup).
func (s *GuestService) Register(name, email, phone, password string) (*models.Guest, error) {
	var existing models.Guest
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, Validationf("user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guest := models.Guest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password, // hashed by the BeforeSave hook
	}
	if err := s.db.Create(&guest).Error; err != nil {
		return nil, err
	}

	s.emitter.Emit(realtime.EventGuestRegistered, guest, "")
	return &guest, nil
}

func (s *GuestService) Login(email, password string) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.Where("email = ?", email).First(&guest).Error; err != nil {
		return nil, ErrUnauthorized
	}
	if !guest.MatchPassword(password) {
		return nil, ErrUnauthorized
	}
	return &guest, nil
}

type CheckInInput struct {
	Name         string
	Email        string
	Phone        string
	RoomNumber   string
	CheckOutDate *time.Time
}

// CheckIn registers-or-updates a guest by email and assigns a room: the guest
// becomes checked in with a room number, the room becomes Occupied with the
// guest referenced. A guest already on file is updated, never duplicated.
func (s *GuestService) CheckIn(in CheckInInput) (*models.Guest, error) {
	if in.Name == "" || in.Email == "" || in.RoomNumber == "" {
		return nil, Validationf("name, email and roomNumber are required")
	}

	var guest models.Guest
	var occupied *models.Room
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", in.Email).First(&guest).Error
		switch {
		case err == nil:
			guest.Name = in.Name
			guest.Phone = in.Phone
			guest.RoomNumber = &in.RoomNumber
			guest.IsCheckedIn = true
			guest.CheckInDate = &now
			guest.CheckOutDate = in.CheckOutDate
			if err := tx.Save(&guest).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			guest = models.Guest{
				Name:         in.Name,
				Email:        in.Email,
				Phone:        in.Phone,
				RoomNumber:   &in.RoomNumber,
				IsCheckedIn:  true,
				CheckInDate:  &now,
				CheckOutDate: in.CheckOutDate,
			}
			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var room models.Room
		if err := tx.Where("room_number = ?", in.RoomNumber).First(&room).Error; err == nil {
			room.Status = models.RoomStatusOccupied
			room.CurrentGuestID = &guest.ID
			if err := tx.Save(&room).Error; err != nil {
				return err
			}
			occupied = &room
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Emit only after the transaction committed; a rollback must stay silent.
	if occupied != nil {
		s.emitter.Emit(realtime.EventRoomStatusChanged, *occupied, "")
	}
	s.emitter.Emit(realtime.EventGuestCheckedIn, guest, "")
	return &guest, nil
}

// CheckOut clears the guest's stay and sends the room to Cleaning.
func (s *GuestService) CheckOut(id uint) error {
	var guest models.Guest
	if err := s.db.First(&guest, id).Error; err != nil {
		return ErrNotFound
	}
	if !guest.IsCheckedIn {
		return ErrNotFound
	}

	roomNumber := guest.RoomNumber
	var cleaned *models.Room

	err := s.db.Transaction(func(tx *gorm.DB) error {
		guest.IsCheckedIn = false
		guest.RoomNumber = nil
		if err := tx.Save(&guest).Error; err != nil {
			return err
		}

		if roomNumber != nil {
			var room models.Room
			if err := tx.Where("room_number = ?", *roomNumber).First(&room).Error; err == nil {
				room.Status = models.RoomStatusCleaning
				room.CurrentGuestID = nil
				if err := tx.Save(&room).Error; err != nil {
					return err
				}
				cleaned = &room
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if cleaned != nil {
		s.emitter.Emit(realtime.EventRoomStatusChanged, *cleaned, "")
	}
	s.emitter.Emit(realtime.EventGuestCheckedOut, guest, "")
	return nil
}

func (s *GuestService) List() ([]models.Guest, error) {
	var guests []models.Guest
	err := s.db.Order("updated_at DESC").Find(&guests).Error
	return guests, err
}
