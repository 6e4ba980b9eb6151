package models

import "time"

const (
	RoomStatusAvailable   = "Available"
	RoomStatusOccupied    = "Occupied"
	RoomStatusCleaning    = "Cleaning"
	RoomStatusMaintenance = "Maintenance"
)

const (
	RoomTypeStandard = "Standard"
	RoomTypeDeluxe   = "Deluxe"
	RoomTypeSuite    = "Suite"
	RoomTypeRoyal    = "Royal"
)

func IsRoomStatus(s string) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusCleaning, RoomStatusMaintenance:
		return true
	}
	return false
}

func IsRoomType(t string) bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeRoyal:
		return true
	}
	return false
}

// Room is a physical unit. Status Occupied implies CurrentGuestID is set; a
// transition to Available clears it and checks the linked guest out.
type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomNumber string `gorm:"column:room_number;uniqueIndex;size:50" json:"roomNumber"`
	Type       string `gorm:"size:50;default:Standard" json:"type"`
	Status     string `gorm:"size:50;default:Available" json:"status"`
	Floor      int    `json:"floor"`

	CurrentGuestID *uint `gorm:"index" json:"currentGuestId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
