package models

import "time"

type Feedback struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GuestID    uint   `gorm:"index" json:"guestId"`
	RoomNumber string `gorm:"size:50" json:"roomNumber"`

	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:150" json:"email,omitempty"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`

	Rating      int    `json:"rating"` // 1..5
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
