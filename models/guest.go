package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Guest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"uniqueIndex;size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, optional for staff-created guests
	Phone    string `gorm:"size:50" json:"phone"`

	DOB    *time.Time `json:"dob,omitempty"`
	Gender string     `gorm:"size:20" json:"gender,omitempty"`

	RoomNumber   *string    `gorm:"size:50" json:"roomNumber,omitempty"`
	IsCheckedIn  bool       `gorm:"default:false" json:"isCheckedIn"`
	CheckInDate  *time.Time `json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `json:"checkOutDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// BeforeSave hashes the password whenever a plaintext value is assigned.
func (g *Guest) BeforeSave(tx *gorm.DB) error {
	if g.Password == "" || isBcryptHash(g.Password) {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(g.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	g.Password = string(hash)
	return nil
}

// MatchPassword reports whether the plaintext matches the stored hash. Guests
// created at the front desk may have no password at all; they can never log in
// until one is set.
func (g *Guest) MatchPassword(plain string) bool {
	if g.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(g.Password), []byte(plain)) == nil
}
