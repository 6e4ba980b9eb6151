package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin        = "Admin"
	RoleReceptionist = "Receptionist"
	RoleHousekeeping = "Housekeeping"
	RoleChef         = "Chef"
	RoleManager      = "Manager"
)

// StaffRoles lists every assignable role.
var StaffRoles = []string{RoleAdmin, RoleReceptionist, RoleHousekeeping, RoleChef, RoleManager}

func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

type Staff struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"uniqueIndex;size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"`
	Role     string `gorm:"size:50;index" json:"role"`
	IsOnline bool   `gorm:"default:false" json:"isOnline"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Staff) BeforeSave(tx *gorm.DB) error {
	if s.Password == "" || isBcryptHash(s.Password) {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.Password = string(hash)
	return nil
}

func (s *Staff) MatchPassword(plain string) bool {
	if s.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.Password), []byte(plain)) == nil
}
