package models

import (
	"time"

	"gorm.io/datatypes"
)

type MenuItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string         `gorm:"size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Price       float64        `json:"price"`
	Category    string         `gorm:"size:100;index" json:"category"`
	ImageURL    string         `gorm:"size:512" json:"imageUrl,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	Allergens   datatypes.JSON `json:"allergens,omitempty"`
	AllergyInfo string         `gorm:"type:text" json:"allergyInfo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
