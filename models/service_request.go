package models

import "time"

const (
	ServiceStatusOpen       = "Open"
	ServiceStatusInProgress = "In Progress"
	ServiceStatusResolved   = "Resolved"
	ServiceStatusCancelled  = "Cancelled"
)

const (
	ServicePriorityNormal = "Normal"
	ServicePriorityMedium = "Medium"
	ServicePriorityHigh   = "High"
)

func IsServiceStatus(s string) bool {
	switch s {
	case ServiceStatusOpen, ServiceStatusInProgress, ServiceStatusResolved, ServiceStatusCancelled:
		return true
	}
	return false
}

func IsServicePriority(p string) bool {
	switch p {
	case ServicePriorityNormal, ServicePriorityMedium, ServicePriorityHigh:
		return true
	}
	return false
}

type ServiceRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GuestID uint  `gorm:"index" json:"guestId"`
	Guest   Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`

	RoomNumber string `gorm:"size:50" json:"roomNumber"`
	Type       string `gorm:"size:100" json:"type"` // Housekeeping, Concierge, Maintenance, ...
	Message    string `gorm:"type:text" json:"message,omitempty"`
	Priority   string `gorm:"size:20;default:Normal" json:"priority"`
	Status     string `gorm:"size:20;default:Open;index" json:"status"`

	HandledByID *uint `gorm:"index" json:"handledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
