package models

import "time"

const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// Notification is addressed either to one staff member (RecipientID) or
// broadcast to a role tag (Role); exactly one of the two is normally set.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RecipientID *uint  `gorm:"index" json:"recipient,omitempty"`
	Role        string `gorm:"size:50;index" json:"role,omitempty"`

	Title   string `gorm:"size:255" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Type    string `gorm:"size:20;default:info" json:"type"`
	IsRead  bool   `gorm:"default:false" json:"isRead"`

	ReferenceID string `gorm:"size:64" json:"referenceId,omitempty"`
	Link        string `gorm:"size:255" json:"link,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
