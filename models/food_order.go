package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrderStatusPending   = "Pending"
	OrderStatusPreparing = "Preparing"
	OrderStatusReady     = "Ready"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

const (
	PaymentMethodCash     = "Cash"
	PaymentMethodOnline   = "Online"
	PaymentMethodHyperPay = "HyperPay"
)

const (
	CurrencyAED = "AED"
	CurrencyUSD = "USD"
)

func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func IsCurrency(c string) bool {
	return c == CurrencyAED || c == CurrencyUSD
}

// OrderItem is a line of a food order. Name and Price are snapshots taken at
// order time; later menu edits never change them.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	OrderID    uint    `gorm:"index" json:"-"`
	MenuItemID uint    `json:"menuItemId"`
	Name       string  `gorm:"size:255" json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// FoodOrder tracks an order through two machines: the kitchen status
// (Pending → Preparing → Ready → Delivered, or Cancelled) and the payment
// status (pending → success | failed, terminal). PaymentCompletedAt is the
// write-once guard: once set, no poll, webhook or sweep may touch payment
// state again.
type FoodOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GuestID uint  `gorm:"index" json:"guestId"`
	Guest   Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`

	RoomNumber string      `gorm:"size:50" json:"roomNumber"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	TotalAmount float64 `json:"totalAmount"`
	Status      string  `gorm:"size:50;default:Pending;index" json:"status"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`

	PaymentMethod      string         `gorm:"size:50;default:Cash" json:"paymentMethod"`
	PaymentStatus      string         `gorm:"size:20;default:pending;index" json:"paymentStatus"`
	CheckoutID         *string        `gorm:"size:128;index" json:"checkoutId,omitempty"`
	TransactionID      *string        `gorm:"size:128" json:"transactionId,omitempty"`
	PaymentResponse    datatypes.JSON `json:"paymentResponse,omitempty"`
	PaymentCompletedAt *time.Time     `json:"paymentCompletedAt,omitempty"`
	Currency           string         `gorm:"size:3;default:AED" json:"currency"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
