package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type GuestController struct {
	guests    *services.GuestService
	jwtSecret string
}

func NewGuestController(guests *services.GuestService, jwtSecret string) *GuestController {
	return &GuestController{guests: guests, jwtSecret: jwtSecret}
}

type registerGuestPayload struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=8"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register self-registers a guest. POST /api/guests/register
func (gc *GuestController) Register(c *gin.Context) {
	var payload registerGuestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	guest, err := gc.guests.Register(payload.Name, payload.Email, payload.Phone, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.SignToken(gc.jwtSecret, middleware.SessionGuest, guest.ID, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"id":          guest.ID,
		"name":        guest.Name,
		"email":       guest.Email,
		"phone":       guest.Phone,
		"isCheckedIn": guest.IsCheckedIn,
		"token":       token,
	})
}

type guestLoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a guest. POST /api/guests/login
func (gc *GuestController) Login(c *gin.Context) {
	var payload guestLoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	guest, err := gc.guests.Login(payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.SignToken(gc.jwtSecret, middleware.SessionGuest, guest.ID, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"id":           guest.ID,
		"name":         guest.Name,
		"email":        guest.Email,
		"roomNumber":   guest.RoomNumber,
		"isCheckedIn":  guest.IsCheckedIn,
		"checkInDate":  guest.CheckInDate,
		"checkOutDate": guest.CheckOutDate,
		"token":        token,
	})
}

type checkInPayload struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	RoomNumber   string `json:"roomNumber" binding:"required"`
	CheckOutDate string `json:"checkOutDate"`
}

// CheckIn registers or updates a guest and assigns a room (front desk flow).
// POST /api/guests
func (gc *GuestController) CheckIn(c *gin.Context) {
	var payload checkInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	var checkOut *time.Time
	if payload.CheckOutDate != "" {
		t, err := time.Parse(time.RFC3339, payload.CheckOutDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid checkOutDate"})
			return
		}
		checkOut = &t
	}

	guest, err := gc.guests.CheckIn(services.CheckInInput{
		Name:         payload.Name,
		Email:        payload.Email,
		Phone:        payload.Phone,
		RoomNumber:   payload.RoomNumber,
		CheckOutDate: checkOut,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guest)
}

// CheckOut ends a guest's stay. POST /api/guests/check-out/:id
func (gc *GuestController) CheckOut(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest id"})
		return
	}

	if err := gc.guests.CheckOut(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guest checked out successfully"})
}

// List returns all guests, most recently updated first. GET /api/guests
func (gc *GuestController) List(c *gin.Context) {
	guests, err := gc.guests.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, guests)
}
