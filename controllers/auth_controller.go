package controllers

import (
	"net/http"
	"time"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 30 * 24 * time.Hour

type AuthController struct {
	staff     *services.StaffService
	jwtSecret string
}

func NewAuthController(staff *services.StaffService, jwtSecret string) *AuthController {
	return &AuthController{staff: staff, jwtSecret: jwtSecret}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie("jwt", token, int(sessionTTL.Seconds()), "/", "", false, true)
}

// Login authenticates a staff member. POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	staff, err := ac.staff.Login(payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := middleware.SignToken(ac.jwtSecret, middleware.SessionStaff, staff.ID, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}
	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"id":    staff.ID,
		"name":  staff.Name,
		"email": staff.Email,
		"role":  staff.Role,
		"token": token,
	})
}

// Logout clears the session cookie and flags the staff member offline.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if session, ok := middleware.CurrentSession(c); ok && session.Kind == middleware.SessionStaff {
		_ = ac.staff.Logout(session.Staff.ID)
	}
	c.SetCookie("jwt", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
