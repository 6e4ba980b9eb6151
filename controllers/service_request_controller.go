package controllers

import (
	"net/http"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type ServiceRequestController struct {
	requests *services.ServiceRequestService
}

func NewServiceRequestController(requests *services.ServiceRequestService) *ServiceRequestController {
	return &ServiceRequestController{requests: requests}
}

type createRequestPayload struct {
	RoomNumber string `json:"roomNumber" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Priority   string `json:"priority"`
	Message    string `json:"message"`
}

// Create files a service request for the current guest. POST /api/services
func (sc *ServiceRequestController) Create(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok || session.Kind != middleware.SessionGuest {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only guests can create service requests"})
		return
	}

	var payload createRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	request, err := sc.requests.Create(session.Guest.ID, payload.RoomNumber, payload.Type, payload.Priority, payload.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// List returns all service requests for staff. GET /api/services
func (sc *ServiceRequestController) List(c *gin.Context) {
	requests, err := sc.requests.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

type updateRequestStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves a request and records the handling staff member.
// PUT /api/services/:id/status
func (sc *ServiceRequestController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload updateRequestStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	var staffID *uint
	if session, ok := middleware.CurrentSession(c); ok && session.Kind == middleware.SessionStaff {
		staffID = &session.Staff.ID
	}

	request, err := sc.requests.UpdateStatus(id, payload.Status, staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
