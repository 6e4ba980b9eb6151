package controllers

import (
	"net/http"
	"strconv"

	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{rooms: rooms}
}

func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	return page, limit
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return uint(id), err
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}

// List returns rooms ordered by room number. GET /api/rooms
func (rc *RoomController) List(c *gin.Context) {
	page, limit := pageParams(c, 50)
	rooms, total, err := rc.rooms.List(page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Get returns one room. GET /api/rooms/:id
func (rc *RoomController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	room, err := rc.rooms.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type createRoomPayload struct {
	RoomNumber string `json:"roomNumber" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Floor      int    `json:"floor"`
	Status     string `json:"status"`
}

// Create adds a room. POST /api/rooms
func (rc *RoomController) Create(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	room, err := rc.rooms.Create(payload.RoomNumber, payload.Type, payload.Floor, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

type updateRoomStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus transitions a room. PUT /api/rooms/:id/status
func (rc *RoomController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload updateRoomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	room, err := rc.rooms.UpdateStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// Delete removes a room. DELETE /api/rooms/:id
func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := rc.rooms.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
