package controllers

import (
	"net/http"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	feedback *services.FeedbackService
}

func NewFeedbackController(feedback *services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedback: feedback}
}

type createFeedbackPayload struct {
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Description string `json:"description" binding:"required"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Create records feedback from the current guest. POST /api/feedback
func (fc *FeedbackController) Create(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok || session.Kind != middleware.SessionGuest {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only guests can submit feedback"})
		return
	}

	var payload createFeedbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	feedback, err := fc.feedback.Create(session.Guest, payload.Rating, payload.Description, payload.Name, payload.Email, payload.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

// List returns feedback for staff review, newest first. GET /api/feedback
func (fc *FeedbackController) List(c *gin.Context) {
	page, limit := pageParams(c, 20)
	feedbacks, total, err := fc.feedback.List(page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbacks,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
