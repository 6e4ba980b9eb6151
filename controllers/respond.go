package controllers

import (
	"errors"
	"net/http"

	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors to the HTTP taxonomy:
// validation 400, unauthorized 401, forbidden 403, not found 404, conflict
// 409, everything else 500 with a sanitized message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to access this resource"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Already exists"})
	case errors.Is(err, services.ErrUpstream):
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Payment processing failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
