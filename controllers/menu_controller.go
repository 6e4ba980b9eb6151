package controllers

import (
	"net/http"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{menu: menu}
}

// List returns menu items. Guests only see active items; staff see everything.
// GET /api/menu
func (mc *MenuController) List(c *gin.Context) {
	activeOnly := true
	if session, ok := middleware.CurrentSession(c); ok && session.Kind == middleware.SessionStaff {
		activeOnly = false
	}

	items, err := mc.menu.List(activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create adds a menu item. POST /api/menu
func (mc *MenuController) Create(c *gin.Context) {
	var payload services.MenuItemInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	item, err := mc.menu.Create(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update partially updates a menu item. PUT /api/menu/:id
func (mc *MenuController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload services.MenuItemUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	item, err := mc.menu.Update(id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes a menu item. DELETE /api/menu/:id
func (mc *MenuController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := mc.menu.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
