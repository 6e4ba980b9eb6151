package controllers

import (
	"net/http"

	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type placeOrderPayload struct {
	Items         []services.OrderLine `json:"items" binding:"required,min=1,dive"`
	RoomNumber    string               `json:"roomNumber" binding:"required"`
	Notes         string               `json:"notes"`
	PaymentMethod string               `json:"paymentMethod"`
}

// Place creates a Cash/Online order for the current guest. POST /api/orders
func (oc *OrderController) Place(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok || session.Kind != middleware.SessionGuest {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only guests can place orders"})
		return
	}

	var payload placeOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	order, err := oc.orders.Place(session.Guest.ID, payload.RoomNumber, payload.Items, payload.Notes, payload.PaymentMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// List returns all orders for staff dashboards. GET /api/orders
func (oc *OrderController) List(c *gin.Context) {
	page, limit := pageParams(c, 20)
	orders, total, err := oc.orders.List(page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// ListMine returns the current guest's own orders. GET /api/orders/my-orders
func (oc *OrderController) ListMine(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok || session.Kind != middleware.SessionGuest {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only guests can view their orders"})
		return
	}

	orders, err := oc.orders.ListByGuest(session.Guest.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get returns one order. Guests may only fetch their own. GET /api/orders/:id
func (oc *OrderController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := oc.orders.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if session, ok := middleware.CurrentSession(c); ok && session.Kind == middleware.SessionGuest && order.GuestID != session.Guest.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to access this order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an order through the kitchen pipeline.
// PUT /api/orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload updateOrderStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	order, err := oc.orders.UpdateStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CleanupPending bulk-cancels unfinalized payment-pending orders on demand.
// The periodic sweep does the same on a schedule; this endpoint lets admins
// force it. POST /api/orders/cleanup-pending
func (oc *OrderController) CleanupPending(c *gin.Context) {
	cancelled, err := oc.orders.CleanupPending()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Pending orders cleaned up",
		"cancelled": cancelled,
	})
}
