package realtime

import "fmt"

// Event names emitted over the hub. Consumers subscribe by joining the
// matching channel; events with no channel go to every connected client.
const (
	EventNewFoodOrder         = "new-food-order"
	EventOrderStatusChanged   = "order-status-changed"
	EventRoomStatusChanged    = "room-status-changed"
	EventNewServiceRequest    = "new-service-request"
	EventRequestStatusUpdated = "request-status-updated"
	EventMenuUpdated          = "menu-updated"
	EventGuestRegistered      = "guest-registered"
	EventGuestCheckedIn       = "guest-checked-in"
	EventGuestCheckedOut      = "guest-checked-out"
	EventNotification         = "notification"
)

// RoleChannel names the broadcast partition for one staff role.
func RoleChannel(role string) string { return "role:" + role }

// UserChannel names the broadcast partition for one user.
func UserChannel(userID uint) string { return fmt.Sprintf("user:%d", userID) }
