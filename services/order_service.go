package services

import (
	"fmt"
	"time"

	"hotel-ops-backend/metrics"
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/gorm"
)

// OrderLine is one requested cart entry; prices always come from the menu,
// never from the client.
type OrderLine struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type OrderService struct {
	db            *gorm.DB
	emitter       realtime.Emitter
	notifications *NotificationService
}

func NewOrderService(db *gorm.DB, emitter realtime.Emitter, notifications *NotificationService) *OrderService {
	return &OrderService{db: db, emitter: emitter, notifications: notifications}
}

// priceLines resolves every menu item and snapshots name and unit price. The
// returned total is the sum of quantity × price over the snapshots.
func (s *OrderService) priceLines(lines []OrderLine) ([]models.OrderItem, float64, error) {
	if len(lines) == 0 {
		return nil, 0, Validationf("order must contain at least one item")
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, 0, Validationf("quantity must be at least 1")
		}
		var menuItem models.MenuItem
		if err := s.db.First(&menuItem, line.MenuItemID).Error; err != nil {
			return nil, 0, Validationf("menu item not found: %d", line.MenuItemID)
		}
		total += menuItem.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
		})
	}
	return items, total, nil
}

// Place creates a directly-payable order (Cash/Online), announces it to the
// kitchen and admin channels and returns it with the guest preloaded.
func (s *OrderService) Place(guestID uint, roomNumber string, lines []OrderLine, notes, paymentMethod string) (*models.FoodOrder, error) {
	items, total, err := s.priceLines(lines)
	if err != nil {
		return nil, err
	}

	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCash
	}
	if paymentMethod != models.PaymentMethodCash && paymentMethod != models.PaymentMethodOnline {
		return nil, Validationf("invalid payment method: %s", paymentMethod)
	}

	order := models.FoodOrder{
		GuestID:       guestID,
		RoomNumber:    roomNumber,
		Items:         items,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		Notes:         notes,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Currency:      models.CurrencyAED,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}
	metrics.IncOrderPlaced(paymentMethod)

	loaded, err := s.Get(order.ID)
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(realtime.EventNewFoodOrder, loaded, "")
	s.announce(loaded)
	return loaded, nil
}

// announce sends role-targeted notifications for a freshly visible order.
func (s *OrderService) announce(order *models.FoodOrder) {
	title := fmt.Sprintf("New Order #%s", order.RoomNumber)
	message := fmt.Sprintf("New food order from Room %s.", order.RoomNumber)
	ref := fmt.Sprintf("%d", order.ID)

	if _, err := s.notifications.Notify(title, message, models.NotificationInfo, models.RoleChef, nil, ref, "/dashboard/kitchen"); err != nil {
		return
	}
	_, _ = s.notifications.Notify(title, message, models.NotificationInfo, models.RoleAdmin, nil, ref, "/dashboard/orders")
}

func (s *OrderService) Get(id uint) (*models.FoodOrder, error) {
	var order models.FoodOrder
	if err := s.db.Preload("Items").Preload("Guest").First(&order, id).Error; err != nil {
		return nil, ErrNotFound
	}
	return &order, nil
}

// List returns all orders newest first, paginated, for staff views.
func (s *OrderService) List(page, limit int) ([]models.FoodOrder, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.FoodOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.FoodOrder
	err := s.db.Preload("Items").Preload("Guest").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	return orders, total, err
}

func (s *OrderService) ListByGuest(guestID uint) ([]models.FoodOrder, error) {
	var orders []models.FoodOrder
	err := s.db.Preload("Items").
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus moves the kitchen-side order machine and broadcasts the change.
func (s *OrderService) UpdateStatus(id uint, status string) (*models.FoodOrder, error) {
	if !models.IsOrderStatus(status) {
		return nil, Validationf("invalid order status: %s", status)
	}

	var order models.FoodOrder
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, ErrNotFound
	}

	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}

	loaded, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(realtime.EventOrderStatusChanged, loaded, "")
	return loaded, nil
}

// CleanupPending bulk-cancels every payment-pending order that no path has
// finalized yet. The completion-timestamp condition keeps already-terminal
// orders untouched.
func (s *OrderService) CleanupPending() (int64, error) {
	now := time.Now()
	res := s.db.Model(&models.FoodOrder{}).
		Where("payment_status = ? AND payment_completed_at IS NULL", models.PaymentStatusPending).
		Updates(map[string]any{
			"status":               models.OrderStatusCancelled,
			"payment_status":       models.PaymentStatusCancelled,
			"payment_completed_at": now,
		})
	return res.RowsAffected, res.Error
}
