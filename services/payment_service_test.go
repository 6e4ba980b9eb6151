package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel-ops-backend/hyperpay"
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway plays the payment gateway over HTTP: checkouts get a fixed id,
// status queries answer with whatever result code the test sets.
type fakeGateway struct {
	srv *httptest.Server

	mu         sync.Mutex
	statusCode string
	txnID      string
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{statusCode: "000.200.100", txnID: "txn-1"}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkouts":
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "chk-1",
				"result": map[string]string{"code": "000.200.100", "description": "created"},
			})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/payment"):
			g.mu.Lock()
			code, txn := g.statusCode, g.txnID
			g.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]any{
				"id":       txn,
				"amount":   "45.00",
				"currency": "AED",
				"result":   map[string]string{"code": code, "description": "test"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"result":{"code":"200.300.404","description":"not found"}}`)
		}
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *fakeGateway) setStatus(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCode = code
}

type paymentEnv struct {
	db       *gorm.DB
	payments *PaymentService
	orders   *OrderService
	emitter  *fakeEmitter
	gateway  *fakeGateway
}

func newPaymentEnv(t *testing.T) *paymentEnv {
	t.Helper()
	db := newTestDB(t)
	gateway := newFakeGateway(t)
	client := hyperpay.New(hyperpay.Config{
		BaseURL:     gateway.srv.URL,
		AccessToken: "token",
		EntityIDAED: "entity-aed",
		EntityIDUSD: "entity-usd",
		Mode:        "test",
	}, zerolog.Nop())

	emitter := &fakeEmitter{}
	notifications := NewNotificationService(db, emitter)
	orders := NewOrderService(db, emitter, notifications)
	payments := NewPaymentService(db, client, orders, emitter)
	return &paymentEnv{db: db, payments: payments, orders: orders, emitter: emitter, gateway: gateway}
}

func (env *paymentEnv) createCheckout(t *testing.T, guestID uint) *CheckoutResult {
	t.Helper()
	burger := seedMenuItem(t, env.db, "Burger", 45)
	result, err := env.payments.CreateCheckout(context.Background(), guestID, CheckoutInput{
		Lines:      []OrderLine{{MenuItemID: burger.ID, Quantity: 1}},
		RoomNumber: "204",
		Currency:   models.CurrencyAED,
	})
	require.NoError(t, err)
	return result
}

func TestCreateCheckoutPersistsProvisionalOrder(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")

	result := env.createCheckout(t, guest.ID)
	assert.Equal(t, "chk-1", result.CheckoutID)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentMethodHyperPay, order.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.CheckoutID)
	assert.Equal(t, "chk-1", *order.CheckoutID)
	assert.Nil(t, order.PaymentCompletedAt)
}

func TestCreateCheckoutRejectsUnknownCurrency(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")

	_, err := env.payments.CreateCheckout(context.Background(), guest.ID, CheckoutInput{
		Lines:    []OrderLine{{MenuItemID: 1, Quantity: 1}},
		Currency: "EUR",
	})
	assert.True(t, IsValidation(err))
}

func TestPollStatusFinalizesSuccess(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")
	result := env.createCheckout(t, guest.ID)

	env.gateway.setStatus("000.000.100")
	update, err := env.payments.PollStatus(context.Background(), guest.ID, result.CheckoutID)
	require.NoError(t, err)
	assert.True(t, update.Success)
	assert.False(t, update.Pending)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentStatusSuccess, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.TransactionID)
	assert.Equal(t, "txn-1", *order.TransactionID)
	assert.NotNil(t, order.PaymentCompletedAt)
	assert.NotEmpty(t, order.PaymentResponse)

	// Kitchen only hears about the order once it is paid for.
	assert.Equal(t, 1, env.emitter.count(realtime.EventNewFoodOrder))
}

func TestPollStatusPendingChangesNothing(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")
	result := env.createCheckout(t, guest.ID)

	env.gateway.setStatus("000.200.100")
	update, err := env.payments.PollStatus(context.Background(), guest.ID, result.CheckoutID)
	require.NoError(t, err)
	assert.True(t, update.Pending)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Nil(t, order.PaymentCompletedAt)
	assert.Equal(t, 0, env.emitter.count(realtime.EventNewFoodOrder))
}

func TestFinalizedOrderCannotBeReprocessed(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")
	result := env.createCheckout(t, guest.ID)

	env.gateway.setStatus("000.000.100")
	_, err := env.payments.PollStatus(context.Background(), guest.ID, result.CheckoutID)
	require.NoError(t, err)

	// A later failure report must not flip the already finalized order.
	env.gateway.setStatus("100.400.000")
	_, err = env.payments.PollStatus(context.Background(), guest.ID, result.CheckoutID)
	require.NoError(t, err)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentStatusSuccess, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 1, env.emitter.count(realtime.EventNewFoodOrder))
}

func TestPollStatusEnforcesOwnership(t *testing.T) {
	env := newPaymentEnv(t)
	owner := seedGuest(t, env.db, "owner@example.com")
	other := seedGuest(t, env.db, "other@example.com")
	result := env.createCheckout(t, owner.ID)

	_, err := env.payments.PollStatus(context.Background(), other.ID, result.CheckoutID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHandleCallbackCrossChecksCheckoutID(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")
	result := env.createCheckout(t, guest.ID)

	_, err := env.payments.HandleCallback(context.Background(), result.OrderID, "chk-other")
	assert.True(t, IsValidation(err))

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestHandleCallbackFailureCancelsOrder(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")
	result := env.createCheckout(t, guest.ID)

	env.gateway.setStatus("100.400.000")
	update, err := env.payments.HandleCallback(context.Background(), result.OrderID, result.CheckoutID)
	require.NoError(t, err)
	assert.False(t, update.Success)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.NotNil(t, order.PaymentCompletedAt)
	assert.Equal(t, 0, env.emitter.count(realtime.EventNewFoodOrder))
}

func TestSweepCancelsOnlyStaleUnpaidOrders(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")

	stale := env.createCheckout(t, guest.ID)
	fresh := env.createCheckout(t, guest.ID)

	old := time.Now().Add(-10 * time.Minute)
	require.NoError(t, env.db.Model(&models.FoodOrder{}).
		Where("id = ?", stale.OrderID).
		Update("created_at", old).Error)

	sweep := NewCleanupService(env.db, zerolog.Nop())
	cancelled, err := sweep.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, stale.OrderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
	assert.NotNil(t, order.PaymentCompletedAt)

	order = models.FoodOrder{}
	require.NoError(t, env.db.First(&order, fresh.OrderID).Error)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Nil(t, order.PaymentCompletedAt)
}

func TestSweepSkipsFinalizedOrders(t *testing.T) {
	env := newPaymentEnv(t)
	guest := seedGuest(t, env.db, "payer@example.com")
	result := env.createCheckout(t, guest.ID)

	env.gateway.setStatus("000.000.100")
	_, err := env.payments.PollStatus(context.Background(), guest.ID, result.CheckoutID)
	require.NoError(t, err)

	old := time.Now().Add(-10 * time.Minute)
	require.NoError(t, env.db.Model(&models.FoodOrder{}).
		Where("id = ?", result.OrderID).
		Update("created_at", old).Error)

	sweep := NewCleanupService(env.db, zerolog.Nop())
	cancelled, err := sweep.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)

	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentStatusSuccess, order.PaymentStatus)
}
