package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotel-ops-backend/hyperpay"
	"hotel-ops-backend/models"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWebhookSecret = "whsec-test"

type nopEmitter struct{}

func (nopEmitter) Emit(event string, payload any, channel string) {}

type webhookEnv struct {
	db     *gorm.DB
	router *gin.Engine
	order  *models.FoodOrder
}

// newWebhookEnv wires a callback route against an in-memory database and a
// stub gateway that always reports payment success.
func newWebhookEnv(t *testing.T, secret string) *webhookEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Guest{}, &models.MenuItem{}, &models.FoodOrder{},
		&models.OrderItem{}, &models.Notification{},
	))

	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "txn-1",
			"amount":   "45.00",
			"currency": "AED",
			"result":   map[string]string{"code": "000.000.100", "description": "success"},
		})
	}))
	t.Cleanup(gatewaySrv.Close)

	client := hyperpay.New(hyperpay.Config{
		BaseURL:     gatewaySrv.URL,
		AccessToken: "token",
		EntityIDAED: "entity-aed",
		Mode:        "test",
	}, zerolog.Nop())

	emitter := nopEmitter{}
	notifications := services.NewNotificationService(db, emitter)
	orders := services.NewOrderService(db, emitter, notifications)
	payments := services.NewPaymentService(db, client, orders, emitter)

	guest := models.Guest{Name: "Payer", Email: "payer@example.com", Password: "secret123"}
	require.NoError(t, db.Create(&guest).Error)

	checkoutID := "chk-1"
	order := models.FoodOrder{
		GuestID:       guest.ID,
		RoomNumber:    "204",
		TotalAmount:   45,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodHyperPay,
		PaymentStatus: models.PaymentStatusPending,
		CheckoutID:    &checkoutID,
		Currency:      models.CurrencyAED,
	}
	require.NoError(t, db.Create(&order).Error)

	pc := NewPaymentController(payments, secret, gatewaySrv.URL, zerolog.Nop())
	router := gin.New()
	router.POST("/api/payments/callback/:orderId", pc.Callback)

	return &webhookEnv{db: db, router: router, order: &order}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (env *webhookEnv) post(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/payments/callback/%d", env.order.ID),
		bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-hyperpay-signature", signature)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *webhookEnv) reloadOrder(t *testing.T) *models.FoodOrder {
	t.Helper()
	var order models.FoodOrder
	require.NoError(t, env.db.First(&order, env.order.ID).Error)
	return &order
}

func TestCallbackAcceptsValidSignature(t *testing.T) {
	env := newWebhookEnv(t, testWebhookSecret)

	body := []byte(`{"checkoutId":"chk-1"}`)
	w := env.post(body, sign(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, w.Code)
	order := env.reloadOrder(t)
	assert.Equal(t, models.PaymentStatusSuccess, order.PaymentStatus)
	assert.NotNil(t, order.PaymentCompletedAt)
}

func TestCallbackRejectsMissingSignature(t *testing.T) {
	env := newWebhookEnv(t, testWebhookSecret)

	w := env.post([]byte(`{"checkoutId":"chk-1"}`), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	order := env.reloadOrder(t)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Nil(t, order.PaymentCompletedAt)
}

func TestCallbackRejectsWrongSignature(t *testing.T) {
	env := newWebhookEnv(t, testWebhookSecret)

	body := []byte(`{"checkoutId":"chk-1"}`)
	w := env.post(body, sign("some-other-secret", body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.PaymentStatusPending, env.reloadOrder(t).PaymentStatus)
}

func TestCallbackRejectsTamperedBody(t *testing.T) {
	env := newWebhookEnv(t, testWebhookSecret)

	signature := sign(testWebhookSecret, []byte(`{"checkoutId":"chk-1"}`))
	w := env.post([]byte(`{"checkoutId":"chk-evil"}`), signature)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.PaymentStatusPending, env.reloadOrder(t).PaymentStatus)
}

func TestCallbackRejectsAllWhenSecretUnset(t *testing.T) {
	env := newWebhookEnv(t, "")

	body := []byte(`{"checkoutId":"chk-1"}`)
	w := env.post(body, sign("", body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.PaymentStatusPending, env.reloadOrder(t).PaymentStatus)
}

func TestCallbackRejectsCheckoutMismatch(t *testing.T) {
	env := newWebhookEnv(t, testWebhookSecret)

	body := []byte(`{"checkoutId":"chk-unrelated"}`)
	w := env.post(body, sign(testWebhookSecret, body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.PaymentStatusPending, env.reloadOrder(t).PaymentStatus)
}
