package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"hotel-ops-backend/hyperpay"
	"hotel-ops-backend/middleware"
	"hotel-ops-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type PaymentController struct {
	payments      *services.PaymentService
	webhookSecret string
	gatewayURL    string
	log           zerolog.Logger
}

func NewPaymentController(payments *services.PaymentService, webhookSecret, gatewayURL string, log zerolog.Logger) *PaymentController {
	return &PaymentController{
		payments:      payments,
		webhookSecret: webhookSecret,
		gatewayURL:    gatewayURL,
		log:           log.With().Str("component", "payments").Logger(),
	}
}

type checkoutPayload struct {
	Items         []services.OrderLine    `json:"items" binding:"required,min=1,dive"`
	RoomNumber    string                  `json:"roomNumber" binding:"required"`
	Notes         string                  `json:"notes"`
	Currency      string                  `json:"currency"`
	CustomerEmail string                  `json:"customerEmail"`
	Billing       hyperpay.BillingAddress `json:"billing"`
}

// CreateCheckout opens a gateway checkout session for the current guest's
// cart. POST /api/payments/checkout
func (pc *PaymentController) CreateCheckout(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok || session.Kind != middleware.SessionGuest {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only guests can pay for orders"})
		return
	}

	var payload checkoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	result, err := pc.payments.CreateCheckout(c.Request.Context(), session.Guest.ID, services.CheckoutInput{
		Lines:         payload.Items,
		RoomNumber:    payload.RoomNumber,
		Notes:         payload.Notes,
		Currency:      payload.Currency,
		CustomerEmail: payload.CustomerEmail,
		Billing:       payload.Billing,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PollStatus fetches and persists the outcome of a checkout the current guest
// owns. GET /api/payments/status/:checkoutId
func (pc *PaymentController) PollStatus(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok || session.Kind != middleware.SessionGuest {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only guests can poll payment status"})
		return
	}

	update, err := pc.payments.PollStatus(c.Request.Context(), session.Guest.ID, c.Param("checkoutId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

type callbackPayload struct {
	CheckoutID string `json:"checkoutId"`
	ID         string `json:"id"`
}

func (p callbackPayload) checkoutID() string {
	if p.CheckoutID != "" {
		return p.CheckoutID
	}
	return p.ID
}

// verifySignature checks the hex HMAC-SHA256 of the exact raw body against the
// x-hyperpay-signature header. An unset secret rejects every request rather
// than accepting all of them.
func (pc *PaymentController) verifySignature(body []byte, header string) bool {
	if pc.webhookSecret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(pc.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}

// Callback handles gateway webhook pushes. The signature is verified over the
// raw body before anything is parsed or touched. POST /api/payments/callback/:orderId
func (pc *PaymentController) Callback(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to read request body"})
		return
	}

	if !pc.verifySignature(body, c.GetHeader("x-hyperpay-signature")) {
		pc.log.Warn().Str("remote", c.ClientIP()).Msg("rejected webhook with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid webhook signature"})
		return
	}

	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}

	var payload callbackPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.checkoutID() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid webhook payload"})
		return
	}

	update, err := pc.payments.HandleCallback(c.Request.Context(), orderID, payload.checkoutID())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

type registrationPayload struct {
	CustomerEmail string                  `json:"customerEmail"`
	Billing       hyperpay.BillingAddress `json:"billing"`
}

// CreateRegistration opens a card-tokenization session.
// POST /api/payments/registration
func (pc *PaymentController) CreateRegistration(c *gin.Context) {
	var payload registrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	result, err := pc.payments.CreateRegistration(c.Request.Context(), payload.CustomerEmail, payload.Billing, pc.gatewayURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegistrationStatus reports whether tokenization finished.
// GET /api/payments/registration/:checkoutId
func (pc *PaymentController) RegistrationStatus(c *gin.Context) {
	result, err := pc.payments.RegistrationStatus(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type tokenPaymentPayload struct {
	RegistrationID string `json:"registrationId" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	Currency       string `json:"currency"`
}

// PayWithToken charges a previously stored card token.
// POST /api/payments/token-payment
func (pc *PaymentController) PayWithToken(c *gin.Context) {
	var payload tokenPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
		return
	}

	update, err := pc.payments.PayWithToken(c.Request.Context(), payload.RegistrationID, payload.Amount, payload.Currency)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}
