package services

import (
	"context"
	"fmt"
	"time"

	"hotel-ops-backend/hyperpay"
	"hotel-ops-backend/metrics"
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentService struct {
	db      *gorm.DB
	gateway *hyperpay.Client
	orders  *OrderService
	emitter realtime.Emitter
}

func NewPaymentService(db *gorm.DB, gateway *hyperpay.Client, orders *OrderService, emitter realtime.Emitter) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, orders: orders, emitter: emitter}
}

type CheckoutInput struct {
	Lines         []OrderLine
	RoomNumber    string
	Notes         string
	Currency      string
	CustomerEmail string
	Billing       hyperpay.BillingAddress
}

type CheckoutResult struct {
	CheckoutID string          `json:"checkoutId"`
	Integrity  string          `json:"integrity,omitempty"`
	OrderID    uint            `json:"orderId"`
	Amount     string          `json:"amount"`
	Currency   string          `json:"currency"`
	Result     hyperpay.Result `json:"result"`
}

// CreateCheckout prices the cart, persists a provisional pending order and
// opens a gateway checkout session for it. The order exists before payment is
// confirmed; the cleanup sweep reclaims it if the flow is abandoned.
func (s *PaymentService) CreateCheckout(ctx context.Context, guestID uint, in CheckoutInput) (*CheckoutResult, error) {
	if in.Currency == "" {
		in.Currency = models.CurrencyAED
	}
	if !models.IsCurrency(in.Currency) {
		return nil, Validationf("unsupported currency: %s", in.Currency)
	}

	items, total, err := s.orders.priceLines(in.Lines)
	if err != nil {
		return nil, err
	}

	order := models.FoodOrder{
		GuestID:       guestID,
		RoomNumber:    in.RoomNumber,
		Items:         items,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		Notes:         in.Notes,
		PaymentMethod: models.PaymentMethodHyperPay,
		PaymentStatus: models.PaymentStatusPending,
		Currency:      in.Currency,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}
	metrics.IncOrderPlaced(models.PaymentMethodHyperPay)

	amount := fmt.Sprintf("%.2f", total)
	checkout, err := s.gateway.CreateCheckout(ctx, hyperpay.CheckoutRequest{
		Amount:                amount,
		Currency:              in.Currency,
		MerchantTransactionID: fmt.Sprintf("%d", order.ID),
		CustomerEmail:         in.CustomerEmail,
		Billing:               in.Billing,
	})
	if err != nil {
		// Order stays pending; a later retry or the sweep resolves it.
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.db.Model(&order).Update("checkout_id", checkout.ID).Error; err != nil {
		return nil, err
	}

	return &CheckoutResult{
		CheckoutID: checkout.ID,
		Integrity:  checkout.Integrity,
		OrderID:    order.ID,
		Amount:     amount,
		Currency:   in.Currency,
		Result:     checkout.Result,
	}, nil
}

type PaymentUpdate struct {
	Success       bool            `json:"success"`
	Pending       bool            `json:"pending"`
	PaymentStatus string          `json:"paymentStatus"`
	Result        hyperpay.Result `json:"result"`
	TransactionID string          `json:"transactionId,omitempty"`
	PaymentBrand  string          `json:"paymentBrand,omitempty"`
	Amount        string          `json:"amount,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	OrderID       uint            `json:"orderId"`
}

// PollStatus queries the gateway for a checkout owned by guestID and persists
// the classified outcome. An indeterminate (pending) result changes nothing;
// the caller may poll again.
func (s *PaymentService) PollStatus(ctx context.Context, guestID uint, checkoutID string) (*PaymentUpdate, error) {
	var order models.FoodOrder
	if err := s.db.Where("checkout_id = ?", checkoutID).First(&order).Error; err != nil {
		return nil, ErrNotFound
	}
	if order.GuestID != guestID {
		return nil, ErrForbidden
	}

	status, err := s.gateway.PaymentStatus(ctx, checkoutID, order.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	outcome := hyperpay.Classify(status.Result.Code)
	if err := s.applyOutcome(&order, outcome, status, "poll"); err != nil {
		return nil, err
	}

	return &PaymentUpdate{
		Success:       outcome == hyperpay.OutcomeSuccess,
		Pending:       outcome == hyperpay.OutcomePending,
		PaymentStatus: paymentStatusFor(outcome),
		Result:        status.Result,
		TransactionID: status.ID,
		PaymentBrand:  status.PaymentBrand,
		Amount:        status.Amount,
		Currency:      status.Currency,
		OrderID:       order.ID,
	}, nil
}

// HandleCallback applies a webhook-pushed result to an order. The caller has
// already verified the request signature; this cross-checks the checkout id
// against the order before any state change. The currency used for the status
// query is the one stored on the order, never one from the payload.
func (s *PaymentService) HandleCallback(ctx context.Context, orderID uint, checkoutID string) (*PaymentUpdate, error) {
	var order models.FoodOrder
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, ErrNotFound
	}
	if order.CheckoutID == nil || *order.CheckoutID != checkoutID {
		return nil, Validationf("checkout ID mismatch")
	}

	status, err := s.gateway.PaymentStatus(ctx, checkoutID, order.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	outcome := hyperpay.Classify(status.Result.Code)
	if err := s.applyOutcome(&order, outcome, status, "webhook"); err != nil {
		return nil, err
	}

	return &PaymentUpdate{
		Success:       outcome == hyperpay.OutcomeSuccess,
		Pending:       outcome == hyperpay.OutcomePending,
		PaymentStatus: paymentStatusFor(outcome),
		Result:        status.Result,
		TransactionID: status.ID,
		OrderID:       order.ID,
	}, nil
}

func paymentStatusFor(outcome hyperpay.Outcome) string {
	switch outcome {
	case hyperpay.OutcomeSuccess:
		return models.PaymentStatusSuccess
	case hyperpay.OutcomePending:
		return models.PaymentStatusPending
	default:
		return models.PaymentStatusFailed
	}
}

// applyOutcome persists a terminal classification through the finalize guard.
// Pending outcomes are no-ops. On success the order becomes visible to staff:
// the new-order event fires only if this call actually finalized it.
func (s *PaymentService) applyOutcome(order *models.FoodOrder, outcome hyperpay.Outcome, status *hyperpay.PaymentStatusResponse, source string) error {
	if outcome == hyperpay.OutcomePending {
		return nil
	}

	updates := map[string]any{
		"payment_response":     datatypes.JSON(status.Raw),
		"payment_completed_at": time.Now(),
	}
	if outcome == hyperpay.OutcomeSuccess {
		updates["payment_status"] = models.PaymentStatusSuccess
		updates["transaction_id"] = status.ID
		updates["status"] = models.OrderStatusPending // confirmed, ready for the kitchen
	} else {
		updates["payment_status"] = models.PaymentStatusFailed
		updates["status"] = models.OrderStatusCancelled
	}

	finalized, err := s.finalize(order.ID, updates)
	if err != nil {
		return err
	}
	if !finalized {
		return nil // another path won the race; nothing more to do
	}
	metrics.IncPaymentOutcome(source, outcome.String())

	if outcome == hyperpay.OutcomeSuccess {
		if loaded, err := s.orders.Get(order.ID); err == nil {
			s.emitter.Emit(realtime.EventNewFoodOrder, loaded, "")
			s.orders.announce(loaded)
		}
	}
	return nil
}

// finalize is the write-once guard shared by poll, webhook and sweep: the
// conditional update succeeds only while payment_completed_at is unset, so
// racing paths cannot double-process an order. Reports whether this call won.
func (s *PaymentService) finalize(orderID uint, updates map[string]any) (bool, error) {
	res := s.db.Model(&models.FoodOrder{}).
		Where("id = ? AND payment_completed_at IS NULL", orderID).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type RegistrationResult struct {
	Success        bool                  `json:"success"`
	CheckoutID     string                `json:"checkoutId,omitempty"`
	RegistrationID string                `json:"registrationId,omitempty"`
	Result         hyperpay.Result       `json:"result"`
	Card           *hyperpay.CardDetails `json:"card,omitempty"`
	PaymentBrand   string                `json:"paymentBrand,omitempty"`
	ScriptURL      string                `json:"scriptUrl,omitempty"`
}

// CreateRegistration opens a card-tokenization session.
func (s *PaymentService) CreateRegistration(ctx context.Context, customerEmail string, billing hyperpay.BillingAddress, baseURL string) (*RegistrationResult, error) {
	resp, err := s.gateway.CreateRegistration(ctx, customerEmail, billing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &RegistrationResult{
		Success:    true,
		CheckoutID: resp.ID,
		Result:     resp.Result,
		ScriptURL:  fmt.Sprintf("%s/v1/paymentWidgets.js?checkoutId=%s/registration", baseURL, resp.ID),
	}, nil
}

// RegistrationStatus checks whether tokenization succeeded; on success the
// returned registration id is the reusable card token.
func (s *PaymentService) RegistrationStatus(ctx context.Context, checkoutID string) (*RegistrationResult, error) {
	status, err := s.gateway.RegistrationStatus(ctx, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &RegistrationResult{
		Success:        hyperpay.IsSuccessCode(status.Result.Code),
		RegistrationID: status.ID,
		Result:         status.Result,
		Card:           status.Card,
		PaymentBrand:   status.PaymentBrand,
	}, nil
}

// PayWithToken charges a saved card token.
func (s *PaymentService) PayWithToken(ctx context.Context, registrationID, amount, currency string) (*PaymentUpdate, error) {
	if registrationID == "" || amount == "" {
		return nil, Validationf("missing registrationId or amount")
	}
	if currency == "" {
		currency = models.CurrencyAED
	}

	status, err := s.gateway.PayWithToken(ctx, registrationID, amount, currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	outcome := hyperpay.Classify(status.Result.Code)
	return &PaymentUpdate{
		Success:       outcome == hyperpay.OutcomeSuccess,
		Pending:       outcome == hyperpay.OutcomePending,
		PaymentStatus: paymentStatusFor(outcome),
		Result:        status.Result,
		TransactionID: status.ID,
	}, nil
}
