package hyperpay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the gateway credentials. Entity ids are scoped per currency by
// the merchant account.
type Config struct {
	BaseURL     string
	AccessToken string
	EntityIDAED string
	EntityIDUSD string
	Mode        string // "test" or "live"
	Timeout     time.Duration
}

// Client is a stateless HTTP wrapper around the HyperPay server-to-server API.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With().Str("component", "hyperpay").Logger(),
	}
}

type BillingAddress struct {
	GivenName string `json:"givenName"`
	Surname   string `json:"surname"`
	Street1   string `json:"street1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"` // ISO alpha-2
	Postcode  string `json:"postcode"`
}

type CheckoutRequest struct {
	Amount                string
	Currency              string
	MerchantTransactionID string
	CustomerEmail         string
	Billing               BillingAddress
}

type Result struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type CheckoutResponse struct {
	ID        string `json:"id"`
	Integrity string `json:"integrity,omitempty"` // SRI hash for the payment widget script
	Result    Result `json:"result"`
	Timestamp string `json:"timestamp"`
	NDC       string `json:"ndc"`
}

type CardDetails struct {
	Bin         string `json:"bin"`
	Last4Digits string `json:"last4Digits"`
	Holder      string `json:"holder"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
}

type PaymentStatusResponse struct {
	ID                    string       `json:"id"`
	PaymentType           string       `json:"paymentType"`
	PaymentBrand          string       `json:"paymentBrand"`
	Amount                string       `json:"amount"`
	Currency              string       `json:"currency"`
	Result                Result       `json:"result"`
	Card                  *CardDetails `json:"card,omitempty"`
	MerchantTransactionID string       `json:"merchantTransactionId"`
	Timestamp             string       `json:"timestamp"`

	// Raw is the unparsed response body, kept so callers can persist the
	// gateway response verbatim.
	Raw json.RawMessage `json:"-"`
}

func (c *Client) entityID(currency string) string {
	if currency == "USD" {
		return c.cfg.EntityIDUSD
	}
	return c.cfg.EntityIDAED
}

func (c *Client) isTest() bool { return c.cfg.Mode == "test" }

// formatAmount forces whole xx.00 amounts on the test server, which rejects
// arbitrary decimals for some test card flows.
func (c *Client) formatAmount(amount string) string {
	if !c.isTest() {
		return amount
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	return strconv.FormatFloat(math.Floor(v), 'f', 2, 64)
}

// CreateCheckout prepares a payment session and returns its checkout id.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	params := url.Values{}
	params.Set("entityId", c.entityID(req.Currency))
	params.Set("amount", c.formatAmount(req.Amount))
	params.Set("currency", req.Currency)
	params.Set("paymentType", "DB")
	params.Set("integrity", "true")
	if c.isTest() {
		params.Set("testMode", "EXTERNAL")
		params.Set("customParameters[3DS2_enrolled]", "true")
	}
	if req.MerchantTransactionID != "" {
		params.Set("merchantTransactionId", req.MerchantTransactionID)
	}
	setCustomerParams(params, req.CustomerEmail, req.Billing)

	c.log.Info().
		Str("currency", req.Currency).
		Str("amount", c.formatAmount(req.Amount)).
		Msg("preparing checkout")

	var out CheckoutResponse
	if err := c.post(ctx, "/v1/checkouts", params, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentStatus fetches the outcome of a checkout's payment attempt.
func (c *Client) PaymentStatus(ctx context.Context, checkoutID, currency string) (*PaymentStatusResponse, error) {
	path := fmt.Sprintf("/v1/checkouts/%s/payment", url.PathEscape(checkoutID))
	return c.getStatus(ctx, path, c.entityID(currency))
}

// CreateRegistration prepares a card-tokenization session.
func (c *Client) CreateRegistration(ctx context.Context, customerEmail string, billing BillingAddress) (*CheckoutResponse, error) {
	params := url.Values{}
	params.Set("entityId", c.cfg.EntityIDAED)
	params.Set("createRegistration", "true")
	if c.isTest() {
		params.Set("testMode", "EXTERNAL")
	}
	setCustomerParams(params, customerEmail, billing)

	var out CheckoutResponse
	if err := c.post(ctx, "/v1/checkouts", params, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegistrationStatus fetches the outcome of a tokenization attempt; on success
// the response id is the reusable registration token.
func (c *Client) RegistrationStatus(ctx context.Context, checkoutID string) (*PaymentStatusResponse, error) {
	path := fmt.Sprintf("/v1/checkouts/%s/registration", url.PathEscape(checkoutID))
	return c.getStatus(ctx, path, c.cfg.EntityIDAED)
}

// PayWithToken charges a previously registered card token.
func (c *Client) PayWithToken(ctx context.Context, registrationID, amount, currency string) (*PaymentStatusResponse, error) {
	params := url.Values{}
	params.Set("entityId", c.entityID(currency))
	params.Set("amount", amount)
	params.Set("currency", currency)
	params.Set("paymentType", "DB")
	params.Set("paymentBrand", "VISA")
	params.Set("standingInstruction.type", "UNSCHEDULED")
	params.Set("standingInstruction.mode", "INITIAL")
	params.Set("standingInstruction.source", "CIT")
	if c.isTest() {
		params.Set("testMode", "EXTERNAL")
	}

	path := fmt.Sprintf("/v1/registrations/%s/payments", url.PathEscape(registrationID))
	var out PaymentStatusResponse
	var raw json.RawMessage
	if err := c.post(ctx, path, params, &out, &raw); err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

func setCustomerParams(params url.Values, email string, billing BillingAddress) {
	if email != "" {
		params.Set("customer.email", email)
	}
	if billing.GivenName != "" {
		params.Set("customer.givenName", billing.GivenName)
		params.Set("customer.surname", billing.Surname)
	}
	if billing.Street1 != "" {
		params.Set("billing.street1", billing.Street1)
		params.Set("billing.city", billing.City)
		params.Set("billing.state", billing.State)
		params.Set("billing.country", billing.Country)
		params.Set("billing.postcode", billing.Postcode)
	}
}

func (c *Client) getStatus(ctx context.Context, path, entityID string) (*PaymentStatusResponse, error) {
	u := c.cfg.BaseURL + path + "?entityId=" + url.QueryEscape(entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var out PaymentStatusResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("hyperpay: decode status response: %w", err)
	}
	out.Raw = body
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, params url.Values, out any, raw *json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if raw != nil {
		*raw = body
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("hyperpay: decode response: %w", err)
	}
	return nil
}

// do executes the request and returns the body. Gateway errors still carry a
// JSON body with a result code, so 4xx responses are returned to the caller
// for classification; transport failures and 5xx are errors.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("url", req.URL.Path).Msg("gateway request failed")
		return nil, fmt.Errorf("hyperpay: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hyperpay: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Error().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("gateway error response")
		return nil, fmt.Errorf("hyperpay: gateway returned status %d", resp.StatusCode)
	}
	return body, nil
}
