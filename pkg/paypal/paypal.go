package paypal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"
)

// StatusCompleted is the gateway's terminal status of a captured order.
const StatusCompleted = "COMPLETED"

// Config holds the PayPal REST credentials and environment selection.
type Config struct {
	ClientID     string
	ClientSecret string
	Mode         string // "sandbox" (default) or "live"
	BrandName    string
	FrontendURL  string
	// BaseURL overrides the mode-derived host. Used by tests.
	BaseURL string
}

// Client talks to the PayPal Orders v2 API. It re-authenticates on every
// operation; token caching is left to callers that need it.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a PayPal client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("paypal credentials not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Mode == "live" {
			baseURL = liveBaseURL
		} else {
			baseURL = sandboxBaseURL
		}
	}
	if cfg.BrandName == "" {
		cfg.BrandName = "CINC ART"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// AuthError indicates the client-credentials token exchange was rejected.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("paypal auth failed (status %d): %s", e.StatusCode, e.Body)
}

// CreateOrderError indicates the order-create endpoint returned a non-2xx
// response. Body carries the raw gateway error for server-side logging.
type CreateOrderError struct {
	StatusCode int
	Body       string
}

func (e *CreateOrderError) Error() string {
	return fmt.Sprintf("paypal create order failed (status %d): %s", e.StatusCode, e.Body)
}

// CaptureError indicates the capture endpoint returned a non-2xx response.
type CaptureError struct {
	StatusCode int
	Body       string
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("paypal capture order failed (status %d): %s", e.StatusCode, e.Body)
}

// Money is an amount/currency pair in PayPal's string encoding.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Item is a purchase-unit line item.
type Item struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	UnitAmount Money  `json:"unit_amount"`
}

// ShippingAddress is the normalized address block sent with an order.
type ShippingAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AdminArea2   string `json:"admin_area_2"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
}

// Link is a HATEOAS link returned by the Orders API (approve, capture, ...).
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Order is the gateway's representation of a payment intent.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// Payer identifies the buyer on a captured order.
type Payer struct {
	EmailAddress string `json:"email_address"`
}

// CaptureResult is the parsed response of a capture call.
type CaptureResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  *Payer `json:"payer"`
}

// CreateOrderParams describes the order to create at the gateway. Amount and
// Items must already be validated against the stored order by the caller.
type CreateOrderParams struct {
	Amount   float64
	Currency string
	Items    []Item
	Shipping *ShippingAddress
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// getAccessToken exchanges the configured credentials for a bearer token via
// the OAuth2 client-credentials flow.
func (c *Client) getAccessToken() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	return tok.AccessToken, nil
}

// CreateOrder creates a CAPTURE-intent order with a single purchase unit.
// A timestamp-derived PayPal-Request-Id is sent to reduce duplicate orders
// when a request is retried.
func (c *Client) CreateOrder(params CreateOrderParams) (*Order, error) {
	accessToken, err := c.getAccessToken()
	if err != nil {
		return nil, err
	}

	amount := fmt.Sprintf("%.2f", params.Amount)
	purchaseUnit := map[string]interface{}{
		"amount": map[string]interface{}{
			"currency_code": params.Currency,
			"value":         amount,
			"breakdown": map[string]interface{}{
				"item_total": Money{CurrencyCode: params.Currency, Value: amount},
			},
		},
		"items": params.Items,
	}
	if params.Shipping != nil {
		purchaseUnit["shipping"] = map[string]interface{}{
			"address": params.Shipping,
		}
	}

	payload := map[string]interface{}{
		"intent":         "CAPTURE",
		"purchase_units": []interface{}{purchaseUnit},
		"application_context": map[string]interface{}{
			"brand_name":   c.cfg.BrandName,
			"landing_page": "NO_PREFERENCE",
			"user_action":  "PAY_NOW",
			"return_url":   c.cfg.FrontendURL + "/checkout?success=true",
			"cancel_url":   c.cfg.FrontendURL + "/checkout?canceled=true",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create order payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PayPal-Request-Id", fmt.Sprintf("order-%d", time.Now().UnixNano()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create order request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CreateOrderError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode create order response: %w", err)
	}
	return &order, nil
}

// CaptureOrder finalizes an approved gateway order.
func (c *Client) CaptureOrder(orderID string) (*CaptureResult, error) {
	accessToken, err := c.getAccessToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build capture request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capture request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CaptureError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result CaptureResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode capture response: %w", err)
	}
	return &result, nil
}
