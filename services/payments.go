package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrPaymentUnavailable wraps any failure to reach the payment processor or a
// non-success answer from it. Callers surface it as a generic failure.
var ErrPaymentUnavailable = errors.New("payment processor unavailable")

// OrderStatusCompleted is the processor's terminal success status.
const OrderStatusCompleted = "COMPLETED"

// PaymentCurrency is the fixed currency for all orders.
const PaymentCurrency = "USD"

// PaymentOrder is the processor-side view of an order.
type PaymentOrder struct {
	ID          string
	Status      string
	Amount      string // decimal amount string as reported by the processor
	ApproveLink string
}

// PaymentProcessor creates processor orders and re-queries them for the
// authoritative capture state. The booking status transition to paid happens
// only after GetOrder confirms the captured amount.
type PaymentProcessor interface {
	CreateOrder(amount float64) (*PaymentOrder, error)
	GetOrder(orderID string) (*PaymentOrder, error)
}

// PayPalClient talks to the PayPal Orders v2 REST API.
// Configuration via environment variables: PAYPAL_CLIENT_ID,
// PAYPAL_CLIENT_SECRET, PAYPAL_API_BASE (defaults to the sandbox).
type PayPalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewPayPalClient() *PayPalClient {
	base := os.Getenv("PAYPAL_API_BASE")
	if base == "" {
		base = "https://api-m.sandbox.paypal.com"
	}
	return &PayPalClient{
		baseURL:      strings.TrimRight(base, "/"),
		clientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		clientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PayPalClient) accessToken() (string, error) {
	form := url.Values{}
	form.Add("grant_type", "client_credentials")

	req, err := http.NewRequest("POST", c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("%w: token request failed with status %d: %s", ErrPaymentUnavailable, res.StatusCode, string(body))
	}

	var tokenRes struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&tokenRes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	if tokenRes.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrPaymentUnavailable)
	}
	return tokenRes.AccessToken, nil
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount   paypalAmount `json:"amount"`
		Payments struct {
			Captures []struct {
				Status string       `json:"status"`
				Amount paypalAmount `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func (r *paypalOrderResponse) toPaymentOrder() *PaymentOrder {
	order := &PaymentOrder{ID: r.ID, Status: r.Status}
	if len(r.PurchaseUnits) > 0 {
		unit := r.PurchaseUnits[0]
		order.Amount = unit.Amount.Value
		// Prefer the captured amount when a capture exists: that is what the
		// processor actually charged.
		for _, capture := range unit.Payments.Captures {
			if capture.Status == OrderStatusCompleted {
				order.Amount = capture.Amount.Value
				break
			}
		}
	}
	for _, link := range r.Links {
		if link.Rel == "approve" {
			order.ApproveLink = link.Href
			break
		}
	}
	return order
}

// CreateOrder registers a capture-intent order for the given amount.
func (c *PayPalClient) CreateOrder(amount float64) (*PaymentOrder, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": paypalAmount{
					CurrencyCode: PaymentCurrency,
					Value:        FormatAmount(amount),
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.baseURL+"/v2/checkout/orders", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("%w: create order failed with status %d: %s", ErrPaymentUnavailable, res.StatusCode, string(raw))
	}

	var orderRes paypalOrderResponse
	if err := json.NewDecoder(res.Body).Decode(&orderRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	return orderRes.toPaymentOrder(), nil
}

// GetOrder fetches the authoritative order state from the processor.
func (c *PayPalClient) GetOrder(orderID string) (*PaymentOrder, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", c.baseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: order %s not found", ErrPaymentUnavailable, orderID)
	}
	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("%w: get order failed with status %d: %s", ErrPaymentUnavailable, res.StatusCode, string(raw))
	}

	var orderRes paypalOrderResponse
	if err := json.NewDecoder(res.Body).Decode(&orderRes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	return orderRes.toPaymentOrder(), nil
}

// FormatAmount renders a price as the two-decimal string the processor expects.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// AmountMatches reports whether the processor's decimal amount string equals
// the stored booking price, tolerating float formatting noise below a cent.
func AmountMatches(reported string, total float64) bool {
	parsed, err := strconv.ParseFloat(reported, 64)
	if err != nil {
		return false
	}
	return math.Abs(parsed-total) < 0.005
}
