// Package payment talks to the Razorpay orders API and checks checkout signatures.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

var (
	// ErrGateway wraps every failure to obtain an order handle.
	ErrGateway = errors.New("payment gateway error")
	// ErrBadSignature means a checkout confirmation was not issued by the gateway.
	ErrBadSignature = errors.New("payment signature mismatch")
)

// Order is the gateway handle the checkout widget opens.
type Order struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// Confirmation is the opaque payload the checkout widget passes to its success callback.
type Confirmation struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string) (*Order, error)
	VerifySignature(c Confirmation) error
	KeyID() string
}

type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	now       func() time.Time
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
		now:       time.Now,
	}
}

func (c *Client) KeyID() string { return c.keyID }

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder asks the gateway for an order handle worth amountMinor.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency string) (*Order, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrGateway)
	}
	payload, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  fmt.Sprintf("receipt_%d", c.now().UnixMilli()),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var order Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
		}
		return &order, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("%w: %s %s", ErrGateway, e.Error.Code, e.Error.Description)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status: %d, body: %s", ErrGateway, resp.StatusCode, string(body))
	}
}

// VerifySignature checks the HMAC-SHA256 of "orderId|paymentId" under the key secret.
func (c *Client) VerifySignature(conf Confirmation) error {
	expected := Sign(c.keySecret, conf.OrderID, conf.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(conf.Signature)) {
		return ErrBadSignature
	}
	return nil
}

func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
