package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

// Client is a REST client for the storefront API. It implements the checkout
// collaborator contracts (address book and orders) over HTTP, scoped to one
// buyer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a storefront API client
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GetAddressBook fetches the buyer's saved addresses. The buyer is
// identified by the client's token; buyerID labels the returned book.
func (c *Client) GetAddressBook(ctx context.Context, buyerID uuid.UUID) (*domain.AddressBook, error) {
	var resp struct {
		Addresses []domain.ShippingAddress `json:"addresses"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/user/addresses", nil, &resp); err != nil {
		return nil, err
	}
	return &domain.AddressBook{BuyerID: buyerID, Addresses: resp.Addresses}, nil
}

// SaveAddress appends a new address and returns the full updated book
func (c *Client) SaveAddress(ctx context.Context, buyerID uuid.UUID, addr domain.ShippingAddress) (*domain.AddressBook, error) {
	var resp struct {
		Addresses []domain.ShippingAddress `json:"addresses"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/addresses", addr, &resp); err != nil {
		return nil, err
	}
	return &domain.AddressBook{BuyerID: buyerID, Addresses: resp.Addresses}, nil
}

type orderEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Order   json.RawMessage `json:"order"`
}

// CreateOrder places a cash-on-delivery order
func (c *Client) CreateOrder(ctx context.Context, submission *domain.OrderSubmission) (*domain.Order, error) {
	return c.submitOrder(ctx, "/api/order/create", map[string]interface{}{
		"items":    submission.Items,
		"discount": submission.Discount,
		"shipping": submission.Shipping,
	})
}

// CreateGatewayOrder requests a gateway order handle for the given amount
func (c *Client) CreateGatewayOrder(ctx context.Context, amount float64) (*domain.GatewayOrder, error) {
	var resp struct {
		Success        bool   `json:"success"`
		Message        string `json:"message"`
		GatewayOrderID string `json:"gateway_order_id"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
		Key            string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/order/razorpay", map[string]interface{}{"amount": amount}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("could not initiate payment: %s", resp.Message)
	}
	return &domain.GatewayOrder{
		GatewayOrderID: resp.GatewayOrderID,
		AmountMinor:    resp.Amount,
		Currency:       resp.Currency,
		PublicKey:      resp.Key,
	}, nil
}

// VerifyPayment verifies the gateway signature and persists the order
func (c *Client) VerifyPayment(ctx context.Context, proof domain.PaymentProof, submission *domain.OrderSubmission) (*domain.Order, error) {
	return c.submitOrder(ctx, "/api/order/verify", map[string]interface{}{
		"gateway_order_id":   proof.GatewayOrderID,
		"gateway_payment_id": proof.GatewayPaymentID,
		"signature":          proof.Signature,
		"items":              submission.Items,
		"discount":           submission.Discount,
		"shipping":           submission.Shipping,
	})
}

func (c *Client) submitOrder(ctx context.Context, path string, body interface{}) (*domain.Order, error) {
	var envelope orderEnvelope
	if err := c.do(ctx, http.MethodPost, path, body, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("order request rejected: %s", envelope.Message)
	}

	var wire struct {
		ID            string                 `json:"id"`
		Status        domain.OrderStatus     `json:"status"`
		PaymentMethod domain.PaymentMethod   `json:"payment_method"`
		PaymentStatus domain.PaymentStatus   `json:"payment_status"`
		TotalAmount   float64                `json:"total_amount"`
		Discount      float64                `json:"discount"`
		FinalAmount   float64                `json:"final_amount"`
		Shipping      domain.ShippingAddress `json:"shipping"`
		Items         []domain.OrderItem     `json:"items"`
		CreatedAt     time.Time              `json:"created_at"`
	}
	if err := json.Unmarshal(envelope.Order, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	orderID, err := uuid.Parse(wire.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", wire.ID, err)
	}

	return &domain.Order{
		ID:            orderID,
		Status:        wire.Status,
		PaymentMethod: wire.PaymentMethod,
		PaymentStatus: wire.PaymentStatus,
		TotalAmount:   wire.TotalAmount,
		Discount:      wire.Discount,
		FinalAmount:   wire.FinalAmount,
		Shipping:      wire.Shipping,
		Items:         wire.Items,
		CreatedAt:     wire.CreatedAt,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storefront API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(respBody))
		}
	}
	return nil
}
