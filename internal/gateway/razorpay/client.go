package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/config"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

const apiBaseURL = "https://api.razorpay.com/v1"

// Client talks to the Razorpay Orders REST API
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	currency   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Razorpay API client
func NewClient(cfg config.RazorpayConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   apiBaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// orderRequest is the Razorpay order creation payload
type orderRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// orderResponse is the Razorpay order creation response
type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder creates a gateway order for the given amount in major currency
// units and returns the handle the modal is opened with
func (c *Client) CreateOrder(ctx context.Context, amount float64, receipt string) (*domain.GatewayOrder, error) {
	reqBody := orderRequest{
		Amount:   MinorUnits(amount),
		Currency: c.currency,
		Receipt:  receipt,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var orderResp orderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	c.logger.Info("Razorpay order created",
		zap.String("gateway_order_id", orderResp.ID),
		zap.Int64("amount_minor", orderResp.Amount),
	)

	return &domain.GatewayOrder{
		GatewayOrderID: orderResp.ID,
		AmountMinor:    orderResp.Amount,
		Currency:       orderResp.Currency,
		PublicKey:      c.keyID,
	}, nil
}

// VerifySignature checks the payment signature returned by the modal success
// callback: HMAC-SHA256 over "orderID|paymentID" keyed with the key secret.
func (c *Client) VerifySignature(proof domain.PaymentProof) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(proof.GatewayOrderID + "|" + proof.GatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(proof.Signature)) == 1
}

// MinorUnits converts a major-unit amount to the gateway's minor currency
// unit (paise)
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
