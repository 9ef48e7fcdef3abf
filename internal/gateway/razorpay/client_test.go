package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/config"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

func testClient(baseURL string) *Client {
	c := NewClient(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret123",
		Currency:  "INR",
	}, zap.NewNop())
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret123", pass)

		var req orderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(20000), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		json.NewEncoder(w).Encode(orderResponse{
			ID:       "order_abc",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer server.Close()

	order, err := testClient(server.URL).CreateOrder(context.Background(), 200, "rcpt_1")
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.GatewayOrderID)
	assert.Equal(t, int64(20000), order.AmountMinor)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.PublicKey)
}

func TestCreateOrder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"bad key"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateOrder(context.Background(), 200, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestVerifySignature(t *testing.T) {
	client := testClient("")

	mac := hmac.New(sha256.New, []byte("secret123"))
	mac.Write([]byte("order_abc|pay_9xy"))
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature(domain.PaymentProof{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_9xy",
		Signature:        signature,
	}))

	assert.False(t, client.VerifySignature(domain.PaymentProof{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_9xy",
		Signature:        "tampered",
	}))

	// Swapping identifiers invalidates the signature
	assert.False(t, client.VerifySignature(domain.PaymentProof{
		GatewayOrderID:   "pay_9xy",
		GatewayPaymentID: "order_abc",
		Signature:        signature,
	}))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(20000), MinorUnits(200))
	assert.Equal(t, int64(19999), MinorUnits(199.99))
	assert.Equal(t, int64(1), MinorUnits(0.005))
	assert.Equal(t, int64(0), MinorUnits(0))
}
