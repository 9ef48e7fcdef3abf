package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

type modalFunc func(ctx context.Context, session Session, callbacks Callbacks) error

func (f modalFunc) Open(ctx context.Context, session Session, callbacks Callbacks) error {
	return f(ctx, session, callbacks)
}

func readyLoader(t *testing.T) *Loader {
	t.Helper()
	loader := NewLoader(&recordingRegistry{present: true}, "", zap.NewNop())
	loader.EnsureLoaded()
	return loader
}

func testSession() Session {
	return Session{
		PublicKey:      "rzp_test_key",
		GatewayOrderID: "order_test123",
		AmountMinor:    20000,
		Currency:       "INR",
	}
}

func TestOpen_Success(t *testing.T) {
	proof := domain.PaymentProof{
		GatewayOrderID:   "order_test123",
		GatewayPaymentID: "pay_9xy",
		Signature:        "sig",
	}
	bridge := NewBridge(readyLoader(t), modalFunc(func(ctx context.Context, session Session, callbacks Callbacks) error {
		callbacks.OnSuccess(proof)
		return nil
	}), zap.NewNop())

	completion, err := bridge.Open(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, completion.Outcome)
	assert.Equal(t, proof, completion.Proof)
}

func TestOpen_FailsSyncWhenNotLoaded(t *testing.T) {
	loader := NewLoader(&recordingRegistry{injectErr: fmt.Errorf("blocked")}, "", zap.NewNop())
	loader.EnsureLoaded()

	opened := false
	bridge := NewBridge(loader, modalFunc(func(ctx context.Context, session Session, callbacks Callbacks) error {
		opened = true
		return nil
	}), zap.NewNop())

	_, err := bridge.Open(context.Background(), testSession())
	require.Error(t, err)

	gw, ok := err.(*errors.ErrGatewayUnavailable)
	require.True(t, ok)
	assert.True(t, gw.LoadFailed)
	assert.False(t, opened, "modal must not open without the SDK")
}

func TestOpen_FirstCallbackWins(t *testing.T) {
	// The SDK can fire a failure event and a dismiss for the same session;
	// only the first settles the completion.
	bridge := NewBridge(readyLoader(t), modalFunc(func(ctx context.Context, session Session, callbacks Callbacks) error {
		callbacks.OnFailure("BAD_REQUEST_ERROR", "card declined")
		callbacks.OnDismiss()
		callbacks.OnSuccess(domain.PaymentProof{GatewayPaymentID: "pay_late"})
		return nil
	}), zap.NewNop())

	completion, err := bridge.Open(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, completion.Outcome)
	assert.Equal(t, "BAD_REQUEST_ERROR", completion.FailureCode)
	assert.Empty(t, completion.Proof.GatewayPaymentID)
}

func TestOpen_BlocksUntilCallbackFires(t *testing.T) {
	bridge := NewBridge(readyLoader(t), modalFunc(func(ctx context.Context, session Session, callbacks Callbacks) error {
		go func() {
			time.Sleep(20 * time.Millisecond)
			callbacks.OnDismiss()
		}()
		return nil
	}), zap.NewNop())

	start := time.Now()
	completion, err := bridge.Open(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDismissed, completion.Outcome)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestOpen_ContextCancellation(t *testing.T) {
	bridge := NewBridge(readyLoader(t), modalFunc(func(ctx context.Context, session Session, callbacks Callbacks) error {
		// Never settles
		return nil
	}), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := bridge.Open(ctx, testSession())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpen_ModalOpenError(t *testing.T) {
	bridge := NewBridge(readyLoader(t), modalFunc(func(ctx context.Context, session Session, callbacks Callbacks) error {
		return fmt.Errorf("modal refused to open")
	}), zap.NewNop())

	_, err := bridge.Open(context.Background(), testSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modal refused to open")
}
