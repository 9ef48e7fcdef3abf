package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusRefunded, true},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusRefunded.IsValid())
	assert.False(t, OrderStatus("UNKNOWN").IsValid())
}

func TestPaymentMethodIsValid(t *testing.T) {
	assert.True(t, PaymentMethodCOD.IsValid())
	assert.True(t, PaymentMethodOnline.IsValid())
	assert.False(t, PaymentMethod("UPI").IsValid())
}

func TestCheckoutStatusIsTerminal(t *testing.T) {
	assert.False(t, CheckoutStatusIdle.IsTerminal())
	assert.False(t, CheckoutStatusProcessing.IsTerminal())
	assert.True(t, CheckoutStatusSucceeded.IsTerminal())
	assert.True(t, CheckoutStatusFailed.IsTerminal())
}

func TestFailureReasonRecoverable(t *testing.T) {
	assert.True(t, ReasonUserCancelled.Recoverable())
	assert.True(t, ReasonGatewayDeclined.Recoverable())
	assert.True(t, ReasonValidation.Recoverable())
	assert.False(t, ReasonVerificationFailed.Recoverable())
}
