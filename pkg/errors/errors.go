package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when form validation fails. Fields maps every
// invalid field to its message, not just the first one found.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for f := range e.Fields {
			names = append(names, f)
		}
		sort.Strings(names)
		return "validation failed: " + strings.Join(names, ", ")
	}
	return "validation failed"
}

// ErrNoAddressSelected is returned when checkout is submitted without a
// chosen shipping address
type ErrNoAddressSelected struct{}

func (e *ErrNoAddressSelected) Error() string {
	return "no shipping address selected"
}

// ErrEmptyCart is returned when an order is built from an empty cart
type ErrEmptyCart struct{}

func (e *ErrEmptyCart) Error() string {
	return "cart is empty"
}

// ErrGatewayUnavailable is returned when the payment gateway SDK is not
// available (not loaded yet, or the load failed for this process lifetime)
type ErrGatewayUnavailable struct {
	LoadFailed bool
}

func (e *ErrGatewayUnavailable) Error() string {
	if e.LoadFailed {
		return "payment gateway failed to load"
	}
	return "payment gateway not loaded"
}

// ErrGatewayDeclined is returned when the gateway reports a failed payment
type ErrGatewayDeclined struct {
	Code        string
	Description string
}

func (e *ErrGatewayDeclined) Error() string {
	if e.Description != "" {
		return "payment failed: " + e.Description
	}
	return "payment failed"
}

// ErrUserCancelled is returned when the buyer dismisses the payment modal
// without completing payment
type ErrUserCancelled struct{}

func (e *ErrUserCancelled) Error() string {
	return "payment cancelled by user"
}

// ErrVerificationFailed is returned when the gateway charged the buyer but
// payment verification (and therefore order persistence) failed. Payment and
// order record may have diverged; this must reach the user as a
// contact-support condition and must never be retried automatically.
type ErrVerificationFailed struct {
	GatewayOrderID   string
	GatewayPaymentID string
}

func (e *ErrVerificationFailed) Error() string {
	return fmt.Sprintf("payment verification failed for gateway order %s: contact support", e.GatewayOrderID)
}

// ErrInvalidStateTransition is returned when an invalid order status transition is attempted
type ErrInvalidStateTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
