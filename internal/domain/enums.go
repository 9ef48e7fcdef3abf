package domain

// PaymentMethod selects how the buyer pays for an order
type PaymentMethod string

const (
	// COD - cash on delivery, order is created directly on the backend
	PaymentMethodCOD PaymentMethod = "COD"
	// ONLINE - gateway-mediated payment through the hosted modal
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

// CheckoutStatus drives submit-button disablement and spinner display
type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "IDLE"
	CheckoutStatusProcessing CheckoutStatus = "PROCESSING"
	CheckoutStatusSucceeded  CheckoutStatus = "SUCCEEDED"
	CheckoutStatusFailed     CheckoutStatus = "FAILED"
)

// IsTerminal reports whether the status ends a submit attempt. Terminal
// statuses are not sticky: the next submit returns the machine to PROCESSING.
func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSucceeded || s == CheckoutStatusFailed
}

// FailureReason classifies why a checkout attempt failed
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonValidation         FailureReason = "VALIDATION"
	ReasonNoAddressSelected  FailureReason = "NO_ADDRESS_SELECTED"
	ReasonAddressNotFound    FailureReason = "ADDRESS_NOT_FOUND"
	ReasonEmptyCart          FailureReason = "EMPTY_CART"
	ReasonGatewayUnavailable FailureReason = "GATEWAY_UNAVAILABLE"
	// BACKEND_FAILURE covers collaborator failures: address save, order
	// create, gateway order create
	ReasonBackendFailure  FailureReason = "BACKEND_FAILURE"
	ReasonGatewayDeclined FailureReason = "GATEWAY_DECLINED"
	ReasonUserCancelled   FailureReason = "USER_CANCELLED"
	// VERIFICATION_FAILED means the gateway charged the buyer but the order
	// was not persisted. Surfaced as a contact-support condition.
	ReasonVerificationFailed FailureReason = "VERIFICATION_FAILED"
)

// Recoverable reports whether the buyer can fix the condition and retry
// locally. VERIFICATION_FAILED is the one reason that is not recoverable:
// funds may have moved without a persisted order.
func (r FailureReason) Recoverable() bool {
	return r != ReasonVerificationFailed
}

// OrderStatus represents the lifecycle status of a persisted order
type OrderStatus string

const (
	// PENDING - order placed, awaiting confirmation
	OrderStatusPending OrderStatus = "PENDING"
	// CONFIRMED - order accepted, awaiting shipment
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// SHIPPED - order handed to the carrier
	OrderStatusShipped OrderStatus = "SHIPPED"
	// DELIVERED - order received by the buyer
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// CANCELLED - order cancelled before shipment
	OrderStatusCancelled OrderStatus = "CANCELLED"
	// REFUNDED - order refunded after payment
	OrderStatusRefunded OrderStatus = "REFUNDED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed || newStatus == OrderStatusCancelled
	case OrderStatusConfirmed:
		return newStatus == OrderStatusShipped || newStatus == OrderStatusCancelled
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered || newStatus == OrderStatusRefunded
	case OrderStatusDelivered:
		return newStatus == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	default:
		return false
	}
}

// PaymentStatus tracks the payment side of a persisted order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusCOD     PaymentStatus = "CASH ON DELIVERY"
)
