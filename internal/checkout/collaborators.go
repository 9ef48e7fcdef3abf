package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

// AddressBookClient is the address-book collaborator consumed by the
// resolver. SaveAddress returns the full updated set with the new entry as
// the last element.
type AddressBookClient interface {
	GetAddressBook(ctx context.Context, buyerID uuid.UUID) (*domain.AddressBook, error)
	SaveAddress(ctx context.Context, buyerID uuid.UUID, addr domain.ShippingAddress) (*domain.AddressBook, error)
}

// OrderClient is the order collaborator consumed by the state machine
type OrderClient interface {
	// CreateOrder persists a COD order directly
	CreateOrder(ctx context.Context, submission *domain.OrderSubmission) (*domain.Order, error)
	// CreateGatewayOrder requests a gateway order handle for the given amount
	// in major currency units
	CreateGatewayOrder(ctx context.Context, amount float64) (*domain.GatewayOrder, error)
	// VerifyPayment verifies the gateway signature and persists the order
	VerifyPayment(ctx context.Context, proof domain.PaymentProof, submission *domain.OrderSubmission) (*domain.Order, error)
}

// Navigator receives the terminal view transition on checkout success
type Navigator interface {
	ShowOrderConfirmation(order *domain.Order)
}
