package domain

import (
	"time"

	"github.com/google/uuid"
)

// Buyer represents an authenticated storefront customer
type Buyer struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	TokenHash   string
	TokenLookup string // SHA256(token) hex for fast lookup; set on create
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant is an optional per-line variant selection; when present its
// price overrides the line's base price
type ProductVariant struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// CartLine is one entry in the buyer's cart
type CartLine struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       float64         `json:"unit_price"`
	SelectedVariant *ProductVariant `json:"selected_variant,omitempty"`
}

// EffectivePrice returns the selected-variant price if a variant is chosen,
// else the line's base price
func (l CartLine) EffectivePrice() float64 {
	if l.SelectedVariant != nil {
		return l.SelectedVariant.Price
	}
	return l.UnitPrice
}

// Subtotal returns quantity times the effective unit price
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.EffectivePrice()
}

// ShippingAddress is a buyer shipping destination. Every field except
// AddressLine2 must be non-empty before an order is submitted.
type ShippingAddress struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	Email        string    `json:"email"`
	Street       string    `json:"street"`
	AddressLine2 string    `json:"address_line_2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	IsDefault    bool      `json:"is_default"`
}

// AddressBook holds a buyer's saved shipping addresses, at most one flagged
// default. Fetched once on checkout entry, appended to when a new address is
// saved; this flow never deletes from it.
type AddressBook struct {
	BuyerID   uuid.UUID
	Addresses []ShippingAddress
}

// FindByID returns the address with the given id, or nil
func (b *AddressBook) FindByID(id uuid.UUID) *ShippingAddress {
	for i := range b.Addresses {
		if b.Addresses[i].ID == id {
			return &b.Addresses[i]
		}
	}
	return nil
}

// Default returns the address flagged default, or nil
func (b *AddressBook) Default() *ShippingAddress {
	for i := range b.Addresses {
		if b.Addresses[i].IsDefault {
			return &b.Addresses[i]
		}
	}
	return nil
}

// OrderItem is one line of an order submission
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
	Variant   *ProductVariant `json:"variant,omitempty"`
}

// OrderSubmission is the payload of a single submit attempt. It is immutable
// once built and constructed fresh per attempt; a failed attempt discards it
// and a retry rebuilds it from current cart state.
type OrderSubmission struct {
	Items         []OrderItem     `json:"items"`
	TotalAmount   float64         `json:"total_amount"`
	Discount      float64         `json:"discount"`
	FinalAmount   float64         `json:"final_amount"`
	Shipping      ShippingAddress `json:"shipping"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// GatewayOrder is the backend-issued handle for a gateway payment session
type GatewayOrder struct {
	GatewayOrderID string `json:"gateway_order_id"`
	AmountMinor    int64  `json:"amount"` // minor currency units (paise)
	Currency       string `json:"currency"`
	PublicKey      string `json:"key"`
}

// PaymentProof carries the gateway-issued identifiers returned by the modal
// success callback, to be verified server-side
type PaymentProof struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// Order is a persisted order record
type Order struct {
	ID               uuid.UUID
	BuyerID          uuid.UUID
	Status           OrderStatus
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	GatewayOrderID   *string
	GatewayPaymentID *string
	TotalAmount      float64
	Discount         float64
	FinalAmount      float64
	Shipping         ShippingAddress
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderEvent represents an audit event for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}
