package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

// BuyerRepository defines buyer data access methods
type BuyerRepository interface {
	GetByTokenLookup(ctx context.Context, tokenLookup string) (*domain.Buyer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Buyer, error)
	Create(ctx context.Context, buyer *domain.Buyer) error
}

// AddressRepository defines address book data access methods
type AddressRepository interface {
	ListByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]domain.ShippingAddress, error)
	// Create appends an address to the buyer's book; when addr.IsDefault is
	// set the previous default is unset so at most one default remains
	Create(ctx context.Context, buyerID uuid.UUID, addr *domain.ShippingAddress) error
}

// OrderRepository defines order data access methods
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	ListByBuyerID(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// OrderItemRepository defines order item data access methods
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, orderID uuid.UUID, items []domain.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
}

// OrderEventRepository defines order event data access methods
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Buyer      BuyerRepository
	Address    AddressRepository
	Order      OrderRepository
	OrderItem  OrderItemRepository
	OrderEvent OrderEventRepository
}
