package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// In-memory repositories for service tests

type memOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func (r *memOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepo) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	for _, order := range r.orders {
		if order.GatewayOrderID != nil && *order.GatewayOrderID == gatewayOrderID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: gatewayOrderID}
}

func (r *memOrderRepo) ListByBuyerID(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memOrderRepo) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := r.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	return nil
}

type memOrderItemRepo struct {
	items map[uuid.UUID][]domain.OrderItem
}

func (r *memOrderItemRepo) CreateBatch(ctx context.Context, orderID uuid.UUID, items []domain.OrderItem) error {
	r.items[orderID] = append(r.items[orderID], items...)
	return nil
}

func (r *memOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	return r.items[orderID], nil
}

type memOrderEventRepo struct {
	events []*domain.OrderEvent
}

func (r *memOrderEventRepo) Create(ctx context.Context, event *domain.OrderEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *memOrderEventRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error) {
	var out []*domain.OrderEvent
	for _, e := range r.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeGateway struct {
	secret string
	orders int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*domain.GatewayOrder, error) {
	g.orders++
	return &domain.GatewayOrder{
		GatewayOrderID: "order_test123",
		AmountMinor:    int64(amount * 100),
		Currency:       "INR",
		PublicKey:      "rzp_test_key",
	}, nil
}

func (g *fakeGateway) VerifySignature(proof domain.PaymentProof) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(proof.GatewayOrderID + "|" + proof.GatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil)) == proof.Signature
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestRepos() (*repository.Repositories, *memOrderEventRepo) {
	events := &memOrderEventRepo{}
	return &repository.Repositories{
		Order:      &memOrderRepo{orders: map[uuid.UUID]*domain.Order{}},
		OrderItem:  &memOrderItemRepo{items: map[uuid.UUID][]domain.OrderItem{}},
		OrderEvent: events,
	}, events
}

func testSubmission() *domain.OrderSubmission {
	return &domain.OrderSubmission{
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Rice", Quantity: 2, UnitPrice: 100},
		},
		TotalAmount:   200,
		Discount:      50,
		FinalAmount:   150,
		Shipping:      domain.ShippingAddress{FullName: "Asha Verma", City: "Pune"},
		PaymentMethod: domain.PaymentMethodCOD,
	}
}

func TestCreateOrder_COD(t *testing.T) {
	repos, events := newTestRepos()
	svc := NewOrderService(repos, &fakeGateway{secret: "secret123"}, zap.NewNop())
	buyerID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), buyerID, testSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusCOD, order.PaymentStatus)
	assert.Equal(t, 150.0, order.FinalAmount)
	assert.Nil(t, order.GatewayOrderID)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "p1", fetched.Items[0].ProductID)

	require.Len(t, events.events, 1)
	assert.Equal(t, "order_created", events.events[0].EventType)
}

func TestCreateOrder_EmptySubmission(t *testing.T) {
	repos, _ := newTestRepos()
	svc := NewOrderService(repos, &fakeGateway{}, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &domain.OrderSubmission{})
	require.Error(t, err)
	assert.IsType(t, &errors.ErrEmptyCart{}, err)
}

func TestVerifyPayment_ValidSignaturePersistsPaidOrder(t *testing.T) {
	repos, events := newTestRepos()
	svc := NewOrderService(repos, &fakeGateway{secret: "secret123"}, zap.NewNop())
	buyerID := uuid.New()

	submission := testSubmission()
	submission.PaymentMethod = domain.PaymentMethodOnline
	proof := domain.PaymentProof{
		GatewayOrderID:   "order_test123",
		GatewayPaymentID: "pay_9xy",
		Signature:        sign("secret123", "order_test123", "pay_9xy"),
	}

	order, err := svc.VerifyPayment(context.Background(), buyerID, proof, submission)
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	require.NotNil(t, order.GatewayOrderID)
	assert.Equal(t, "order_test123", *order.GatewayOrderID)
	require.NotNil(t, order.GatewayPaymentID)
	assert.Equal(t, "pay_9xy", *order.GatewayPaymentID)

	require.Len(t, events.events, 1)
	assert.Equal(t, "payment_verified", events.events[0].EventType)
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	repos, _ := newTestRepos()
	svc := NewOrderService(repos, &fakeGateway{secret: "secret123"}, zap.NewNop())

	proof := domain.PaymentProof{
		GatewayOrderID:   "order_test123",
		GatewayPaymentID: "pay_9xy",
		Signature:        "forged",
	}

	_, err := svc.VerifyPayment(context.Background(), uuid.New(), proof, testSubmission())
	require.Error(t, err)

	vf, ok := err.(*errors.ErrVerificationFailed)
	require.True(t, ok)
	assert.Equal(t, "order_test123", vf.GatewayOrderID)

	// Nothing was persisted
	orders, err := repos.Order.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUpdateStatus(t *testing.T) {
	repos, events := newTestRepos()
	svc := NewOrderService(repos, &fakeGateway{secret: "secret123"}, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), uuid.New(), testSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed))

	// Idempotent when the status is unchanged
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed))

	// Skipping CONFIRMED -> DELIVERED is rejected
	err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	require.Error(t, err)
	tr, ok := err.(*errors.ErrInvalidStateTransition)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusConfirmed, tr.From)
	assert.Equal(t, domain.OrderStatusDelivered, tr.To)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, fetched.Status)

	// order_created plus one status_change; the idempotent call records nothing
	require.Len(t, events.events, 2)
	assert.Equal(t, "status_change", events.events[1].EventType)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	repos, _ := newTestRepos()
	svc := NewOrderService(repos, &fakeGateway{}, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatusConfirmed)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrNotFound{}, err)
}

func TestCreateGatewayOrder(t *testing.T) {
	repos, _ := newTestRepos()
	gw := &fakeGateway{secret: "secret123"}
	svc := NewOrderService(repos, gw, zap.NewNop())

	gwOrder, err := svc.CreateGatewayOrder(context.Background(), uuid.New(), 150)
	require.NoError(t, err)

	assert.Equal(t, "order_test123", gwOrder.GatewayOrderID)
	assert.Equal(t, int64(15000), gwOrder.AmountMinor)
	assert.Equal(t, 1, gw.orders)
}
