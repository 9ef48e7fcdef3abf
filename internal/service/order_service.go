package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// GatewayClient is the payment gateway API consumed by the order service
type GatewayClient interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (*domain.GatewayOrder, error)
	VerifySignature(proof domain.PaymentProof) bool
}

type orderService struct {
	repos   *repository.Repositories
	gateway GatewayClient
	logger  *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, gateway GatewayClient, logger *zap.Logger) *orderService {
	return &orderService{
		repos:   repos,
		gateway: gateway,
		logger:  logger,
	}
}

// CreateOrder persists a cash-on-delivery order from a submission
func (s *orderService) CreateOrder(ctx context.Context, buyerID uuid.UUID, submission *domain.OrderSubmission) (*domain.Order, error) {
	if len(submission.Items) == 0 {
		return nil, &errors.ErrEmptyCart{}
	}

	order := &domain.Order{
		BuyerID:       buyerID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCOD,
		PaymentStatus: domain.PaymentStatusCOD,
		TotalAmount:   submission.TotalAmount,
		Discount:      submission.Discount,
		FinalAmount:   submission.FinalAmount,
		Shipping:      submission.Shipping,
		Items:         submission.Items,
	}

	s.logger.Info("Creating COD order", zap.String("buyer_id", buyerID.String()))
	if err := s.repos.Order.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create COD order", zap.Error(err))
		return nil, err
	}
	if err := s.repos.OrderItem.CreateBatch(ctx, order.ID, submission.Items); err != nil {
		s.logger.Error("Failed to create order items", zap.Error(err))
		return nil, err
	}

	s.recordEvent(ctx, order.ID, "order_created", map[string]interface{}{
		"payment_method": domain.PaymentMethodCOD,
		"final_amount":   order.FinalAmount,
	})

	return order, nil
}

// CreateGatewayOrder requests a gateway order handle for the given amount
func (s *orderService) CreateGatewayOrder(ctx context.Context, buyerID uuid.UUID, amount float64) (*domain.GatewayOrder, error) {
	gwOrder, err := s.gateway.CreateOrder(ctx, amount, "rcpt_"+uuid.New().String())
	if err != nil {
		s.logger.Error("Failed to create gateway order", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Gateway order created",
		zap.String("buyer_id", buyerID.String()),
		zap.String("gateway_order_id", gwOrder.GatewayOrderID),
	)
	return gwOrder, nil
}

// VerifyPayment checks the gateway signature and, on success, persists the
// paid order. A signature mismatch is reported as a verification failure:
// funds may have moved on the gateway side without an order record here.
func (s *orderService) VerifyPayment(ctx context.Context, buyerID uuid.UUID, proof domain.PaymentProof, submission *domain.OrderSubmission) (*domain.Order, error) {
	if !s.gateway.VerifySignature(proof) {
		s.logger.Error("Payment signature mismatch",
			zap.String("gateway_order_id", proof.GatewayOrderID),
			zap.String("gateway_payment_id", proof.GatewayPaymentID),
		)
		return nil, &errors.ErrVerificationFailed{
			GatewayOrderID:   proof.GatewayOrderID,
			GatewayPaymentID: proof.GatewayPaymentID,
		}
	}

	order := &domain.Order{
		BuyerID:          buyerID,
		Status:           domain.OrderStatusPending,
		PaymentMethod:    domain.PaymentMethodOnline,
		PaymentStatus:    domain.PaymentStatusPaid,
		GatewayOrderID:   &proof.GatewayOrderID,
		GatewayPaymentID: &proof.GatewayPaymentID,
		TotalAmount:      submission.TotalAmount,
		Discount:         submission.Discount,
		FinalAmount:      submission.FinalAmount,
		Shipping:         submission.Shipping,
		Items:            submission.Items,
	}

	if err := s.repos.Order.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist verified order", zap.Error(err))
		return nil, err
	}
	if err := s.repos.OrderItem.CreateBatch(ctx, order.ID, submission.Items); err != nil {
		s.logger.Error("Failed to create order items", zap.Error(err))
		return nil, err
	}

	s.recordEvent(ctx, order.ID, "payment_verified", map[string]interface{}{
		"gateway_order_id":   proof.GatewayOrderID,
		"gateway_payment_id": proof.GatewayPaymentID,
		"final_amount":       order.FinalAmount,
	})

	return order, nil
}

// UpdateStatus moves an order along its lifecycle (idempotent: setting the
// current status again returns success)
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) error {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status == newStatus {
		return nil
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return &errors.ErrInvalidStateTransition{
			From: order.Status,
			To:   newStatus,
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return err
	}

	s.recordEvent(ctx, orderID, "status_change", map[string]interface{}{
		"from": order.Status,
		"to":   newStatus,
	})

	return nil
}

// GetOrder returns an order with its items
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.OrderItem.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListBuyerOrders returns the buyer's orders, newest first
func (s *orderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	return s.repos.Order.ListByBuyerID(ctx, buyerID, limit, offset)
}

func (s *orderService) recordEvent(ctx context.Context, orderID uuid.UUID, eventType string, data map[string]interface{}) {
	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: eventType,
		EventData: data,
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event", zap.String("event_type", eventType), zap.Error(err))
	}
}
