package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, buyer_id, status, payment_method, payment_status,
	gateway_order_id, gateway_payment_id, total_amount, discount, final_amount,
	shipping_address, created_at, updated_at
`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, buyer_id, status, payment_method, payment_status,
			gateway_order_id, gateway_payment_id, total_amount, discount, final_amount,
			shipping_address, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	shippingJSON, err := json.Marshal(order.Shipping)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.BuyerID,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.GatewayOrderID,
		order.GatewayPaymentID,
		order.TotalAmount,
		order.Discount,
		order.FinalAmount,
		shippingJSON,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id.String())
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_order_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, gatewayOrderID), gatewayOrderID)
}

func (r *orderRepository) ListByBuyerID(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, buyerID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders by buyer", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return nil
}

func (r *orderRepository) scanOne(row *sql.Row, id string) (*domain.Order, error) {
	order, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) scanMany(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(scan func(dest ...interface{}) error) (*domain.Order, error) {
	var order domain.Order
	var shippingJSON []byte
	var gatewayOrderID, gatewayPaymentID sql.NullString

	err := scan(
		&order.ID,
		&order.BuyerID,
		&order.Status,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&gatewayOrderID,
		&gatewayPaymentID,
		&order.TotalAmount,
		&order.Discount,
		&order.FinalAmount,
		&shippingJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gatewayOrderID.Valid {
		order.GatewayOrderID = &gatewayOrderID.String
	}
	if gatewayPaymentID.Valid {
		order.GatewayPaymentID = &gatewayPaymentID.String
	}
	if len(shippingJSON) > 0 {
		if err := json.Unmarshal(shippingJSON, &order.Shipping); err != nil {
			return nil, err
		}
	}
	return &order, nil
}
