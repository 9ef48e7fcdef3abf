package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

type orderItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *sql.DB, logger *zap.Logger) *orderItemRepository {
	return &orderItemRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, orderID uuid.UUID, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price, variant, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	for _, item := range items {
		var variantJSON []byte
		if item.Variant != nil {
			variantJSON, err = json.Marshal(item.Variant)
			if err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, query,
			uuid.New(),
			orderID,
			item.ProductID,
			item.Name,
			item.Quantity,
			item.UnitPrice,
			variantJSON,
			now,
		); err != nil {
			r.logger.Error("Failed to create order item", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT product_id, name, quantity, unit_price, variant
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var variantJSON []byte
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &variantJSON); err != nil {
			return nil, err
		}
		if len(variantJSON) > 0 {
			var variant domain.ProductVariant
			if err := json.Unmarshal(variantJSON, &variant); err != nil {
				return nil, err
			}
			item.Variant = &variant
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
