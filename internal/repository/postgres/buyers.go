package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

type buyerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBuyerRepository creates a new buyer repository
func NewBuyerRepository(db *sql.DB, logger *zap.Logger) *buyerRepository {
	return &buyerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *buyerRepository) Create(ctx context.Context, buyer *domain.Buyer) error {
	query := `
		INSERT INTO buyers (id, name, email, phone, token_hash, token_lookup, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if buyer.ID == uuid.Nil {
		buyer.ID = uuid.New()
	}
	if buyer.CreatedAt.IsZero() {
		buyer.CreatedAt = now
	}
	if buyer.UpdatedAt.IsZero() {
		buyer.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		buyer.ID,
		buyer.Name,
		buyer.Email,
		buyer.Phone,
		buyer.TokenHash,
		buyer.TokenLookup,
		buyer.IsActive,
		buyer.CreatedAt,
		buyer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create buyer", zap.Error(err))
		return err
	}

	return nil
}

func (r *buyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Buyer, error) {
	query := `
		SELECT id, name, email, phone, token_hash, token_lookup, is_active, created_at, updated_at
		FROM buyers
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id.String())
}

func (r *buyerRepository) GetByTokenLookup(ctx context.Context, tokenLookup string) (*domain.Buyer, error) {
	query := `
		SELECT id, name, email, phone, token_hash, token_lookup, is_active, created_at, updated_at
		FROM buyers
		WHERE token_lookup = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tokenLookup), "by token")
}

func (r *buyerRepository) scanOne(row *sql.Row, id string) (*domain.Buyer, error) {
	var buyer domain.Buyer
	err := row.Scan(
		&buyer.ID,
		&buyer.Name,
		&buyer.Email,
		&buyer.Phone,
		&buyer.TokenHash,
		&buyer.TokenLookup,
		&buyer.IsActive,
		&buyer.CreatedAt,
		&buyer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "buyer", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get buyer", zap.Error(err))
		return nil, err
	}
	return &buyer, nil
}
