package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

type addressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *sql.DB, logger *zap.Logger) *addressRepository {
	return &addressRepository{
		db:     db,
		logger: logger,
	}
}

func (r *addressRepository) ListByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]domain.ShippingAddress, error) {
	query := `
		SELECT id, full_name, phone_number, email, street, address_line_2,
			city, state, postal_code, country, is_default
		FROM addresses
		WHERE buyer_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		r.logger.Error("Failed to list addresses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.ShippingAddress
	for rows.Next() {
		var addr domain.ShippingAddress
		var line2 sql.NullString
		if err := rows.Scan(
			&addr.ID,
			&addr.FullName,
			&addr.PhoneNumber,
			&addr.Email,
			&addr.Street,
			&line2,
			&addr.City,
			&addr.State,
			&addr.PostalCode,
			&addr.Country,
			&addr.IsDefault,
		); err != nil {
			return nil, err
		}
		addr.AddressLine2 = line2.String
		addresses = append(addresses, addr)
	}
	return addresses, rows.Err()
}

func (r *addressRepository) Create(ctx context.Context, buyerID uuid.UUID, addr *domain.ShippingAddress) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}

	// Keep at most one default per buyer
	if addr.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE buyer_id = $1 AND is_default = TRUE`,
			buyerID,
		); err != nil {
			r.logger.Error("Failed to unset previous default address", zap.Error(err))
			return err
		}
	}

	query := `
		INSERT INTO addresses (
			id, buyer_id, full_name, phone_number, email, street, address_line_2,
			city, state, postal_code, country, is_default, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.ExecContext(ctx, query,
		addr.ID,
		buyerID,
		addr.FullName,
		addr.PhoneNumber,
		addr.Email,
		addr.Street,
		nullString(addr.AddressLine2),
		addr.City,
		addr.State,
		addr.PostalCode,
		addr.Country,
		addr.IsDefault,
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to create address", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
