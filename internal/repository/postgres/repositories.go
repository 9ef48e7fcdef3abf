package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/repository"
)

// NewRepositories creates all repositories backed by the given database
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Buyer:      NewBuyerRepository(db, logger),
		Address:    NewAddressRepository(db, logger),
		Order:      NewOrderRepository(db, logger),
		OrderItem:  NewOrderItemRepository(db, logger),
		OrderEvent: NewOrderEventRepository(db, logger),
	}
}
