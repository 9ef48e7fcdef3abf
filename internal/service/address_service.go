package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/checkout"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
)

type addressService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewAddressService creates a new address book service
func NewAddressService(repos *repository.Repositories, logger *zap.Logger) *addressService {
	return &addressService{
		repos:  repos,
		logger: logger,
	}
}

// GetAddressBook returns the buyer's saved addresses
func (s *addressService) GetAddressBook(ctx context.Context, buyerID uuid.UUID) (*domain.AddressBook, error) {
	addresses, err := s.repos.Address.ListByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return &domain.AddressBook{
		BuyerID:   buyerID,
		Addresses: addresses,
	}, nil
}

// SaveAddress validates and appends a new address to the buyer's book, then
// returns the full updated set with the new entry as the last element
func (s *addressService) SaveAddress(ctx context.Context, buyerID uuid.UUID, addr domain.ShippingAddress) (*domain.AddressBook, error) {
	if err := checkout.ValidateAddressForm(addr); err != nil {
		return nil, err
	}

	addr.ID = uuid.New()
	if err := s.repos.Address.Create(ctx, buyerID, &addr); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, err
	}

	book, err := s.GetAddressBook(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	// Addresses list in creation order, so the new entry is last; keep the
	// contract explicit even if the read raced another writer.
	for i := range book.Addresses {
		if book.Addresses[i].ID == addr.ID && i != len(book.Addresses)-1 {
			saved := book.Addresses[i]
			book.Addresses = append(append(book.Addresses[:i], book.Addresses[i+1:]...), saved)
			break
		}
	}

	s.logger.Info("Address saved",
		zap.String("buyer_id", buyerID.String()),
		zap.String("address_id", addr.ID.String()),
	)
	return book, nil
}
