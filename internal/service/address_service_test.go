package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

type memAddressRepo struct {
	byBuyer map[uuid.UUID][]domain.ShippingAddress
}

func (r *memAddressRepo) ListByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]domain.ShippingAddress, error) {
	return append([]domain.ShippingAddress(nil), r.byBuyer[buyerID]...), nil
}

func (r *memAddressRepo) Create(ctx context.Context, buyerID uuid.UUID, addr *domain.ShippingAddress) error {
	if addr.IsDefault {
		existing := r.byBuyer[buyerID]
		for i := range existing {
			existing[i].IsDefault = false
		}
	}
	r.byBuyer[buyerID] = append(r.byBuyer[buyerID], *addr)
	return nil
}

func addressRepos() (*repository.Repositories, *memAddressRepo) {
	addresses := &memAddressRepo{byBuyer: map[uuid.UUID][]domain.ShippingAddress{}}
	return &repository.Repositories{Address: addresses}, addresses
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:    "Asha Verma",
		PhoneNumber: "9876543210",
		Email:       "asha@example.com",
		Street:      "12 MG Road",
		City:        "Pune",
		State:       "Maharashtra",
		PostalCode:  "411001",
		Country:     "India",
	}
}

func TestSaveAddress_AppendsAsLastElement(t *testing.T) {
	repos, _ := addressRepos()
	svc := NewAddressService(repos, zap.NewNop())
	buyerID := uuid.New()

	first := validAddress()
	book, err := svc.SaveAddress(context.Background(), buyerID, first)
	require.NoError(t, err)
	require.Len(t, book.Addresses, 1)

	second := validAddress()
	second.FullName = "Ravi Verma"
	book, err = svc.SaveAddress(context.Background(), buyerID, second)
	require.NoError(t, err)

	require.Len(t, book.Addresses, 2)
	assert.Equal(t, "Ravi Verma", book.Addresses[1].FullName)
	assert.NotEqual(t, uuid.Nil, book.Addresses[1].ID)
}

func TestSaveAddress_RejectsInvalidForm(t *testing.T) {
	repos, addresses := addressRepos()
	svc := NewAddressService(repos, zap.NewNop())
	buyerID := uuid.New()

	addr := validAddress()
	addr.Email = "not-an-email"
	addr.Street = ""

	_, err := svc.SaveAddress(context.Background(), buyerID, addr)
	require.Error(t, err)

	ve, ok := err.(*errors.ErrValidation)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
	assert.Empty(t, addresses.byBuyer[buyerID])
}

func TestSaveAddress_DefaultReplacesPrevious(t *testing.T) {
	repos, _ := addressRepos()
	svc := NewAddressService(repos, zap.NewNop())
	buyerID := uuid.New()

	first := validAddress()
	first.IsDefault = true
	_, err := svc.SaveAddress(context.Background(), buyerID, first)
	require.NoError(t, err)

	second := validAddress()
	second.FullName = "Ravi Verma"
	second.IsDefault = true
	book, err := svc.SaveAddress(context.Background(), buyerID, second)
	require.NoError(t, err)

	def := book.Default()
	require.NotNil(t, def)
	assert.Equal(t, "Ravi Verma", def.FullName)

	defaults := 0
	for _, a := range book.Addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestGetAddressBook_Empty(t *testing.T) {
	repos, _ := addressRepos()
	svc := NewAddressService(repos, zap.NewNop())

	book, err := svc.GetAddressBook(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, book.Addresses)
	assert.Nil(t, book.Default())
}
