package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

func testShipping() domain.ShippingAddress {
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

func TestBuildSubmission_ComputesTotals(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Basmati Rice", Quantity: 2, UnitPrice: 100},
		{ProductID: "p2", Name: "Toor Dal", Quantity: 1, UnitPrice: 60},
	}

	sub, err := BuildSubmission(lines, 40, testShipping(), domain.PaymentMethodCOD)
	require.NoError(t, err)

	assert.Equal(t, 260.0, sub.TotalAmount)
	assert.Equal(t, 40.0, sub.Discount)
	assert.Equal(t, 220.0, sub.FinalAmount)
	assert.Len(t, sub.Items, 2)
	assert.Equal(t, domain.PaymentMethodCOD, sub.PaymentMethod)
}

func TestBuildSubmission_VariantPriceWins(t *testing.T) {
	lines := []domain.CartLine{
		{
			ProductID: "p1",
			Name:      "Sunflower Oil",
			Quantity:  3,
			UnitPrice: 200,
			SelectedVariant: &domain.ProductVariant{
				ID: "v-1l", Label: "1L", Price: 150,
			},
		},
	}

	sub, err := BuildSubmission(lines, 0, testShipping(), domain.PaymentMethodCOD)
	require.NoError(t, err)

	assert.Equal(t, 450.0, sub.TotalAmount)
	assert.Equal(t, 150.0, sub.Items[0].UnitPrice)
	require.NotNil(t, sub.Items[0].Variant)
	assert.Equal(t, "v-1l", sub.Items[0].Variant.ID)
}

func TestBuildSubmission_DiscountNeverBelowZero(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Salt", Quantity: 1, UnitPrice: 20},
	}

	sub, err := BuildSubmission(lines, 100, testShipping(), domain.PaymentMethodOnline)
	require.NoError(t, err)
	assert.Equal(t, 20.0, sub.TotalAmount)
	assert.Equal(t, 0.0, sub.FinalAmount)
}

func TestBuildSubmission_NegativeDiscountClamped(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Salt", Quantity: 1, UnitPrice: 20},
	}

	sub, err := BuildSubmission(lines, -5, testShipping(), domain.PaymentMethodCOD)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sub.Discount)
	assert.Equal(t, 20.0, sub.FinalAmount)
}

func TestBuildSubmission_EmptyCart(t *testing.T) {
	_, err := BuildSubmission(nil, 0, testShipping(), domain.PaymentMethodCOD)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrEmptyCart{}, err)
}

func TestBuildSubmission_DoesNotMutateInputs(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Salt", Quantity: 2, UnitPrice: 20},
	}

	_, err := BuildSubmission(lines, 10, testShipping(), domain.PaymentMethodCOD)
	require.NoError(t, err)

	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 20.0, lines[0].UnitPrice)
}
