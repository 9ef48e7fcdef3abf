package checkout

import (
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// BuildSubmission derives an immutable order submission from the given cart
// lines, discount, resolved shipping address and payment method.
//
// It is a pure function: no side effects, no network access. It is the sole
// authority for the order total; finalAmount is always recomputed here as
// max(totalAmount - discount, 0) rather than trusted from navigation state.
// Callers must build a fresh submission for every submit attempt.
func BuildSubmission(lines []domain.CartLine, discount float64, shipping domain.ShippingAddress, method domain.PaymentMethod) (*domain.OrderSubmission, error) {
	if len(lines) == 0 {
		return nil, &errors.ErrEmptyCart{}
	}
	if discount < 0 {
		discount = 0
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.EffectivePrice(),
			Variant:   line.SelectedVariant,
		})
		total += line.Subtotal()
	}

	final := total - discount
	if final < 0 {
		final = 0
	}

	return &domain.OrderSubmission{
		Items:         items,
		TotalAmount:   total,
		Discount:      discount,
		FinalAmount:   final,
		Shipping:      shipping,
		PaymentMethod: method,
	}, nil
}
