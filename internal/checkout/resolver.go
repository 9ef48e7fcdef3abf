package checkout

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Resolver reconciles the buyer's saved addresses with an in-progress
// new-address form, producing exactly one shipping address for the order
type Resolver struct {
	addresses AddressBookClient
	logger    *zap.Logger
}

// NewResolver creates a new address resolver
func NewResolver(addresses AddressBookClient, logger *zap.Logger) *Resolver {
	return &Resolver{
		addresses: addresses,
		logger:    logger,
	}
}

// Resolve produces the shipping address for the current draft.
//
// In selecting mode this is a pure lookup with no side effects and may be
// called any number of times safely. In composing mode it validates the form,
// persists the new address through the address-book collaborator, appends the
// returned address to book, and switches the draft to selecting mode with
// that address chosen; the draft does not revert to composing within the
// session.
func (r *Resolver) Resolve(ctx context.Context, buyerID uuid.UUID, draft *domain.CheckoutDraft, book *domain.AddressBook) (domain.ShippingAddress, error) {
	switch draft.Mode() {
	case domain.DraftComposing:
		return r.resolveComposing(ctx, buyerID, draft, book)
	default:
		return r.resolveSelecting(draft, book)
	}
}

func (r *Resolver) resolveSelecting(draft *domain.CheckoutDraft, book *domain.AddressBook) (domain.ShippingAddress, error) {
	id := draft.SelectedAddressID()
	if id == uuid.Nil {
		return domain.ShippingAddress{}, &errors.ErrNoAddressSelected{}
	}
	addr := book.FindByID(id)
	if addr == nil {
		return domain.ShippingAddress{}, &errors.ErrNotFound{Resource: "address", ID: id.String()}
	}
	return *addr, nil
}

func (r *Resolver) resolveComposing(ctx context.Context, buyerID uuid.UUID, draft *domain.CheckoutDraft, book *domain.AddressBook) (domain.ShippingAddress, error) {
	form := draft.Form()
	if err := ValidateAddressForm(form); err != nil {
		return domain.ShippingAddress{}, err
	}

	updated, err := r.addresses.SaveAddress(ctx, buyerID, form)
	if err != nil {
		r.logger.Error("Failed to save new address", zap.Error(err))
		return domain.ShippingAddress{}, err
	}
	if len(updated.Addresses) == 0 {
		return domain.ShippingAddress{}, &errors.ErrNotFound{Resource: "address", ID: "saved"}
	}

	// The collaborator returns the full updated set; the new entry is last
	saved := updated.Addresses[len(updated.Addresses)-1]
	book.Addresses = append(book.Addresses, saved)
	draft.Select(saved.ID)

	r.logger.Info("New shipping address saved",
		zap.String("buyer_id", buyerID.String()),
		zap.String("address_id", saved.ID.String()),
	)
	return saved, nil
}

// ValidateAddressForm checks that every required field is present and the
// email looks like an address. Every invalid field is reported, not just the
// first.
func ValidateAddressForm(form domain.ShippingAddress) error {
	fields := map[string]string{}

	required := []struct {
		name  string
		value string
	}{
		{"fullName", form.FullName},
		{"email", form.Email},
		{"phoneNumber", form.PhoneNumber},
		{"street", form.Street},
		{"city", form.City},
		{"state", form.State},
		{"postalCode", form.PostalCode},
		{"country", form.Country},
	}
	for _, f := range required {
		if f.value == "" {
			fields[f.name] = "This field is required"
		}
	}
	if form.Email != "" && !emailPattern.MatchString(form.Email) {
		fields["email"] = "Invalid email address"
	}

	if len(fields) > 0 {
		return &errors.ErrValidation{Fields: fields}
	}
	return nil
}
