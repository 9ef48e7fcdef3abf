package domain

import "github.com/google/uuid"

// DraftMode tags the active variant of a CheckoutDraft
type DraftMode string

const (
	// DraftSelecting - the buyer is picking a saved address from the book
	DraftSelecting DraftMode = "SELECTING"
	// DraftComposing - the buyer is filling in a new address form
	DraftComposing DraftMode = "COMPOSING"
)

// CheckoutDraft is the in-progress checkout form state. Exactly one variant
// is active at a time: selecting holds the chosen address book entry id,
// composing holds the in-progress form. Impossible combinations, such as
// composing with a stale selection lingering, cannot be represented.
type CheckoutDraft struct {
	mode       DraftMode
	selectedID uuid.UUID
	form       ShippingAddress
}

// NewSelectingDraft returns a draft pointing at a saved address. A zero id is
// allowed and means nothing is selected yet.
func NewSelectingDraft(addressID uuid.UUID) *CheckoutDraft {
	return &CheckoutDraft{mode: DraftSelecting, selectedID: addressID}
}

// NewComposingDraft returns a draft holding an in-progress address form
func NewComposingDraft(form ShippingAddress) *CheckoutDraft {
	return &CheckoutDraft{mode: DraftComposing, form: form}
}

// Mode returns the active variant tag
func (d *CheckoutDraft) Mode() DraftMode {
	return d.mode
}

// SelectedAddressID returns the chosen address id; only meaningful in
// selecting mode
func (d *CheckoutDraft) SelectedAddressID() uuid.UUID {
	return d.selectedID
}

// Form returns the in-progress address form; only meaningful in composing mode
func (d *CheckoutDraft) Form() ShippingAddress {
	return d.form
}

// SetForm replaces the in-progress form while composing; no-op in selecting
// mode
func (d *CheckoutDraft) SetForm(form ShippingAddress) {
	if d.mode == DraftComposing {
		d.form = form
	}
}

// Select switches the draft to selecting mode with the given address chosen.
// Within a checkout session this transition is irreversible by the resolver:
// once a composed address is saved the draft stays in selecting mode.
func (d *CheckoutDraft) Select(addressID uuid.UUID) {
	d.mode = DraftSelecting
	d.selectedID = addressID
	d.form = ShippingAddress{}
}
