package checkout

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/cart"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/gateway"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// Machine orchestrates a checkout session: it drives the two payment-method
// paths, owns the processing/idle/error status, and performs the terminal
// actions (clear cart, navigate to order confirmation).
//
// The session is single-threaded and event-driven: ordering comes from the
// machine's discrete states, not from locks. At most one submission is in
// flight; the submit entry point is a guard, not a mutex, and callers must
// keep it disabled while the status is PROCESSING.
type Machine struct {
	buyer     *domain.Buyer
	cartStore *cart.Store
	resolver  *Resolver
	addresses AddressBookClient
	orders    OrderClient
	loader    *gateway.Loader
	bridge    *gateway.Bridge
	nav       Navigator
	storeName string
	storeDesc string
	logger    *zap.Logger

	status      domain.CheckoutStatus
	reason      domain.FailureReason
	fieldErrors map[string]string
	draft       *domain.CheckoutDraft
	book        *domain.AddressBook
	discount    float64
}

// MachineParams wires a checkout session
type MachineParams struct {
	Buyer     *domain.Buyer
	Cart      *cart.Store
	Addresses AddressBookClient
	Orders    OrderClient
	Loader    *gateway.Loader
	Bridge    *gateway.Bridge
	Navigator Navigator
	StoreName string
	StoreDesc string
	Logger    *zap.Logger
}

// NewMachine creates a checkout state machine in the idle state
func NewMachine(p MachineParams) *Machine {
	return &Machine{
		buyer:       p.Buyer,
		cartStore:   p.Cart,
		resolver:    NewResolver(p.Addresses, p.Logger),
		addresses:   p.Addresses,
		orders:      p.Orders,
		loader:      p.Loader,
		bridge:      p.Bridge,
		nav:         p.Navigator,
		storeName:   p.StoreName,
		storeDesc:   p.StoreDesc,
		logger:      p.Logger,
		status:      domain.CheckoutStatusIdle,
		fieldErrors: map[string]string{},
		draft:       domain.NewSelectingDraft(uuid.Nil),
	}
}

// EnterCheckout fetches the buyer's address book once and initializes the
// draft: the default address selected when one exists, a fresh form prefilled
// from the buyer profile when the book is empty.
func (m *Machine) EnterCheckout(ctx context.Context) error {
	if m.buyer == nil {
		return &errors.ErrUnauthorized{Message: "no buyer session"}
	}
	book, err := m.addresses.GetAddressBook(ctx, m.buyer.ID)
	if err != nil {
		m.logger.Error("Failed to fetch address book", zap.Error(err))
		return err
	}
	m.book = book

	if def := book.Default(); def != nil {
		m.draft = domain.NewSelectingDraft(def.ID)
	} else if len(book.Addresses) == 0 {
		m.draft = domain.NewComposingDraft(domain.ShippingAddress{
			FullName:    m.buyer.Name,
			Email:       m.buyer.Email,
			PhoneNumber: m.buyer.Phone,
		})
	} else {
		m.draft = domain.NewSelectingDraft(uuid.Nil)
	}
	return nil
}

// Status returns the current checkout status
func (m *Machine) Status() domain.CheckoutStatus { return m.status }

// FailureReason returns the reason of the last failed attempt
func (m *Machine) FailureReason() domain.FailureReason { return m.reason }

// FieldErrors returns field-level validation errors from the last attempt
func (m *Machine) FieldErrors() map[string]string { return m.fieldErrors }

// Draft returns the in-progress checkout draft
func (m *Machine) Draft() *domain.CheckoutDraft { return m.draft }

// AddressBook returns the fetched address book, nil before EnterCheckout
func (m *Machine) AddressBook() *domain.AddressBook { return m.book }

// SetDiscount records the discount applied to this session
func (m *Machine) SetDiscount(discount float64) {
	if discount < 0 {
		discount = 0
	}
	m.discount = discount
}

// CanSubmit reports whether the submit entry point should be enabled for the
// given payment method
func (m *Machine) CanSubmit(method domain.PaymentMethod) bool {
	if m.buyer == nil || m.status == domain.CheckoutStatusProcessing || m.cartStore.IsEmpty() {
		return false
	}
	if m.draft.Mode() == domain.DraftSelecting && m.draft.SelectedAddressID() == uuid.Nil {
		return false
	}
	if method == domain.PaymentMethodOnline {
		loaded, loadFailed := m.loader.Status()
		if !loaded || loadFailed {
			return false
		}
	}
	return true
}

// Submit runs one checkout attempt: resolve address, build the submission,
// then branch on the payment method. A failed or succeeded machine re-enters
// PROCESSING cleanly on the next submit; all failures leave cart and address
// book exactly as before the attempt, except VERIFICATION_FAILED where the
// gateway has charged but no order was persisted.
func (m *Machine) Submit(ctx context.Context, method domain.PaymentMethod) error {
	// Entry guards: rejected with no state change.
	if m.status == domain.CheckoutStatusProcessing {
		return &errors.ErrValidation{Message: "a submission is already in flight"}
	}
	if m.buyer == nil {
		return &errors.ErrUnauthorized{Message: "no buyer session"}
	}
	if m.cartStore.IsEmpty() {
		return &errors.ErrEmptyCart{}
	}
	if method == domain.PaymentMethodOnline {
		loaded, loadFailed := m.loader.Status()
		if !loaded || loadFailed {
			return &errors.ErrGatewayUnavailable{LoadFailed: loadFailed}
		}
	}

	m.status = domain.CheckoutStatusProcessing
	m.reason = domain.ReasonNone
	m.fieldErrors = map[string]string{}

	if m.book == nil {
		if err := m.EnterCheckout(ctx); err != nil {
			return m.fail(domain.ReasonBackendFailure, err)
		}
	}

	shipping, err := m.resolver.Resolve(ctx, m.buyer.ID, m.draft, m.book)
	if err != nil {
		return m.fail(reasonForResolverError(err), err)
	}

	// Built fresh for every attempt; never cached across submits.
	submission, err := BuildSubmission(m.cartStore.Lines(), m.discount, shipping, method)
	if err != nil {
		return m.fail(domain.ReasonEmptyCart, err)
	}

	switch method {
	case domain.PaymentMethodOnline:
		return m.submitOnline(ctx, submission)
	default:
		return m.submitCOD(ctx, submission)
	}
}

func (m *Machine) submitCOD(ctx context.Context, submission *domain.OrderSubmission) error {
	order, err := m.orders.CreateOrder(ctx, submission)
	if err != nil {
		m.logger.Error("COD order creation failed", zap.Error(err))
		return m.fail(domain.ReasonBackendFailure, err)
	}
	m.succeed(order)
	return nil
}

func (m *Machine) submitOnline(ctx context.Context, submission *domain.OrderSubmission) error {
	gwOrder, err := m.orders.CreateGatewayOrder(ctx, submission.FinalAmount)
	if err != nil {
		m.logger.Error("Gateway order creation failed", zap.Error(err))
		return m.fail(domain.ReasonBackendFailure, err)
	}

	session := gateway.Session{
		PublicKey:      gwOrder.PublicKey,
		GatewayOrderID: gwOrder.GatewayOrderID,
		AmountMinor:    gwOrder.AmountMinor,
		Currency:       gwOrder.Currency,
		Description:    m.storeDesc,
		Prefill: gateway.Prefill{
			Name:    submission.Shipping.FullName,
			Email:   submission.Shipping.Email,
			Contact: submission.Shipping.PhoneNumber,
		},
	}

	// The machine stays in PROCESSING until the bridge reports the session's
	// single terminal completion.
	completion, err := m.bridge.Open(ctx, session)
	if err != nil {
		if gw, ok := err.(*errors.ErrGatewayUnavailable); ok {
			return m.fail(domain.ReasonGatewayUnavailable, gw)
		}
		return m.fail(domain.ReasonBackendFailure, err)
	}

	switch completion.Outcome {
	case gateway.OutcomeSuccess:
		order, err := m.orders.VerifyPayment(ctx, completion.Proof, submission)
		if err != nil {
			// The gateway has charged the buyer but the order is NOT
			// persisted. Surface it; never retry silently.
			m.logger.Error("Payment verification failed",
				zap.String("gateway_order_id", completion.Proof.GatewayOrderID),
				zap.String("gateway_payment_id", completion.Proof.GatewayPaymentID),
				zap.Error(err),
			)
			return m.fail(domain.ReasonVerificationFailed, &errors.ErrVerificationFailed{
				GatewayOrderID:   completion.Proof.GatewayOrderID,
				GatewayPaymentID: completion.Proof.GatewayPaymentID,
			})
		}
		m.succeed(order)
		return nil
	case gateway.OutcomeDismissed:
		return m.fail(domain.ReasonUserCancelled, &errors.ErrUserCancelled{})
	default:
		return m.fail(domain.ReasonGatewayDeclined, &errors.ErrGatewayDeclined{
			Code:        completion.FailureCode,
			Description: completion.FailureDescription,
		})
	}
}

// succeed clears the cart exactly once and hands the confirmed order to the
// navigator
func (m *Machine) succeed(order *domain.Order) {
	m.cartStore.Clear()
	m.status = domain.CheckoutStatusSucceeded
	m.reason = domain.ReasonNone
	m.logger.Info("Checkout succeeded",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_method", string(order.PaymentMethod)),
	)
	if m.nav != nil {
		m.nav.ShowOrderConfirmation(order)
	}
}

func (m *Machine) fail(reason domain.FailureReason, err error) error {
	m.status = domain.CheckoutStatusFailed
	m.reason = reason
	if ve, ok := err.(*errors.ErrValidation); ok {
		m.fieldErrors = ve.Fields
	}
	m.logger.Warn("Checkout attempt failed",
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
	return err
}

func reasonForResolverError(err error) domain.FailureReason {
	switch err.(type) {
	case *errors.ErrValidation:
		return domain.ReasonValidation
	case *errors.ErrNoAddressSelected:
		return domain.ReasonNoAddressSelected
	case *errors.ErrNotFound:
		return domain.ReasonAddressNotFound
	default:
		return domain.ReasonBackendFailure
	}
}
