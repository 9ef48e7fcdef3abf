package gateway

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// Outcome is the terminal result of one opened modal session
type Outcome string

const (
	// OutcomeSuccess - payment completed; the completion carries the
	// gateway-issued payment/order/signature identifiers
	OutcomeSuccess Outcome = "SUCCESS"
	// OutcomeFailure - the gateway declined or errored the payment
	OutcomeFailure Outcome = "FAILURE"
	// OutcomeDismissed - the buyer closed the modal without paying
	OutcomeDismissed Outcome = "DISMISSED"
)

// Completion is the single terminal signal of a modal session
type Completion struct {
	Outcome            Outcome
	Proof              domain.PaymentProof
	FailureCode        string
	FailureDescription string
}

// Prefill seeds the modal's contact form
type Prefill struct {
	Name    string
	Email   string
	Contact string
}

// Session holds the parameters the modal is opened with
type Session struct {
	PublicKey      string
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
	Description    string
	Prefill        Prefill
}

// Callbacks are the three terminal callbacks registered on the external
// modal. The SDK may fire more than one of them for the same session (a
// failure event alongside a dismiss, for instance); the bridge treats the
// first as authoritative and drops the rest.
type Callbacks struct {
	OnSuccess func(proof domain.PaymentProof)
	OnFailure func(code, description string)
	OnDismiss func()
}

// Modal abstracts the external SDK's modal session
type Modal interface {
	Open(ctx context.Context, session Session, callbacks Callbacks) error
}

// Bridge wraps the external gateway's modal lifecycle behind a uniform
// completion contract: one opened session yields exactly one Completion.
type Bridge struct {
	loader *Loader
	modal  Modal
	logger *zap.Logger
}

// NewBridge creates a bridge over the given modal implementation
func NewBridge(loader *Loader, modal Modal, logger *zap.Logger) *Bridge {
	return &Bridge{
		loader: loader,
		modal:  modal,
		logger: logger,
	}
}

// Open starts one modal session and blocks until its terminal callback
// fires or ctx is cancelled. It fails synchronously, without opening a
// modal, when the SDK is not loaded. The exactly-once contract is enforced
// here with a guard rather than trusted to the SDK.
func (b *Bridge) Open(ctx context.Context, session Session) (Completion, error) {
	loaded, loadFailed := b.loader.Status()
	if !loaded || loadFailed {
		return Completion{}, &errors.ErrGatewayUnavailable{LoadFailed: loadFailed}
	}

	done := make(chan Completion, 1)
	var settled atomic.Bool

	settle := func(c Completion) {
		if !settled.CompareAndSwap(false, true) {
			b.logger.Warn("Ignoring extra gateway callback for settled session",
				zap.String("gateway_order_id", session.GatewayOrderID),
				zap.String("outcome", string(c.Outcome)),
			)
			return
		}
		done <- c
	}

	callbacks := Callbacks{
		OnSuccess: func(proof domain.PaymentProof) {
			settle(Completion{Outcome: OutcomeSuccess, Proof: proof})
		},
		OnFailure: func(code, description string) {
			settle(Completion{Outcome: OutcomeFailure, FailureCode: code, FailureDescription: description})
		},
		OnDismiss: func() {
			settle(Completion{Outcome: OutcomeDismissed})
		},
	}

	if err := b.modal.Open(ctx, session, callbacks); err != nil {
		return Completion{}, err
	}

	select {
	case c := <-done:
		b.logger.Info("Gateway session settled",
			zap.String("gateway_order_id", session.GatewayOrderID),
			zap.String("outcome", string(c.Outcome)),
		)
		return c, nil
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	}
}
