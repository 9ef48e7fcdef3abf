package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/cart"
	"github.com/Aviraj0403/grocery-checkout/internal/checkout"
	"github.com/Aviraj0403/grocery-checkout/internal/client"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/gateway"
)

// checkout drives a full checkout session against a running server. COD runs
// end to end; the online path uses a simulated modal (the real modal needs a
// browser) and is meant for exercising the failure branches in development.
func main() {
	serverFlag := flag.String("server", "http://localhost:8080", "Storefront API base URL")
	tokenFlag := flag.String("token", "", "Buyer API token")
	methodFlag := flag.String("method", "COD", "Payment method: COD or ONLINE")
	discountFlag := flag.Float64("discount", 0, "Discount in major currency units")
	addressFlag := flag.String("address-id", "", "Saved address id (default address is used when omitted)")
	simulateFlag := flag.String("simulate", "dismiss", "Simulated modal outcome for ONLINE: dismiss or fail")
	var items itemFlags
	flag.Var(&items, "item", "Cart line as productID:name:quantity:unitPrice (repeatable)")
	flag.Parse()

	if *tokenFlag == "" || len(items) == 0 {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/checkout/main.go --token buyer-token --item p1:Rice:2:100 [--item ...] [--method COD|ONLINE]")
		os.Exit(1)
	}

	method := domain.PaymentMethod(strings.ToUpper(*methodFlag))
	if !method.IsValid() {
		fmt.Fprintf(os.Stderr, "Invalid payment method %q\n", *methodFlag)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	store := cart.NewStore()
	for _, line := range items {
		store.Add(line)
	}

	api := client.NewClient(*serverFlag, *tokenFlag, logger)
	loader := gateway.NewLoader(&residentRegistry{}, "", logger)
	loader.EnsureLoaded()
	bridge := gateway.NewBridge(loader, &simulatedModal{outcome: *simulateFlag}, logger)

	machine := checkout.NewMachine(checkout.MachineParams{
		Buyer:     &domain.Buyer{ID: uuid.New(), Name: "CLI buyer"},
		Cart:      store,
		Addresses: api,
		Orders:    api,
		Loader:    loader,
		Bridge:    bridge,
		Navigator: &printNavigator{},
		Logger:    logger,
	})
	machine.SetDiscount(*discountFlag)

	ctx := context.Background()
	if err := machine.EnterCheckout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to enter checkout: %v\n", err)
		os.Exit(1)
	}

	if *addressFlag != "" {
		addressID, err := uuid.Parse(*addressFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid address id: %v\n", err)
			os.Exit(1)
		}
		machine.Draft().Select(addressID)
	}

	if err := machine.Submit(ctx, method); err != nil {
		fmt.Fprintf(os.Stderr, "Checkout failed (%s): %v\n", machine.FailureReason(), err)
		for field, msg := range machine.FieldErrors() {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		os.Exit(1)
	}

	fmt.Printf("Status: %s, cart items remaining: %d\n", machine.Status(), store.TotalQuantity())
}

// itemFlags collects repeated --item values
type itemFlags []domain.CartLine

func (f *itemFlags) String() string {
	return fmt.Sprintf("%d items", len(*f))
}

func (f *itemFlags) Set(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) != 4 {
		return fmt.Errorf("expected productID:name:quantity:unitPrice, got %q", value)
	}
	qty, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", parts[2], err)
	}
	price, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return fmt.Errorf("invalid unit price %q: %w", parts[3], err)
	}
	*f = append(*f, domain.CartLine{
		ProductID: parts[0],
		Name:      parts[1],
		Quantity:  qty,
		UnitPrice: price,
	})
	return nil
}

// residentRegistry reports the SDK as already present, the CLI equivalent of
// a page where checkout.js is resident
type residentRegistry struct{}

func (r *residentRegistry) Has(src string) bool     { return true }
func (r *residentRegistry) Inject(src string) error { return nil }

// simulatedModal settles the session with the configured outcome instead of
// opening a real payment modal
type simulatedModal struct {
	outcome string
}

func (m *simulatedModal) Open(ctx context.Context, session gateway.Session, callbacks gateway.Callbacks) error {
	fmt.Printf("Simulated payment modal: order %s, amount %d %s\n",
		session.GatewayOrderID, session.AmountMinor, session.Currency)
	switch m.outcome {
	case "fail":
		callbacks.OnFailure("BAD_REQUEST_ERROR", "simulated gateway decline")
	default:
		callbacks.OnDismiss()
	}
	return nil
}

type printNavigator struct{}

func (n *printNavigator) ShowOrderConfirmation(order *domain.Order) {
	fmt.Printf("Order confirmed: %s (%s, %s), total %.2f\n",
		order.ID, order.PaymentMethod, order.Status, order.FinalAmount)
}
