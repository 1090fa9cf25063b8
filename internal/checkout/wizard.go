package checkout

import (
	"context"
	"errors"
	"time"

	"shopfront/internal/cart"
	"shopfront/internal/logging"
)

// Step indexes the wizard's linear flow.
type Step int

const (
	StepShipping Step = iota
	StepPayment
	StepReview
)

// Label returns the step's display name.
func (s Step) Label() string {
	switch s {
	case StepShipping:
		return "Shipping"
	case StepPayment:
		return "Payment"
	case StepReview:
		return "Review"
	default:
		return "Unknown"
	}
}

// Steps lists the wizard steps in order.
var Steps = []Step{StepShipping, StepPayment, StepReview}

var (
	// ErrNotAtReview is returned when PlaceOrder is invoked before the
	// review step.
	ErrNotAtReview = errors.New("order can only be placed from the review step")
	// ErrAlreadyPlaced is returned when PlaceOrder is invoked after the
	// flow reached its terminal state.
	ErrAlreadyPlaced = errors.New("order already placed")
	// ErrEmptyCart is returned when the flow is entered with nothing in
	// the cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// Wizard is the checkout state machine. It owns the step index, the two
// form records, and the field error map; order placement delegates to
// the injected Placer and clears the cart on success.
type Wizard struct {
	cart   *cart.Container
	placer Placer
	now    func() time.Time
	log    *logging.Logger

	step    Step
	placed  bool
	placing bool
	order   *Order

	Shipping ShippingInfo
	Payment  PaymentInfo
	errors   FieldErrors
}

// NewWizard creates a checkout wizard over the given cart. Returns
// ErrEmptyCart when there is nothing to check out; callers render the
// empty-cart state instead of the wizard.
func NewWizard(c *cart.Container, placer Placer) (*Wizard, error) {
	if c.State().IsEmpty() {
		return nil, ErrEmptyCart
	}
	return &Wizard{
		cart:   c,
		placer: placer,
		now:    time.Now,
		log:    logging.Get(logging.CategoryCheckout),
		Payment: PaymentInfo{
			BillingAddressSameAsShipping: true,
		},
		errors: make(FieldErrors),
	}, nil
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Errors returns the current field error map. The map is live until the
// next Next call; treat it as read-only.
func (w *Wizard) Errors() FieldErrors { return w.errors }

// OrderPlaced reports whether the flow reached its terminal state.
func (w *Wizard) OrderPlaced() bool { return w.placed }

// Placing reports whether an order submission is in flight.
func (w *Wizard) Placing() bool { return w.placing }

// Order returns the confirmed order, or nil before placement.
func (w *Wizard) Order() *Order { return w.order }

// Totals prices the current cart under the storefront policy.
func (w *Wizard) Totals() Totals { return ComputeTotals(w.cart.State()) }

// Items returns the cart lines the order will contain.
func (w *Wizard) Items() []cart.LineItem { return w.cart.State().Items }

// Next validates the current step. On success it advances and returns
// true; on failure it stays put, exposes the field errors, and returns
// false. The review step has no validation and never advances (the only
// exit from review is PlaceOrder).
func (w *Wizard) Next() bool {
	switch w.step {
	case StepShipping:
		w.errors = ValidateShipping(w.Shipping)
	case StepPayment:
		w.errors = ValidatePayment(w.Payment, w.now())
	default:
		return false
	}
	if len(w.errors) > 0 {
		w.log.Debug("step %s blocked by %d field errors", w.step.Label(), len(w.errors))
		return false
	}
	w.step++
	return true
}

// Back moves one step back without validation. Disabled at the first
// step.
func (w *Wizard) Back() {
	if w.step > StepShipping {
		w.step--
	}
}

// ClearFieldError clears a single field's error, the way the form does
// when the shopper edits that field.
func (w *Wizard) ClearFieldError(field string) {
	delete(w.errors, field)
}

// PlaceOrder submits the order through the Placer, clears the cart, and
// moves the flow to its terminal state. Only valid at the review step,
// and only once.
func (w *Wizard) PlaceOrder(ctx context.Context) (Order, error) {
	if w.placed {
		return Order{}, ErrAlreadyPlaced
	}
	if w.step != StepReview {
		return Order{}, ErrNotAtReview
	}

	w.placing = true
	defer func() { w.placing = false }()

	state := w.cart.State()
	req := OrderRequest{
		Items:    state.Items,
		Totals:   ComputeTotals(state),
		Shipping: w.Shipping,
		Payment:  w.Payment,
	}

	order, err := w.placer.Place(ctx, req)
	if err != nil {
		w.log.Warn("order placement failed: %v", err)
		return Order{}, err
	}

	w.cart.ClearCart(ctx)
	w.placed = true
	w.order = &order
	w.log.Info("order %s placed (%d items, total %.2f)", order.ID, len(order.Items), order.Totals.Total)
	return order, nil
}
