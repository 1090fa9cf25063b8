package checkout

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopfront/internal/cart"
)

// Tax and shipping policy for the storefront. Shipping is free at or
// above the threshold.
const (
	TaxRate               = 0.08
	ShippingCost          = 10.0
	FreeShippingThreshold = 100.0
)

// deliveryLeadTime is the fixed estimate shown on the confirmation.
const deliveryLeadTime = 7 * 24 * time.Hour

// Totals is the priced breakdown of a cart at checkout.
type Totals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// ComputeTotals prices a cart snapshot under the storefront policy.
func ComputeTotals(state cart.State) Totals {
	subtotal := state.TotalPrice
	tax := subtotal * TaxRate
	shipping := ShippingCost
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}

// Order is a placed order: the cart contents and totals snapshotted at
// placement time. Orders are display-only; there is no backend order
// store.
type Order struct {
	ID                string // short display code shown to the shopper
	Reference         string // stable unique reference for logs/receipts
	Items             []cart.LineItem
	Totals            Totals
	Shipping          ShippingInfo
	PlacedAt          time.Time
	EstimatedDelivery time.Time
}

// OrderRequest is what the wizard hands to a Placer.
type OrderRequest struct {
	Items    []cart.LineItem
	Totals   Totals
	Shipping ShippingInfo
	Payment  PaymentInfo
}

// Placer submits an order. The wizard treats it as an opaque external
// call; swapping in a real order service is a construction-time choice.
type Placer interface {
	Place(ctx context.Context, req OrderRequest) (Order, error)
}

// NewOrderID generates the short display code (6 base-36 characters).
func NewOrderID() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}

// MockPlacer simulates an order submission round-trip with a fixed
// latency. It honors context cancellation.
type MockPlacer struct {
	Latency time.Duration
	now     func() time.Time
}

// NewMockPlacer returns a placer with the given simulated latency.
func NewMockPlacer(latency time.Duration) *MockPlacer {
	return &MockPlacer{Latency: latency, now: time.Now}
}

// Place waits out the simulated latency and confirms the order.
func (p *MockPlacer) Place(ctx context.Context, req OrderRequest) (Order, error) {
	if p.Latency > 0 {
		select {
		case <-time.After(p.Latency):
		case <-ctx.Done():
			return Order{}, ctx.Err()
		}
	}
	now := time.Now()
	if p.now != nil {
		now = p.now()
	}
	return Order{
		ID:                NewOrderID(),
		Reference:         uuid.NewString(),
		Items:             req.Items,
		Totals:            req.Totals,
		Shipping:          req.Shipping,
		PlacedAt:          now,
		EstimatedDelivery: now.Add(deliveryLeadTime),
	}, nil
}
