package cart

import (
	"context"
	"encoding/json"
	"sync"

	"shopfront/internal/kvstore"
	"shopfront/internal/logging"
	"shopfront/internal/storeapi"
)

// Container is the single source of truth for the cart. Every mutating
// operation dispatches through the reducer and then persists the new
// state to the key-value store. Persistence is best-effort: a failed
// save is logged and the in-memory mutation stands.
type Container struct {
	mu    sync.RWMutex
	state State
	store kvstore.Store
	log   *logging.Logger
}

// NewContainer creates a cart container backed by the given store and
// rehydrates any previously persisted state. Malformed or missing
// persisted data yields an empty cart, never an error.
func NewContainer(ctx context.Context, store kvstore.Store) *Container {
	c := &Container{
		store: store,
		log:   logging.Get(logging.CategoryCart),
	}
	c.state = c.loadFromStore(ctx)
	return c
}

func (c *Container) loadFromStore(ctx context.Context) State {
	data, ok, err := c.store.Load(ctx, kvstore.KeyCart)
	if err != nil {
		c.log.Warn("failed to load cart: %v", err)
		return State{}
	}
	if !ok {
		return State{}
	}
	var saved State
	if err := json.Unmarshal(data, &saved); err != nil {
		c.log.Warn("discarding malformed cart data: %v", err)
		return State{}
	}
	if saved.Items == nil {
		// Old or corrupt blob without a line-item list.
		return State{}
	}
	// Persisted totals are untrusted; recompute from the items.
	return withTotals(saved.Items)
}

// dispatch applies an action and persists the result.
func (c *Container) dispatch(ctx context.Context, a action) State {
	c.mu.Lock()
	c.state = reduce(c.state, a)
	next := c.state
	c.mu.Unlock()

	data, err := json.Marshal(next)
	if err != nil {
		c.log.Error("failed to serialize cart: %v", err)
		return next
	}
	if err := c.store.Save(ctx, kvstore.KeyCart, data); err != nil {
		c.log.Warn("failed to persist cart: %v", err)
	}
	return next
}

// AddToCart inserts the product with quantity 1, or increments the
// existing line item. Always succeeds.
func (c *Container) AddToCart(ctx context.Context, p storeapi.Product) State {
	c.log.Debug("add to cart: product %d", p.ID)
	return c.dispatch(ctx, addAction{Product: p})
}

// RemoveFromCart deletes the line item for productID. Removing an
// absent id is a no-op, not an error.
func (c *Container) RemoveFromCart(ctx context.Context, productID int) State {
	c.log.Debug("remove from cart: product %d", productID)
	return c.dispatch(ctx, removeAction{ProductID: productID})
}

// UpdateQuantity sets the quantity for productID. A quantity <= 0
// removes the line item. Updates for ids not in the cart are no-ops.
func (c *Container) UpdateQuantity(ctx context.Context, productID, quantity int) State {
	c.log.Debug("update quantity: product %d -> %d", productID, quantity)
	return c.dispatch(ctx, updateQuantityAction{ProductID: productID, Quantity: quantity})
}

// ClearCart resets to the empty cart.
func (c *Container) ClearCart(ctx context.Context) State {
	c.log.Debug("clear cart")
	return c.dispatch(ctx, clearAction{})
}

// ItemQuantity returns the current quantity for a product id, 0 if the
// product is not in the cart.
func (c *Container) ItemQuantity(productID int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.ItemQuantity(productID)
}

// State returns a snapshot of the current cart state.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
