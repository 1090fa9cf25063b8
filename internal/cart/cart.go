// Package cart owns the shopping cart: line items, quantities, and
// derived totals. All mutation flows through a reducer over tagged
// actions; the container wraps the reducer with best-effort persistence.
package cart

import (
	"shopfront/internal/storeapi"
)

// LineItem is a product plus the quantity of it currently in the cart.
// Quantity is always >= 1; a transition that would drop it to zero
// removes the line item instead.
type LineItem struct {
	storeapi.Product
	Quantity int `json:"quantity"`
}

// State is the full cart: ordered line items (at most one per product
// id) plus derived totals. TotalItems and TotalPrice are never mutated
// directly; every reducer transition recomputes them from the items.
type State struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// IsEmpty reports whether the cart has no line items.
func (s State) IsEmpty() bool { return len(s.Items) == 0 }

// ItemQuantity returns the quantity for a product id, or 0 if the
// product is not in the cart.
func (s State) ItemQuantity(productID int) int {
	for _, item := range s.Items {
		if item.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// calculateTotals recomputes the derived fields from the line items.
func calculateTotals(items []LineItem) (totalItems int, totalPrice float64) {
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice += item.Price * float64(item.Quantity)
	}
	return totalItems, totalPrice
}

// action is the tagged union of cart transitions.
type action interface{ isCartAction() }

type addAction struct{ Product storeapi.Product }

type removeAction struct{ ProductID int }

type updateQuantityAction struct {
	ProductID int
	Quantity  int
}

type clearAction struct{}

type loadAction struct{ State State }

func (addAction) isCartAction()            {}
func (removeAction) isCartAction()         {}
func (updateQuantityAction) isCartAction() {}
func (clearAction) isCartAction()          {}
func (loadAction) isCartAction()           {}

// reduce maps (state, action) to the next state. Pure: the input state
// is never mutated and slices are copied before modification.
func reduce(state State, a action) State {
	switch a := a.(type) {
	case loadAction:
		return a.State

	case addAction:
		items := make([]LineItem, len(state.Items))
		copy(items, state.Items)
		found := false
		for i := range items {
			if items[i].ID == a.Product.ID {
				items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			items = append(items, LineItem{Product: a.Product, Quantity: 1})
		}
		return withTotals(items)

	case removeAction:
		return withTotals(without(state.Items, a.ProductID))

	case updateQuantityAction:
		if a.Quantity <= 0 {
			return withTotals(without(state.Items, a.ProductID))
		}
		items := make([]LineItem, len(state.Items))
		copy(items, state.Items)
		// Unknown ids fall through untouched: the quantity controls only
		// exist for items already in the cart.
		for i := range items {
			if items[i].ID == a.ProductID {
				items[i].Quantity = a.Quantity
				break
			}
		}
		return withTotals(items)

	case clearAction:
		return State{}

	default:
		return state
	}
}

func without(items []LineItem, productID int) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

func withTotals(items []LineItem) State {
	totalItems, totalPrice := calculateTotals(items)
	return State{Items: items, TotalItems: totalItems, TotalPrice: totalPrice}
}
