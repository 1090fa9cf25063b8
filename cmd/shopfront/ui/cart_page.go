package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/cart"
	"shopfront/internal/checkout"
)

// CartModel is the cart review page: adjust quantities, remove lines,
// and hand off to checkout. All cart state lives in the container; the
// page only keeps a cursor.
type CartModel struct {
	styles Styles
	cursor int
}

// NewCartModel builds the cart page.
func NewCartModel(styles Styles) CartModel {
	return CartModel{styles: styles}
}

func (a App) updateCart(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := &a.cartPage
	ctx := context.Background()
	state := a.deps.Cart.State()

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch key.String() {
	case "esc", "b", "q":
		a.page = pageShop
		return a, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(state.Items)-1 {
			m.cursor++
		}

	case "+", "=", "right", "l":
		if item, ok := m.line(state); ok {
			a.deps.Cart.UpdateQuantity(ctx, item.ID, item.Quantity+1)
		}
	case "-", "left", "h":
		if item, ok := m.line(state); ok {
			// dropping to zero removes the line, same as delete
			a.deps.Cart.UpdateQuantity(ctx, item.ID, item.Quantity-1)
			m.clamp(a.deps.Cart.State())
		}
	case "d", "x":
		if item, ok := m.line(state); ok {
			a.deps.Cart.RemoveFromCart(ctx, item.ID)
			m.clamp(a.deps.Cart.State())
			return a.showStatus(fmt.Sprintf("Removed %s.", truncate(item.Title, 40)))
		}
	case "X":
		if !state.IsEmpty() {
			a.deps.Cart.ClearCart(ctx)
			m.cursor = 0
			return a.showStatus("Cart cleared.")
		}

	case "enter", "o":
		if state.IsEmpty() {
			return a.showStatus("Your cart is empty.")
		}
		if !a.deps.Auth.State().IsAuthenticated {
			a.authPage = NewAuthModel(a.styles)
			a.authPage.checkoutAfter = true
			a.page = pageAuth
			focus := a.authPage.focusCmd()
			model, cmd := a.showStatus("Please sign in to check out.")
			return model, tea.Batch(cmd, focus)
		}
		return a.startCheckout()
	}

	return a, nil
}

// startCheckout opens the wizard over the current cart.
func (a App) startCheckout() (tea.Model, tea.Cmd) {
	w, err := checkout.NewWizard(a.deps.Cart, a.deps.Placer)
	if err != nil {
		return a.showStatus("Your cart is empty.")
	}
	cm := NewCheckoutModel(a.styles, w)
	a.checkout = &cm
	a.page = pageCheckout
	return a, cm.focusCmd()
}

func (m CartModel) line(state cart.State) (cart.LineItem, bool) {
	if m.cursor < 0 || m.cursor >= len(state.Items) {
		return cart.LineItem{}, false
	}
	return state.Items[m.cursor], true
}

func (m *CartModel) clamp(state cart.State) {
	if m.cursor >= len(state.Items) {
		m.cursor = len(state.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the cart contents and the priced summary.
func (m CartModel) View(c *cart.Container) string {
	state := c.State()
	var b strings.Builder

	b.WriteString("  " + m.styles.Title.Render("Your Cart") + "\n\n")

	if state.IsEmpty() {
		b.WriteString("  " + m.styles.Subtle.Render("Your cart is empty. Go find something you like.") + "\n\n")
		b.WriteString("  " + m.styles.Help.Render("esc back to shop") + "\n")
		return b.String()
	}

	for i, item := range state.Items {
		cursor := "  "
		line := fmt.Sprintf("%-46s %s  ×%-3d %s",
			truncate(item.Title, 44),
			m.styles.Price.Render(fmt.Sprintf("$%8.2f", item.Price)),
			item.Quantity,
			m.styles.Subtle.Render(fmt.Sprintf("= $%.2f", item.Price*float64(item.Quantity))))
		if i == m.cursor {
			cursor = "> "
			line = m.styles.Selected.Render(line)
		}
		b.WriteString("  " + cursor + line + "\n")
	}

	totals := checkout.ComputeTotals(state)
	b.WriteString("\n" + indent(m.summary(totals), 2) + "\n")
	b.WriteString("  " + m.styles.Help.Render(
		"↑/↓ select • +/- quantity • d remove • X clear • enter checkout • esc back") + "\n")
	return b.String()
}

func (m CartModel) summary(t checkout.Totals) string {
	shipping := fmt.Sprintf("$%.2f", t.Shipping)
	if t.Shipping == 0 {
		shipping = m.styles.Success.Render("FREE")
	}
	rows := fmt.Sprintf("Subtotal  $%8.2f\nTax       $%8.2f\nShipping  %9s\n%s",
		t.Subtotal, t.Tax, shipping,
		m.styles.Title.Render(fmt.Sprintf("Total     $%8.2f", t.Total)))
	return m.styles.Box.Render(rows)
}
