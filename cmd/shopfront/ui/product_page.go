package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/storeapi"
)

// ProductModel is the single-product detail view. The description can
// run long, so it scrolls in a viewport.
type ProductModel struct {
	styles  Styles
	product storeapi.Product
	view    viewport.Model
}

// NewProductModel builds the detail view for one product.
func NewProductModel(styles Styles, p storeapi.Product, width, height int) ProductModel {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	vp := viewport.New(width-4, height-10)
	m := ProductModel{styles: styles, product: p, view: vp}
	m.view.SetContent(m.content())
	return m
}

func (m ProductModel) content() string {
	p := m.product
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.Title) + "\n\n")
	b.WriteString(m.styles.Price.Render(fmt.Sprintf("$%.2f", p.Price)) + "   ")
	b.WriteString(m.styles.Rating.Render(fmt.Sprintf("★ %.1f (%d reviews)", p.Rating.Rate, p.Rating.Count)) + "\n")
	b.WriteString(m.styles.Subtle.Render("Category: "+p.Category) + "\n\n")
	b.WriteString(p.Description + "\n")
	return b.String()
}

func (a App) updateProduct(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "b", "q":
			a.page = pageShop
			return a, nil
		case "a", "enter", " ":
			a.deps.Cart.AddToCart(context.Background(), a.product.product)
			return a.showStatus(fmt.Sprintf("Added %s to cart.", truncate(a.product.product.Title, 40)))
		case "c":
			a.cartPage = NewCartModel(a.styles)
			a.page = pageCart
			return a, nil
		}
	case tea.WindowSizeMsg:
		a.product.view.Width = msg.Width - 4
		a.product.view.Height = msg.Height - 10
	}

	var cmd tea.Cmd
	a.product.view, cmd = a.product.view.Update(msg)
	return a, cmd
}

// View renders the detail page inside a box.
func (m ProductModel) View() string {
	body := m.styles.Box.Render(m.view.View())
	help := m.styles.Help.Render("↑/↓ scroll • a add to cart • c cart • esc back")
	return "\n" + indent(body, 2) + "\n  " + help + "\n"
}

// indent prefixes every line of s with n spaces.
func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
