package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/storeapi"
)

// ShopModel is the product browser: search, filters, sort, and a
// paginated grid of results. The full catalog is held in memory; every
// filter change re-runs the pipeline and snaps back to page one.
type ShopModel struct {
	styles   Styles
	pageSize int

	products   []storeapi.Product
	categories []string
	bounds     catalog.PriceBounds

	filter catalog.Filter
	page   int
	cursor int

	search    textinput.Model
	searchGen int
}

// NewShopModel builds the shop page with an empty catalog.
func NewShopModel(styles Styles, pageSize int) ShopModel {
	search := textinput.New()
	search.Placeholder = "Search products…"
	search.Prompt = "/ "
	search.CharLimit = 80
	return ShopModel{
		styles:   styles,
		pageSize: pageSize,
		filter:   catalog.NewFilter(catalog.PriceBounds{Min: 0, Max: 1000}),
		page:     1,
		search:   search,
	}
}

// SetCatalog installs the loaded catalog and resets the filter to match
// everything within the new price bounds.
func (m *ShopModel) SetCatalog(products []storeapi.Product, categories []string, bounds catalog.PriceBounds) {
	m.products = products
	m.categories = categories
	m.bounds = bounds
	m.filter.Reset(bounds)
	m.page = 1
	m.cursor = 0
}

// currentPage runs the filter pipeline for the current page.
func (m ShopModel) currentPage() catalog.Page {
	return catalog.Paginate(m.products, m.filter, m.page, m.pageSize)
}

// filterChanged snaps pagination and selection back to the start. Every
// filter mutation goes through here so a shopper is never left on a
// page number the narrowed result set no longer has.
func (m *ShopModel) filterChanged() {
	m.page = 1
	m.cursor = 0
}

// selected returns the product under the cursor, if any.
func (m ShopModel) selected() (storeapi.Product, bool) {
	items := m.currentPage().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return storeapi.Product{}, false
	}
	return items[m.cursor], true
}

func (a App) updateShop(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := &a.shop

	switch msg := msg.(type) {
	case searchDebouncedMsg:
		if msg.Gen != m.searchGen {
			return a, nil
		}
		m.filter.Query = m.search.Value()
		m.filterChanged()
		return a, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			switch msg.String() {
			case "esc":
				m.search.Blur()
				return a, nil
			case "enter":
				m.search.Blur()
				m.filter.Query = m.search.Value()
				m.filterChanged()
				return a, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.searchGen++
			return a, tea.Batch(cmd, debounceSearch(m.searchGen))
		}

		switch msg.String() {
		case "q":
			return a, tea.Quit

		case "/":
			return a, m.search.Focus()

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.currentPage().Items)-1 {
				m.cursor++
			}
		case "left", "h":
			if m.page > 1 {
				m.page--
				m.cursor = 0
			}
		case "right", "l":
			if m.page < m.currentPage().TotalPages {
				m.page++
				m.cursor = 0
			}

		case "enter":
			if p, ok := m.selected(); ok {
				a.product = NewProductModel(a.styles, p, a.width, a.height)
				a.page = pageProduct
			}
		case "a", " ":
			if p, ok := m.selected(); ok {
				a.deps.Cart.AddToCart(context.Background(), p)
				return a.showStatus(fmt.Sprintf("Added %s to cart.", truncate(p.Title, 40)))
			}

		case "s":
			m.filter.Sort = nextSortKey(m.filter.Sort)
			m.filterChanged()
		case "r":
			m.filter.MinRating = nextMinRating(m.filter.MinRating)
			m.filterChanged()
		case "[":
			m.filter.PriceMax -= 10
			if m.filter.PriceMax < m.filter.PriceMin {
				m.filter.PriceMax = m.filter.PriceMin
			}
			m.filterChanged()
		case "]":
			m.filter.PriceMax += 10
			if m.filter.PriceMax > m.bounds.Max {
				m.filter.PriceMax = m.bounds.Max
			}
			m.filterChanged()
		case "x":
			m.filter.Reset(m.bounds)
			m.search.SetValue("")
			m.filterChanged()

		case "c":
			a.cartPage = NewCartModel(a.styles)
			a.page = pageCart
		case "u":
			a.authPage = NewAuthModel(a.styles)
			a.page = pageAuth
			return a, a.authPage.focusCmd()
		case "o":
			if s := a.deps.Auth.State(); s.IsAuthenticated {
				a.deps.Auth.Logout(context.Background())
				return a.showStatus("Signed out.")
			}

		default:
			// 1-9 toggle the nth category filter
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.categories) {
				m.filter.ToggleCategory(m.categories[n-1])
				m.filterChanged()
			}
		}
	}

	return a, nil
}

func nextSortKey(current catalog.SortKey) catalog.SortKey {
	for i, k := range catalog.SortKeys {
		if k == current {
			return catalog.SortKeys[(i+1)%len(catalog.SortKeys)]
		}
	}
	return catalog.SortDefault
}

// nextMinRating cycles 0 → 1 → 2 → 3 → 4 → 0.
func nextMinRating(current float64) float64 {
	if current >= 4 {
		return 0
	}
	return current + 1
}

// View renders the shop page. The cart container supplies live per-item
// quantities for the "in cart" badges.
func (m ShopModel) View(c *cart.Container) string {
	var b strings.Builder

	b.WriteString("  " + m.search.View() + "\n")
	b.WriteString("  " + m.filterLine() + "\n\n")

	page := m.currentPage()
	if page.TotalCount == 0 {
		b.WriteString("  " + m.styles.Subtle.Render("No products match your filters.") + "\n")
	}
	for i, p := range page.Items {
		cursor := "  "
		title := truncate(p.Title, 48)
		line := fmt.Sprintf("%-50s %s  %s",
			title,
			m.styles.Price.Render(fmt.Sprintf("$%8.2f", p.Price)),
			m.styles.Rating.Render(fmt.Sprintf("★ %.1f (%d)", p.Rating.Rate, p.Rating.Count)))
		if qty := c.ItemQuantity(p.ID); qty > 0 {
			line += "  " + m.styles.Badge.Render(fmt.Sprintf("×%d", qty))
		}
		if i == m.cursor {
			cursor = "> "
			line = m.styles.Selected.Render(line)
		}
		b.WriteString("  " + cursor + line + "\n")
	}

	b.WriteString("\n  " + m.styles.Subtle.Render(
		fmt.Sprintf("Page %d/%d — %d products", page.Number, max(page.TotalPages, 1), page.TotalCount)) + "\n")
	b.WriteString("  " + m.styles.Help.Render(
		"↑/↓ select • ←/→ page • enter details • a add • c cart • / search • s sort • r rating • [/] price • 1-9 category • x clear • u account • q quit") + "\n")
	return b.String()
}

func (m ShopModel) filterLine() string {
	parts := []string{"Sort: " + m.filter.Sort.Label()}
	if len(m.filter.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(m.filter.Categories, ", "))
	}
	if m.filter.PriceMax < m.bounds.Max {
		parts = append(parts, fmt.Sprintf("Price ≤ $%.0f", m.filter.PriceMax))
	}
	if m.filter.MinRating > 0 {
		parts = append(parts, fmt.Sprintf("Rating ≥ %.0f", m.filter.MinRating))
	}
	line := m.styles.Subtle.Render(strings.Join(parts, " • "))

	var cats []string
	for i, cat := range m.categories {
		label := fmt.Sprintf("%d:%s", i+1, cat)
		if m.filter.HasCategory(cat) {
			label = m.styles.Selected.Render(label)
		} else {
			label = m.styles.Help.Render(label)
		}
		cats = append(cats, label)
	}
	if len(cats) > 0 {
		line += "\n  " + strings.Join(cats, "  ")
	}
	return line
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
