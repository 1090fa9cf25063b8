package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/auth"
	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/checkout"
	"shopfront/internal/logging"
	"shopfront/internal/storeapi"
)

// Deps are the storefront's collaborators. Containers are created by
// the caller so the UI never owns persistence or remote-call policy.
type Deps struct {
	Client   *storeapi.Client
	Cart     *cart.Container
	Auth     *auth.Container
	Placer   checkout.Placer
	PageSize int
}

type page int

const (
	pageShop page = iota
	pageProduct
	pageCart
	pageCheckout
	pageAuth
)

// App is the root model. It owns the loaded catalog and routes input to
// the active page.
type App struct {
	deps   Deps
	styles Styles
	log    *logging.Logger

	page   page
	width  int
	height int

	spinner spinner.Model
	loading bool
	loadErr string

	products   []storeapi.Product
	categories []string
	bounds     catalog.PriceBounds

	shop     ShopModel
	product  ProductModel
	cartPage CartModel
	checkout *CheckoutModel
	authPage AuthModel

	status    string
	statusGen int
}

// NewApp builds the root model.
func NewApp(deps Deps) App {
	if deps.PageSize <= 0 {
		deps.PageSize = catalog.DefaultPageSize
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	styles := DefaultStyles()
	return App{
		deps:     deps,
		styles:   styles,
		log:      logging.Get(logging.CategoryUI),
		spinner:  sp,
		loading:  true,
		shop:     NewShopModel(styles, deps.PageSize),
		authPage: NewAuthModel(styles),
	}
}

// Run starts the storefront program.
func Run(deps Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init kicks off the catalog load and session verification.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadCatalogCmd(), a.restoreSessionCmd())
}

// Update routes messages to the active page.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.routeToPage(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.loadErr != "" && len(a.products) == 0 {
			switch msg.String() {
			case "r":
				a.loading = true
				a.loadErr = ""
				return a, tea.Batch(a.spinner.Tick, a.loadCatalogCmd())
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

	case spinner.TickMsg:
		if a.loading || (a.checkout != nil && a.checkout.placing) {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case catalogLoadedMsg:
		a.loading = false
		if msg.Err != nil {
			a.log.Warn("catalog load failed: %v", msg.Err)
			a.loadErr = "Failed to load products. Please check your connection and try again."
			return a, nil
		}
		a.loadErr = ""
		a.products = msg.Catalog.Products
		a.categories = msg.Catalog.Categories
		a.bounds = catalog.Bounds(a.products)
		a.shop.SetCatalog(a.products, a.categories, a.bounds)
		return a, nil

	case sessionRestoredMsg:
		if state := a.deps.Auth.State(); state.IsAuthenticated {
			return a.showStatus(fmt.Sprintf("Welcome back, %s.", state.User.Username))
		}
		return a, nil

	case clearStatusMsg:
		if msg.Gen == a.statusGen {
			a.status = ""
		}
		return a, nil

	case orderPlacedMsg, loginResultMsg, searchDebouncedMsg:
		// fall through to page routing below
	}

	return a.routeToPage(msg)
}

func (a App) routeToPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.page {
	case pageShop:
		return a.updateShop(msg)
	case pageProduct:
		return a.updateProduct(msg)
	case pageCart:
		return a.updateCart(msg)
	case pageCheckout:
		return a.updateCheckout(msg)
	case pageAuth:
		return a.updateAuth(msg)
	}
	return a, nil
}

func (a App) showStatus(text string) (tea.Model, tea.Cmd) {
	a.status = text
	a.statusGen++
	return a, setStatus(a.statusGen)
}

// View renders the active page with the shared header and status bar.
func (a App) View() string {
	if a.loading {
		return fmt.Sprintf("\n  %s Loading the store…\n", a.spinner.View())
	}
	if a.loadErr != "" && len(a.products) == 0 {
		return "\n  " + a.styles.Error.Render(a.loadErr) + "\n\n  " +
			a.styles.Help.Render("r retry • q quit") + "\n"
	}

	var body string
	switch a.page {
	case pageShop:
		body = a.shop.View(a.deps.Cart)
	case pageProduct:
		body = a.product.View()
	case pageCart:
		body = a.cartPage.View(a.deps.Cart)
	case pageCheckout:
		body = a.checkout.View(a.spinner)
	case pageAuth:
		body = a.authPage.View() + a.authPage.AuthError(a.deps.Auth.State().Err)
	}

	header := a.headerView()
	footer := ""
	if a.status != "" {
		footer = "\n" + a.styles.StatusBar.Render("  "+a.status)
	}
	return header + "\n" + body + footer
}

func (a App) headerView() string {
	state := a.deps.Cart.State()
	cartBadge := fmt.Sprintf("Cart: %d ($%.2f)", state.TotalItems, state.TotalPrice)

	who := "guest"
	if s := a.deps.Auth.State(); s.IsAuthenticated {
		who = s.User.Username
	}

	return a.styles.Header.Render("  SHOPFRONT  ") + "  " +
		a.styles.Badge.Render(cartBadge) + "  " +
		a.styles.Subtle.Render(who)
}
