package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"shopfront/internal/checkout"
)

// CheckoutModel drives the three-step order wizard. Form values are
// mirrored into the wizard's records before every validation; the
// wizard owns step position, field errors, and the terminal state.
type CheckoutModel struct {
	styles Styles
	wizard *checkout.Wizard

	inputs []textinput.Model
	keys   []string // wizard field-error key per input
	labels []string
	focus  int

	placing  bool
	placeErr string
	confirm  string
}

// NewCheckoutModel builds the wizard page at the shipping step.
func NewCheckoutModel(styles Styles, w *checkout.Wizard) CheckoutModel {
	m := CheckoutModel{styles: styles, wizard: w}
	m.buildInputs()
	return m
}

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 32
	return in
}

// buildInputs rebuilds the field set for the current step, seeding each
// input from the wizard so values survive Back/Next round trips.
func (m *CheckoutModel) buildInputs() {
	m.focus = 0
	m.inputs = nil
	m.keys = nil
	m.labels = nil

	add := func(key, label, placeholder, value string, limit int) {
		in := newFormInput(placeholder, limit)
		in.SetValue(value)
		m.inputs = append(m.inputs, in)
		m.keys = append(m.keys, key)
		m.labels = append(m.labels, label)
	}

	switch m.wizard.Step() {
	case checkout.StepShipping:
		s := m.wizard.Shipping
		add("fullName", "Full name", "Jane Doe", s.FullName, 64)
		add("email", "Email", "jane@example.com", s.Email, 64)
		add("phone", "Phone", "555-0100", s.Phone, 24)
		add("street", "Street", "123 Main St", s.Street, 64)
		add("city", "City", "Springfield", s.City, 48)
		add("state", "State", "IL", s.State, 24)
		add("zipCode", "ZIP code", "62704", s.ZipCode, 10)

	case checkout.StepPayment:
		p := m.wizard.Payment
		add("cardNumber", "Card number", "4242 4242 4242 4242", p.CardNumber, 23)
		add("expiryDate", "Expiry (MM/YY)", "12/30", p.ExpiryDate, 5)
		add("cvv", "CVV", "123", p.CVV, 4)
		add("cardholderName", "Name on card", "Jane Doe", p.CardholderName, 64)
		if !p.BillingAddressSameAsShipping {
			add("billingStreet", "Billing street", "123 Main St", p.BillingStreet, 64)
			add("billingCity", "Billing city", "Springfield", p.BillingCity, 48)
			add("billingState", "Billing state", "IL", p.BillingState, 24)
			add("billingZipCode", "Billing ZIP", "62704", p.BillingZipCode, 10)
		}
	}
}

// focusCmd focuses the current input, if the step has any.
func (m *CheckoutModel) focusCmd() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmds = append(cmds, m.inputs[i].Focus())
			continue
		}
		m.inputs[i].Blur()
	}
	return tea.Batch(cmds...)
}

// syncForm copies the input values into the wizard's form records.
func (m *CheckoutModel) syncForm() {
	for i, key := range m.keys {
		v := m.inputs[i].Value()
		switch key {
		case "fullName":
			m.wizard.Shipping.FullName = v
		case "email":
			m.wizard.Shipping.Email = v
		case "phone":
			m.wizard.Shipping.Phone = v
		case "street":
			m.wizard.Shipping.Street = v
		case "city":
			m.wizard.Shipping.City = v
		case "state":
			m.wizard.Shipping.State = v
		case "zipCode":
			m.wizard.Shipping.ZipCode = v
		case "cardNumber":
			m.wizard.Payment.CardNumber = v
		case "expiryDate":
			m.wizard.Payment.ExpiryDate = v
		case "cvv":
			m.wizard.Payment.CVV = v
		case "cardholderName":
			m.wizard.Payment.CardholderName = v
		case "billingStreet":
			m.wizard.Payment.BillingStreet = v
		case "billingCity":
			m.wizard.Payment.BillingCity = v
		case "billingState":
			m.wizard.Payment.BillingState = v
		case "billingZipCode":
			m.wizard.Payment.BillingZipCode = v
		}
	}
}

func (a App) updateCheckout(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := a.checkout

	switch msg := msg.(type) {
	case orderPlacedMsg:
		m.placing = false
		if msg.Err != nil {
			m.placeErr = "Order could not be placed. Please try again."
			return a, nil
		}
		m.confirm = renderConfirmation(msg.Order)
		return a, nil

	case tea.KeyMsg:
		if m.placing {
			return a, nil
		}

		if m.confirm != "" {
			switch msg.String() {
			case "enter", "esc", "q":
				a.checkout = nil
				a.page = pageShop
				return a.showStatus("Thanks for your order!")
			}
			return a, nil
		}

		switch msg.String() {
		case "esc":
			m.syncForm()
			if m.wizard.Step() == checkout.StepShipping {
				a.page = pageCart
				return a, nil
			}
			m.wizard.Back()
			m.buildInputs()
			return a, m.focusCmd()

		case "ctrl+b":
			if m.wizard.Step() == checkout.StepPayment {
				m.syncForm()
				m.wizard.Payment.BillingAddressSameAsShipping = !m.wizard.Payment.BillingAddressSameAsShipping
				m.buildInputs()
				return a, m.focusCmd()
			}

		case "tab", "down":
			if len(m.inputs) > 0 {
				m.focus = (m.focus + 1) % len(m.inputs)
				return a, m.focusCmd()
			}
		case "shift+tab", "up":
			if len(m.inputs) > 0 {
				m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
				return a, m.focusCmd()
			}

		case "enter":
			if m.wizard.Step() == checkout.StepReview {
				m.placing = true
				m.placeErr = ""
				return a, tea.Batch(a.spinner.Tick, a.placeOrderCmd())
			}
			if m.focus < len(m.inputs)-1 {
				m.focus++
				return a, m.focusCmd()
			}
			m.syncForm()
			if m.wizard.Next() {
				m.buildInputs()
			}
			return a, m.focusCmd()
		}

		if m.focus >= len(m.inputs) {
			return a, nil
		}
		m.wizard.ClearFieldError(m.keys[m.focus])
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.applyFieldFormatting()
		return a, cmd
	}

	return a, nil
}

// applyFieldFormatting reformats the card fields as the shopper types.
func (m *CheckoutModel) applyFieldFormatting() {
	switch m.keys[m.focus] {
	case "cardNumber":
		v := checkout.FormatCardNumber(m.inputs[m.focus].Value())
		m.inputs[m.focus].SetValue(v)
		m.inputs[m.focus].SetCursor(len(v))
	case "expiryDate":
		v := checkout.FormatExpiry(m.inputs[m.focus].Value())
		m.inputs[m.focus].SetValue(v)
		m.inputs[m.focus].SetCursor(len(v))
	}
}

// placeOrderCmd submits the order off the update loop.
func (a App) placeOrderCmd() tea.Cmd {
	w := a.checkout.wizard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		order, err := w.PlaceOrder(ctx)
		return orderPlacedMsg{Order: order, Err: err}
	}
}

// renderConfirmation renders the order receipt as markdown.
func renderConfirmation(o checkout.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Order Confirmed\n\n")
	fmt.Fprintf(&b, "Order **#%s** placed on %s.\n\n", o.ID, o.PlacedAt.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "Estimated delivery: **%s**\n\n", o.EstimatedDelivery.Format("Monday, Jan 2, 2006"))

	b.WriteString("## Items\n\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s ×%d — $%.2f\n", item.Title, item.Quantity, item.Price*float64(item.Quantity))
	}

	b.WriteString("\n## Totals\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Subtotal | $%.2f |\n", o.Totals.Subtotal)
	fmt.Fprintf(&b, "| Tax | $%.2f |\n", o.Totals.Tax)
	if o.Totals.Shipping == 0 {
		b.WriteString("| Shipping | FREE |\n")
	} else {
		fmt.Fprintf(&b, "| Shipping | $%.2f |\n", o.Totals.Shipping)
	}
	fmt.Fprintf(&b, "| **Total** | **$%.2f** |\n", o.Totals.Total)

	fmt.Fprintf(&b, "\nShipping to %s, %s, %s %s %s.\n",
		o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.ZipCode, o.Shipping.FullName)

	out, err := glamour.Render(b.String(), "dark")
	if err != nil {
		return b.String()
	}
	return out
}

// View renders the current wizard step.
func (m CheckoutModel) View(sp spinner.Model) string {
	if m.placing {
		return fmt.Sprintf("\n  %s Placing your order…\n", sp.View())
	}
	if m.confirm != "" {
		return m.confirm + "\n  " + m.styles.Help.Render("enter back to shop") + "\n"
	}

	var b strings.Builder
	b.WriteString("  " + m.stepIndicator() + "\n\n")

	switch m.wizard.Step() {
	case checkout.StepReview:
		b.WriteString(indent(m.reviewView(), 2) + "\n")
		b.WriteString("  " + m.styles.Help.Render("enter place order • esc back") + "\n")
	default:
		b.WriteString(indent(m.formView(), 2) + "\n")
		hint := "tab next field • enter continue • esc back"
		if m.wizard.Step() == checkout.StepPayment {
			same := "on"
			if !m.wizard.Payment.BillingAddressSameAsShipping {
				same = "off"
			}
			hint = fmt.Sprintf("tab next field • enter continue • ctrl+b billing = shipping (%s) • esc back", same)
		}
		b.WriteString("  " + m.styles.Help.Render(hint) + "\n")
	}
	if m.placeErr != "" {
		b.WriteString("  " + m.styles.Error.Render(m.placeErr) + "\n")
	}
	return b.String()
}

func (m CheckoutModel) stepIndicator() string {
	var parts []string
	for _, s := range checkout.Steps {
		label := fmt.Sprintf("%d. %s", int(s)+1, s.Label())
		if s == m.wizard.Step() {
			parts = append(parts, m.styles.StepOn.Render(label))
		} else {
			parts = append(parts, m.styles.StepOff.Render(label))
		}
	}
	return strings.Join(parts, m.styles.StepOff.Render("  →  "))
}

func (m CheckoutModel) formView() string {
	errs := m.wizard.Errors()
	var b strings.Builder
	for i, in := range m.inputs {
		label := fmt.Sprintf("%-16s", m.labels[i])
		if i == m.focus {
			label = m.styles.Selected.Render(label)
		} else {
			label = m.styles.Subtle.Render(label)
		}
		b.WriteString(label + " " + in.View() + "\n")
		if msg, ok := errs[m.keys[i]]; ok {
			b.WriteString(strings.Repeat(" ", 17) + m.styles.FieldErr.Render(msg) + "\n")
		}
	}
	return m.styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m CheckoutModel) reviewView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Review your order") + "\n\n")

	for _, item := range m.wizard.Items() {
		fmt.Fprintf(&b, "%-46s ×%-3d %s\n",
			truncate(item.Title, 44), item.Quantity,
			m.styles.Price.Render(fmt.Sprintf("$%8.2f", item.Price*float64(item.Quantity))))
	}

	t := m.wizard.Totals()
	shipping := fmt.Sprintf("$%.2f", t.Shipping)
	if t.Shipping == 0 {
		shipping = m.styles.Success.Render("FREE")
	}
	fmt.Fprintf(&b, "\nSubtotal  $%8.2f\nTax       $%8.2f\nShipping  %9s\n", t.Subtotal, t.Tax, shipping)
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Total     $%8.2f", t.Total)) + "\n\n")

	s := m.wizard.Shipping
	b.WriteString(m.styles.Subtle.Render(fmt.Sprintf("Ship to: %s, %s, %s, %s %s", s.FullName, s.Street, s.City, s.State, s.ZipCode)) + "\n")
	b.WriteString(m.styles.Subtle.Render("Email:   "+s.Email) + "\n")
	return m.styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}
