package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/storeapi"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// AuthModel is the sign-in / registration page. Auth state itself lives
// in the auth container; the page holds the form inputs and whether the
// shopper arrived here on the way to checkout.
type AuthModel struct {
	styles Styles
	mode   authMode

	inputs []textinput.Model
	labels []string
	focus  int

	submitting    bool
	checkoutAfter bool
}

// NewAuthModel builds the page in sign-in mode.
func NewAuthModel(styles Styles) AuthModel {
	m := AuthModel{styles: styles}
	m.setMode(modeLogin)
	return m
}

func (m *AuthModel) setMode(mode authMode) {
	m.mode = mode
	m.focus = 0

	newInput := func(label, placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 64
		in.Width = 32
		return in
	}

	switch mode {
	case modeRegister:
		m.labels = []string{"Username", "Email", "Password"}
		m.inputs = []textinput.Model{
			newInput("Username", "choose a username"),
			newInput("Email", "you@example.com"),
			newInput("Password", "choose a password"),
		}
		m.inputs[2].EchoMode = textinput.EchoPassword
	default:
		m.labels = []string{"Username", "Password"}
		m.inputs = []textinput.Model{
			newInput("Username", "username"),
			newInput("Password", "password"),
		}
		m.inputs[1].EchoMode = textinput.EchoPassword
	}
}

// focusCmd focuses the current input.
func (m *AuthModel) focusCmd() tea.Cmd {
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

func (a App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := &a.authPage

	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			// the container state carries the display message
			return a, nil
		}
		state := a.deps.Auth.State()
		if state.User == nil {
			// result was superseded (logout raced the round trip)
			return a, nil
		}
		if m.checkoutAfter {
			model, cmd := a.startCheckout()
			app := model.(App)
			app.status = fmt.Sprintf("Signed in as %s.", state.User.Username)
			app.statusGen++
			return app, tea.Batch(cmd, setStatus(app.statusGen))
		}
		a.page = pageShop
		return a.showStatus(fmt.Sprintf("Signed in as %s.", state.User.Username))

	case tea.KeyMsg:
		if m.submitting {
			return a, nil
		}
		switch msg.String() {
		case "esc":
			if m.checkoutAfter {
				a.page = pageCart
			} else {
				a.page = pageShop
			}
			return a, nil
		case "ctrl+t":
			if m.mode == modeLogin {
				m.setMode(modeRegister)
			} else {
				m.setMode(modeLogin)
			}
			a.deps.Auth.ClearError()
			return a, m.focusCmd()
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.inputs)
			return a, m.focusCmd()
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
			return a, m.focusCmd()
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.focus++
				return a, m.focusCmd()
			}
			m.submitting = true
			a.deps.Auth.ClearError()
			return a, tea.Batch(a.spinner.Tick, a.submitAuthCmd(*m))
		}

		// any edit clears a lingering failure message
		if a.deps.Auth.State().Err != "" {
			a.deps.Auth.ClearError()
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return a, cmd
	}

	return a, nil
}

// submitAuthCmd runs the login or registration against the container.
func (a App) submitAuthCmd(m AuthModel) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		if m.mode == modeRegister {
			err = a.deps.Auth.Register(ctx, storeapi.Registration{
				Username: m.inputs[0].Value(),
				Email:    m.inputs[1].Value(),
				Password: m.inputs[2].Value(),
			})
		} else {
			err = a.deps.Auth.Login(ctx, storeapi.Credentials{
				Username: m.inputs[0].Value(),
				Password: m.inputs[1].Value(),
			})
		}
		return loginResultMsg{Err: err}
	}
}

// View renders the auth form.
func (m AuthModel) View() string {
	var b strings.Builder

	title := "Sign In"
	switchHint := "ctrl+t create an account"
	if m.mode == modeRegister {
		title = "Create Account"
		switchHint = "ctrl+t sign in instead"
	}
	b.WriteString(m.styles.Title.Render(title) + "\n\n")

	for i, in := range m.inputs {
		label := fmt.Sprintf("%-10s", m.labels[i])
		if i == m.focus {
			label = m.styles.Selected.Render(label)
		} else {
			label = m.styles.Subtle.Render(label)
		}
		b.WriteString(label + " " + in.View() + "\n")
	}

	if m.submitting {
		b.WriteString("\n" + m.styles.Subtle.Render("Signing in…") + "\n")
	}

	b.WriteString("\n" + m.styles.Help.Render("tab next field • enter submit • "+switchHint+" • esc back") + "\n")
	return indent(m.styles.Box.Render(b.String()), 2) + "\n"
}

// AuthError renders the container's failure message, if any.
func (m AuthModel) AuthError(message string) string {
	if message == "" {
		return ""
	}
	return "  " + m.styles.Error.Render(message) + "\n"
}
