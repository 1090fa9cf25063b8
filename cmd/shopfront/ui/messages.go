package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/checkout"
	"shopfront/internal/storeapi"
)

// catalogLoadedMsg carries the bootstrap result (products+categories).
type catalogLoadedMsg struct {
	Catalog storeapi.Catalog
	Err     error
}

// sessionRestoredMsg signals that startup session verification is done;
// the current auth state is read from the container.
type sessionRestoredMsg struct{}

// loginResultMsg carries the outcome of a login or register attempt.
type loginResultMsg struct {
	Err error
}

// orderPlacedMsg carries the outcome of order placement.
type orderPlacedMsg struct {
	Order checkout.Order
	Err   error
}

// clearStatusMsg clears the status line after its display window.
type clearStatusMsg struct{ Gen int }

const statusDisplayDuration = 3 * time.Second

func setStatus(gen int) tea.Cmd {
	return tea.Tick(statusDisplayDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{Gen: gen}
	})
}

func (a App) loadCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cat, err := a.deps.Client.Bootstrap(ctx)
		return catalogLoadedMsg{Catalog: cat, Err: err}
	}
}

func (a App) restoreSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.deps.Auth.Bootstrap(ctx)
		return sessionRestoredMsg{}
	}
}
