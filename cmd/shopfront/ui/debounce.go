package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// searchDebounceDuration is how long typing must pause before the shop
// page applies the search filter.
const searchDebounceDuration = 250 * time.Millisecond

// searchDebouncedMsg fires after the debounce window. Gen identifies
// the keystroke that scheduled it; the shop page drops messages whose
// generation is stale so only the final pause applies the filter.
type searchDebouncedMsg struct {
	Gen int
}

// debounceSearch schedules a searchDebouncedMsg for the given
// generation.
func debounceSearch(gen int) tea.Cmd {
	return tea.Tick(searchDebounceDuration, func(time.Time) tea.Msg {
		return searchDebouncedMsg{Gen: gen}
	})
}
