package tui

import tea "github.com/charmbracelet/bubbletea"

// storeChangedMsg reports that a store collection changed.
type storeChangedMsg struct{}

// waitForChange blocks until the store signals a change on ch.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}
