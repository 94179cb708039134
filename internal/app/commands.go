package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harlangreen/timecop/internal/watch"
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func prPollCmd() tea.Cmd {
	return tea.Tick(prPollWindow, func(t time.Time) tea.Msg { return prPollMsg(t) })
}

// watchCmd blocks on the watcher's Changed channel and re-arms itself
// on every delivery, the standard bubbletea "wait for external
// activity" idiom for bridging a foreign channel into Msg-space.
func watchCmd(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed
		return fileChangedMsg{}
	}
}
