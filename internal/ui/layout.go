package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const wideThreshold = 80

// Render composes the full frame for one State: either the active
// modal full-screen, or the responsive pane layout plus status bar.
func Render(s State) string {
	styles := NewStyles(s.NoColor)
	if s.Modal != ModalNone {
		return renderModal(s, styles)
	}

	height := s.Height - 2 // reserve the timeline header and status bar rows
	if height < 1 {
		height = 1
	}

	var body string
	if s.Width >= wideThreshold {
		body = renderWide(s, styles, height)
	} else {
		body = renderNarrow(s, styles, height)
	}
	return lipgloss.JoinVertical(lipgloss.Left, truncateLine(s.Timeline, s.Width), body, renderStatusBar(s, styles))
}

func renderWide(s State, styles Styles, height int) string {
	leftWidth := s.Width * 3 / 10
	rightWidth := s.Width - leftWidth
	filesHeight := height * 3 / 5
	prHeight := height - filesHeight

	files := renderPane(s.TreeTitle, s.TreeRows, leftWidth, filesHeight, s.Focus == FocusFiles, styles)
	prList := renderPane(s.PrListTitle, s.PrListRows, leftWidth, prHeight, s.Focus == FocusPrList, styles)
	left := lipgloss.JoinVertical(lipgloss.Left, files, prList)
	preview := renderPane(s.PreviewTitle, s.PreviewRows, rightWidth, height, s.Focus == FocusPreview, styles)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, preview)
}

func renderNarrow(s State, styles Styles, height int) string {
	third := height / 3
	files := renderPane(s.TreeTitle, s.TreeRows, s.Width, third, s.Focus == FocusFiles, styles)
	prList := renderPane(s.PrListTitle, s.PrListRows, s.Width, third, s.Focus == FocusPrList, styles)
	preview := renderPane(s.PreviewTitle, s.PreviewRows, s.Width, height-2*third, s.Focus == FocusPreview, styles)
	return lipgloss.JoinVertical(lipgloss.Left, files, prList, preview)
}

func renderPane(title string, rows []Row, width, height int, focused bool, styles Styles) string {
	innerHeight := height - 3 // border + title line
	if innerHeight < 0 {
		innerHeight = 0
	}
	var b strings.Builder
	b.WriteString(styles.paneTitle.Render(title))
	b.WriteString("\n")
	for i, r := range rows {
		if i >= innerHeight {
			break
		}
		line := truncateLine(r.Text, width-2)
		if r.Selected {
			line = styles.selectedRow.Render(line)
		}
		b.WriteString(line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	innerHeightBudget := height - 2
	if innerHeightBudget < 1 {
		innerHeightBudget = 1
	}
	return styles.border(focused).Width(innerWidth).Height(innerHeightBudget).Render(b.String())
}

func renderStatusBar(s State, styles Styles) string {
	parts := []string{s.Branch, s.Mode}
	if s.FileCount > 0 {
		parts = append(parts, prettyCount(s.FileCount))
	}
	if s.Added != 0 || s.Removed != 0 {
		parts = append(parts, lipgloss.NewStyle().Render(diffSummary(s.Added, s.Removed)))
	}
	if s.PRIndicator != "" {
		parts = append(parts, s.PRIndicator)
	}
	line := strings.Join(nonEmpty(parts), "  │  ")
	if s.StatusMessage != "" {
		msg := s.StatusMessage
		if s.IsError {
			msg = styles.errorText.Render(msg)
		}
		line = line + "  │  " + msg
	}
	return styles.statusBar.Width(s.Width).Render(truncateLine(line, s.Width))
}

func renderModal(s State, styles Styles) string {
	width := s.Width * 2 / 3
	if width < 30 {
		width = s.Width
	}
	box := styles.modalBorder.Width(width).Render(styles.paneTitle.Render(s.ModalTitle) + "\n\n" + s.ModalBody)
	return lipgloss.Place(s.Width, s.Height, lipgloss.Center, lipgloss.Center, box)
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncateLine(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}
