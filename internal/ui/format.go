package ui

import "fmt"

func prettyCount(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

func diffSummary(added, removed int) string {
	return fmt.Sprintf("+%d −%d", added, removed)
}

// Timeline composes the glyph header from §4.9: the fixed "T-I-M-E-C-O-P"
// title, a dot per first-parent commit offset, and markers for Full and
// Wip, with the current position rendered distinctly.
func Timeline(depth int, activeLabel string, styles Styles) string {
	title := "T-I-M-E-C-O-P"
	var dots string
	for n := 1; n <= depth; n++ {
		label := fmt.Sprintf("commit-%d", n)
		if label == activeLabel {
			dots += styles.timelineOn.Render("●") + " "
		} else {
			dots += styles.timelineDot.Render("·") + " "
		}
	}
	markers := map[string]string{"full": "FULL", "wip": "WIP", "browse": "BROWSE", "docs": "DOCS"}
	var tail string
	for _, key := range []string{"full", "wip", "browse", "docs"} {
		label := markers[key]
		if key == activeLabel {
			tail += " " + styles.timelineOn.Render(label)
		} else {
			tail += " " + styles.timelineDot.Render(label)
		}
	}
	return title + "  " + dots + tail
}
