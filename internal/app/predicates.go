package app

import tea "github.com/charmbracelet/bubbletea"

// These mirror the key-predicate helpers grounded on the original
// KeyInput::is_* set: plain rune comparisons, no declarative keymap.

func isQuit(k tea.KeyMsg) bool {
	return (k.Type == tea.KeyRunes && k.String() == "q") || k.Type == tea.KeyCtrlC
}

func isDown(k tea.KeyMsg) bool  { return k.String() == "j" || k.Type == tea.KeyDown }
func isUp(k tea.KeyMsg) bool    { return k.String() == "k" || k.Type == tea.KeyUp }
func isFastDown(k tea.KeyMsg) bool { return k.String() == "J" }
func isFastUp(k tea.KeyMsg) bool   { return k.String() == "K" }
func isLeft(k tea.KeyMsg) bool     { return k.String() == "h" }
func isRight(k tea.KeyMsg) bool    { return k.String() == "l" }
func isPageDown(k tea.KeyMsg) bool { return k.Type == tea.KeyCtrlD }
func isPageUp(k tea.KeyMsg) bool   { return k.Type == tea.KeyCtrlU }
func isTop(k tea.KeyMsg) bool      { return k.String() == "g" }
func isBottom(k tea.KeyMsg) bool   { return k.String() == "G" }
func isEnter(k tea.KeyMsg) bool    { return k.Type == tea.KeyEnter }
func isEscape(k tea.KeyMsg) bool   { return k.Type == tea.KeyEsc }
func isHelp(k tea.KeyMsg) bool     { return k.String() == "?" }
func isYank(k tea.KeyMsg) bool     { return k.String() == "y" }
func isOpen(k tea.KeyMsg) bool     { return k.String() == "o" }
func isRefresh(k tea.KeyMsg) bool  { return k.String() == "r" }
func isApprove(k tea.KeyMsg) bool        { return k.String() == "a" }
func isRequestChanges(k tea.KeyMsg) bool { return k.String() == "x" }
func isComment(k tea.KeyMsg) bool        { return k.String() == "c" }
func isTimelineNext(k tea.KeyMsg) bool   { return k.String() == "," }
func isTimelinePrev(k tea.KeyMsg) bool   { return k.String() == "." }
func isToggleViewMode(k tea.KeyMsg) bool { return k.String() == "s" }

func isDigit1to4(k tea.KeyMsg) bool {
	s := k.String()
	return len(s) == 1 && s[0] >= '1' && s[0] <= '4'
}
