package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/harlangreen/timecop/internal/clip"
	"github.com/harlangreen/timecop/internal/diffview"
	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/loader"
	"github.com/harlangreen/timecop/internal/tree"
	"github.com/harlangreen/timecop/internal/ui"
)

// handleKey implements §4.8's modal-first precedence chain.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != ui.ModalNone {
		return a.handleModalKey(msg)
	}

	switch {
	case isQuit(msg):
		a.quitting = true
		return a, tea.Quit
	case isHelp(msg):
		a.modal = ui.ModalHelp
		return a, nil
	case isRefresh(msg):
		a.requestStatus()
		a.requestDiffStats()
		a.requestPrList()
		if a.haveBranch {
			a.requestPrDetail()
		}
		a.setInfo("refreshing…")
		return a, nil
	case isTimelinePrev(msg):
		a.movePosition(-1)
		return a, nil
	case isTimelineNext(msg):
		a.movePosition(1)
		return a, nil
	case isToggleViewMode(msg):
		next := oppositeMode(a.mode)
		a.modeUser = &next
		a.recomputeMode()
		return a, nil
	case msg.Type == tea.KeyTab:
		a.focus = nextFocus(a.focus)
		return a, nil
	case msg.Type == tea.KeyShiftTab:
		a.focus = prevFocus(a.focus)
		return a, nil
	case isYank(msg):
		a.yank()
		return a, nil
	case isOpen(msg):
		return a.openSelection()
	case isDigit1to4(msg):
		a.jumpTimeline(int(msg.String()[0] - '0'))
		return a, nil
	case isApprove(msg):
		return a.beginApprove()
	case isRequestChanges(msg):
		return a.beginRequestChanges()
	case isComment(msg):
		if a.focus == ui.FocusPreview {
			return a.beginLineComment()
		}
		return a.beginComment()
	}

	return a.delegateToFocused(msg)
}

func (a *App) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal == ui.ModalHelp {
		switch {
		case isHelp(msg), isEscape(msg):
			a.closeModal()
			return a, nil
		case isQuit(msg):
			a.quitting = true
			return a, tea.Quit
		}
		return a, nil
	}

	// Input modal: everything but Esc (cancel) is handed to the form,
	// per §4.9's "modals capture all input except q" — q itself is
	// only reserved for quitting outside a modal, since Input needs to
	// accept arbitrary body text including the letter q.
	if isEscape(msg) {
		a.closeModal()
		return a, nil
	}
	if a.form == nil {
		a.closeModal()
		return a, nil
	}
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}
	if a.form.State() == huh.StateCompleted {
		return a.submitInput()
	}
	return a, cmd
}

func (a *App) delegateToFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.focus {
	case ui.FocusFiles:
		return a.handleFilesKey(msg)
	case ui.FocusPrList:
		return a.handlePrListKey(msg)
	case ui.FocusPreview:
		return a.handlePreviewKey(msg)
	}
	return a, nil
}

func (a *App) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isDown(msg):
		a.moveTreeCursor(1)
	case isUp(msg):
		a.moveTreeCursor(-1)
	case isFastDown(msg):
		a.moveTreeCursor(5)
	case isFastUp(msg):
		a.moveTreeCursor(-5)
	case isPageDown(msg):
		a.moveTreeCursor(10)
	case isPageUp(msg):
		a.moveTreeCursor(-10)
	case isTop(msg):
		a.setTreeCursor(0)
	case isBottom(msg):
		a.setTreeCursor(len(a.treeModel.Entries()) - 1)
	case isLeft(msg):
		a.treeModel.Collapse(a.currentTreePath())
	case isRight(msg):
		a.treeModel.Expand(a.currentTreePath())
	case isEnter(msg):
		sel := a.treeModel.Selection()
		if sel.Kind == tree.SelFolder {
			a.treeModel.Toggle(sel.Path)
		}
		a.requestPreview()
	}
	return a, nil
}

func (a *App) handlePrListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isDown(msg):
		a.movePrCursor(1)
	case isUp(msg):
		a.movePrCursor(-1)
	case isTop(msg):
		a.prListIdx = 0
	case isBottom(msg):
		a.prListIdx = len(a.prList) - 1
	case isEnter(msg):
		a.showSelectedPr()
	}
	return a, nil
}

func (a *App) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isDown(msg):
		a.moveDiffCursor(1)
	case isUp(msg):
		a.moveDiffCursor(-1)
	case isPageDown(msg):
		a.moveDiffCursor(10)
	case isPageUp(msg):
		a.moveDiffCursor(-10)
	case isTop(msg):
		a.diffCursor = 0
	case isBottom(msg):
		a.diffCursor = len(a.diffRows) - 1
	}
	return a, nil
}

func (a *App) moveTreeCursor(delta int) {
	a.treeModel.MoveCursor(delta)
	a.requestPreview()
}

func (a *App) setTreeCursor(idx int) {
	cur := a.treeModel.Cursor()
	a.treeModel.MoveCursor(idx - cur)
	a.requestPreview()
}

func (a *App) currentTreePath() string {
	entries := a.treeModel.Entries()
	c := a.treeModel.Cursor()
	if c < 0 || c >= len(entries) {
		return ""
	}
	return entries[c].Path
}

func (a *App) movePrCursor(delta int) {
	if len(a.prList) == 0 {
		return
	}
	a.prListIdx += delta
	if a.prListIdx < 0 {
		a.prListIdx = 0
	}
	if a.prListIdx >= len(a.prList) {
		a.prListIdx = len(a.prList) - 1
	}
}

func (a *App) showSelectedPr() {
	if a.prListIdx < 0 || a.prListIdx >= len(a.prList) {
		return
	}
	if a.forge == nil {
		return
	}
	branch := a.prList[a.prListIdx].HeadRef
	a.prBranch = branch
	loader.Request(a.forgeLoader, kindPrDetail, func() (*forge.PrInfo, error) {
		return a.forge.GetPRForBranch(reqCtx(), branch)
	})
}

func (a *App) moveDiffCursor(delta int) {
	if len(a.diffRows) == 0 {
		return
	}
	a.diffCursor += delta
	if a.diffCursor < 0 {
		a.diffCursor = 0
	}
	if a.diffCursor >= len(a.diffRows) {
		a.diffCursor = len(a.diffRows) - 1
	}
}

func (a *App) movePosition(dir int) {
	switch a.position.Kind {
	case gitengine.Full:
		if dir > 0 && a.firstDepth >= 1 {
			a.position = gitengine.CommitOffsetAt(1)
		}
	case gitengine.CommitOffsetKind:
		n := a.position.N + dir
		if n < 1 {
			a.position = gitengine.FullPosition()
		} else if n > a.firstDepth {
			return
		} else {
			a.position = gitengine.CommitOffsetAt(n)
		}
	case gitengine.Wip:
		if dir < 0 {
			return
		}
		a.position = gitengine.FullPosition()
	}
	a.afterPositionChange()
}

func (a *App) jumpTimeline(n int) {
	switch n {
	case 1:
		a.position = gitengine.WipPosition()
	case 2:
		a.position = gitengine.FullPosition()
	case 3:
		a.position = gitengine.BrowsePosition()
	case 4:
		a.position = gitengine.DocsPosition()
	default:
		return
	}
	a.afterPositionChange()
}

func (a *App) afterPositionChange() {
	if a.position.Kind == gitengine.Browse {
		a.treeModel.EnterBrowse()
	} else {
		a.treeModel.LeaveBrowse()
	}
	a.requestStatus()
	a.requestDiffStats()
}

func oppositeMode(m diffview.Mode) diffview.Mode {
	if m == diffview.ModeUnified {
		return diffview.ModeSideBySide
	}
	return diffview.ModeUnified
}

func nextFocus(f ui.Focus) ui.Focus {
	switch f {
	case ui.FocusFiles:
		return ui.FocusPreview
	case ui.FocusPreview:
		return ui.FocusPrList
	default:
		return ui.FocusFiles
	}
}

func prevFocus(f ui.Focus) ui.Focus {
	switch f {
	case ui.FocusFiles:
		return ui.FocusPrList
	case ui.FocusPrList:
		return ui.FocusPreview
	default:
		return ui.FocusFiles
	}
}

func (a *App) yank() {
	sel := a.treeModel.Selection()
	var text string
	switch {
	case sel.Kind == tree.SelFile && len(a.currentDiff) > 0:
		text = string(a.currentDiff)
	case sel.Kind == tree.SelFile:
		text = sel.Path
	default:
		return
	}
	if err := clip.Copy(text); err != nil {
		a.setError(err)
		return
	}
	a.setInfo("copied to clipboard")
}

func (a *App) openSelection() (tea.Model, tea.Cmd) {
	if a.focus == ui.FocusPrList {
		if a.pr != nil {
			return a, a.openPrInBrowserCmd()
		}
		return a, nil
	}
	sel := a.treeModel.Selection()
	if sel.Kind != tree.SelFile {
		return a, nil
	}
	line := 1
	if len(a.diffLocs) > 0 {
		if _, l := diffview.SelectedLocation(a.diffLocs, a.diffCursor); l > 0 {
			line = l
		}
	}
	return a.beginEditorSuspension(sel.Path, line)
}
