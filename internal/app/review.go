package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/harlangreen/timecop/internal/loader"
	"github.com/harlangreen/timecop/internal/ui"
)

// beginApprove, beginRequestChanges, and beginComment each open the
// Input modal in the shape §4.9 calls for: a single y/n confirm for
// approve, a multi-line body capture for the other two.
func (a *App) beginApprove() (tea.Model, tea.Cmd) {
	if a.pr == nil {
		return a, nil
	}
	a.confirmed = false
	a.inputKind = inputApprove
	a.modal = ui.ModalInput
	a.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Approve this pull request?").
			Affirmative("Yes").
			Negative("No").
			Value(&a.confirmed),
	)).WithShowHelp(false)
	return a, a.form.Init()
}

func (a *App) beginRequestChanges() (tea.Model, tea.Cmd) {
	if a.pr == nil {
		return a, nil
	}
	return a.beginBodyInput(inputRequestChanges, "Request changes")
}

func (a *App) beginComment() (tea.Model, tea.Cmd) {
	if a.pr == nil {
		return a, nil
	}
	return a.beginBodyInput(inputComment, "Leave a comment")
}

// beginLineComment implements add_line_comment (§4.2): it anchors on
// the diff location under the cursor rather than the PR as a whole.
func (a *App) beginLineComment() (tea.Model, tea.Cmd) {
	if a.pr == nil || len(a.diffLocs) == 0 || a.diffCursor < 0 || a.diffCursor >= len(a.diffLocs) {
		return a, nil
	}
	loc := a.diffLocs[a.diffCursor]
	if loc.Path == "" {
		return a, nil
	}
	a.lcPath, a.lcLine, a.lcSide = loc.Path, loc.Line, loc.Side
	a.lcTitle = fmt.Sprintf("Comment on %s:%d", loc.Path, loc.Line)
	return a.beginBodyInput(inputLineComment, a.lcTitle)
}

func (a *App) beginBodyInput(kind inputKind, title string) (tea.Model, tea.Cmd) {
	a.textValue = ""
	a.inputKind = kind
	a.modal = ui.ModalInput
	a.form = huh.NewForm(huh.NewGroup(
		huh.NewText().Title(title).Value(&a.textValue),
	)).WithShowHelp(false)
	return a, a.form.Init()
}

func (a *App) submitInput() (tea.Model, tea.Cmd) {
	kind := a.inputKind
	n := a.pr.Number
	body := a.textValue
	approved := a.confirmed
	path, line, side := a.lcPath, a.lcLine, a.lcSide
	a.closeModal()

	loader.Request(a.forgeLoader, kindSubmit, func() (struct{}, error) {
		var err error
		switch kind {
		case inputApprove:
			if approved {
				err = a.forge.Approve(context.Background(), n)
			}
		case inputRequestChanges:
			err = a.forge.RequestChanges(context.Background(), n, body)
		case inputComment:
			err = a.forge.Comment(context.Background(), n, body)
		case inputLineComment:
			err = a.forge.AddLineComment(context.Background(), n, path, line, side, body)
		}
		return struct{}{}, err
	})
	return a, a.awaitSubmitCmd()
}

// awaitSubmitCmd polls the submit slot until it resolves, translating
// the result into a reviewSubmittedMsg the dispatcher already knows
// how to merge.
func (a *App) awaitSubmitCmd() tea.Cmd {
	return func() tea.Msg {
		for {
			out := loader.Poll[string, struct{}](a.forgeLoader, kindSubmit)
			if out.Ready || out.Stale {
				return reviewSubmittedMsg{err: out.Err}
			}
			time.Sleep(20 * time.Millisecond)
		}
	}
}

func (a *App) openPrInBrowserCmd() tea.Cmd {
	n := a.pr.Number
	return func() tea.Msg {
		err := a.forge.OpenInBrowser(context.Background(), n)
		return reviewSubmittedMsg{err: err}
	}
}
