package app

import (
	"fmt"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// beginEditorSuspension implements §4.8's editor-suspension sequence,
// steps 1-3: pause the watch so filesystem churn from the editor
// itself doesn't queue up a refresh mid-edit, then hand off to
// tea.ExecProcess, which tears down the alternate screen/raw mode,
// runs the child with the real terminal attached, and restores the
// screen before delivering its result back as a Msg. Steps 4-6 happen
// in finishEditorSuspension.
func (a *App) beginEditorSuspension(path string, line int) (tea.Model, tea.Cmd) {
	a.watcher.Pause()
	cmd := exec.Command(a.env.Editor, editorArgs(a.env.Editor, path, line)...)
	cmd.Dir = a.engine.Root()
	return a, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

// finishEditorSuspension runs steps 4-6: the terminal is already
// restored by the time tea delivers editorDoneMsg, so only resume and
// the synthetic refresh remain. This must run even when the editor
// exited non-zero.
func (a *App) finishEditorSuspension(msg editorDoneMsg) (tea.Model, tea.Cmd) {
	a.watcher.Resume()
	if msg.err != nil {
		a.setError(fmt.Errorf("editor exited: %w", msg.err))
	}
	a.onFileChanged()
	return a, nil
}

// editorArgs follows the vi-family "+N file" line-hint convention for
// most $EDITOR values, and the "file:N" convention for the handful of
// editors that expect it as a positional goto-line argument instead.
func editorArgs(editor, path string, line int) []string {
	base := strings.ToLower(filepathBase(editor))
	switch {
	case strings.Contains(base, "code") || strings.Contains(base, "subl"):
		return []string{"-g", fmt.Sprintf("%s:%d", path, line)}
	default:
		return []string{fmt.Sprintf("+%d", line), path}
	}
}

func filepathBase(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}
