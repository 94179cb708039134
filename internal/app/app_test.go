package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/harlangreen/timecop/internal/diffview"
	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/loader"
	"github.com/harlangreen/timecop/internal/tree"
	"github.com/harlangreen/timecop/internal/ui"
)

func key(runes string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(runes)}
}

func TestIsQuitMatchesQAndCtrlC(t *testing.T) {
	if !isQuit(key("q")) {
		t.Fatal("expected q to be quit")
	}
	if !isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}) {
		t.Fatal("expected Ctrl-C to be quit")
	}
	if isQuit(key("Q")) {
		t.Fatal("uppercase Q should not be quit")
	}
}

func TestMovementPredicatesDistinguishFastFromSlow(t *testing.T) {
	if !isDown(key("j")) || !isFastDown(key("J")) {
		t.Fatal("expected j/J to be down/fast-down")
	}
	if isDown(key("J")) {
		t.Fatal("J should not also match plain down")
	}
}

func TestDigit1To4Predicate(t *testing.T) {
	for _, r := range []string{"1", "2", "3", "4"} {
		if !isDigit1to4(key(r)) {
			t.Fatalf("expected %q to be a timeline jump digit", r)
		}
	}
	if isDigit1to4(key("5")) || isDigit1to4(key("0")) {
		t.Fatal("5 and 0 are outside the jump range")
	}
}

func TestOppositeModeToggles(t *testing.T) {
	if oppositeMode(diffview.ModeSideBySide) != diffview.ModeUnified {
		t.Fatal("expected side-by-side to flip to unified")
	}
	if oppositeMode(diffview.ModeUnified) != diffview.ModeSideBySide {
		t.Fatal("expected unified to flip to side-by-side")
	}
}

func TestFocusCycleWrapsAround(t *testing.T) {
	order := []ui.Focus{ui.FocusFiles, ui.FocusPreview, ui.FocusPrList}
	f := order[0]
	for i := 1; i < 4; i++ {
		f = nextFocus(f)
		want := order[i%3]
		if f != want {
			t.Fatalf("step %d: expected %v, got %v", i, want, f)
		}
	}
}

func TestFocusCycleIsReverseOfItsInverse(t *testing.T) {
	f := ui.FocusFiles
	if prevFocus(nextFocus(f)) != f {
		t.Fatal("prevFocus should undo nextFocus")
	}
}

// newTestEngine opens a throwaway repository with a short commit chain,
// so movePosition's afterPositionChange can request real status/diff
// stats without nil-dereferencing an absent engine.
func newTestEngine(t *testing.T) *gitengine.Engine {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	sig := &object.Signature{Name: "reviewer", Email: "reviewer@example.com", When: time.Now()}
	for _, name := range []string{"a.go", "b.go", "c.go"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("package a\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		if _, err := wt.Commit("add "+name, &git.CommitOptions{Author: sig}); err != nil {
			t.Fatalf("commit %s: %v", name, err)
		}
	}
	e, err := gitengine.Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return e
}

func newTestApp(t *testing.T, firstDepth int) *App {
	return &App{
		engine:      newTestEngine(t),
		treeModel:   tree.NewModel(),
		firstDepth:  firstDepth,
		position:    gitengine.WipPosition(),
		gitLoader:   loader.NewRegistry[string](),
		forgeLoader: loader.NewRegistry[string](),
	}
}

func TestMovePositionWipOnlyMovesForward(t *testing.T) {
	a := newTestApp(t, 2)
	a.movePosition(-1)
	if a.position.Kind != gitengine.Wip {
		t.Fatalf("expected Wip to stay put on backward move, got %+v", a.position)
	}
	a.movePosition(1)
	if a.position.Kind != gitengine.Full {
		t.Fatalf("expected Wip -> Full going forward, got %+v", a.position)
	}
}

func TestMovePositionFullToCommitOffsetAndBack(t *testing.T) {
	a := newTestApp(t, 2)
	a.position = gitengine.FullPosition()
	a.movePosition(1)
	if a.position.Kind != gitengine.CommitOffsetKind || a.position.N != 1 {
		t.Fatalf("expected CommitOffset(1), got %+v", a.position)
	}
	a.movePosition(-1)
	if a.position.Kind != gitengine.Full {
		t.Fatalf("expected back to Full, got %+v", a.position)
	}
}

func TestMovePositionCommitOffsetClampsToFirstDepth(t *testing.T) {
	a := newTestApp(t, 2)
	a.position = gitengine.CommitOffsetAt(2)
	a.movePosition(1)
	if a.position.N != 2 {
		t.Fatalf("expected offset to stay clamped at firstDepth, got %+v", a.position)
	}
}

func TestJumpTimelineSelectsNamedPosition(t *testing.T) {
	a := newTestApp(t, 3)
	a.jumpTimeline(3)
	if a.position.Kind != gitengine.Browse {
		t.Fatalf("expected digit 3 to jump to Browse, got %+v", a.position)
	}
	a.jumpTimeline(4)
	if a.position.Kind != gitengine.Docs {
		t.Fatalf("expected digit 4 to jump to Docs, got %+v", a.position)
	}
}

func TestEditorArgsUsesGotoLineSyntaxForCodeLikeEditors(t *testing.T) {
	args := editorArgs("/usr/local/bin/code", "a.go", 12)
	if len(args) != 2 || args[0] != "-g" || args[1] != "a.go:12" {
		t.Fatalf("unexpected args for code-like editor: %v", args)
	}
}

func TestEditorArgsUsesPlusLineSyntaxByDefault(t *testing.T) {
	args := editorArgs("vim", "a.go", 12)
	if len(args) != 2 || args[0] != "+12" || args[1] != "a.go" {
		t.Fatalf("unexpected args for vi-family editor: %v", args)
	}
}

func TestWrapBodySplitsOnWordBoundaries(t *testing.T) {
	lines := wrapBody("the quick brown fox jumps over the lazy dog")
	for _, l := range lines {
		if len(l) > 72 {
			t.Fatalf("line exceeds wrap width: %q", l)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps over the lazy dog" {
		t.Fatalf("wrap lost words: %+v", lines)
	}
}

func TestSplitBlobLinesHandlesTrailingNewline(t *testing.T) {
	lines := splitBlobLines("a\nb\nc\n")
	if len(lines) != 3 || lines[2] != "c" {
		t.Fatalf("unexpected split: %+v", lines)
	}
}

func TestSplitBlobLinesHandlesNoTrailingNewline(t *testing.T) {
	lines := splitBlobLines("a\nb")
	if len(lines) != 2 || lines[1] != "b" {
		t.Fatalf("unexpected split: %+v", lines)
	}
}

func TestNumberOrBlankHidesZero(t *testing.T) {
	if numberOrBlank(0) != "" {
		t.Fatal("expected zero line number to render blank")
	}
	if numberOrBlank(7) != "7" {
		t.Fatal("expected non-zero line number to render as-is")
	}
}

func TestTreeRowTextMarksCollapsedFolder(t *testing.T) {
	e := tree.FlatEntry{Display: "src", Kind: tree.Dir, Collapsed: true, Depth: 0}
	if got := treeRowText(e); got != "▸ src/" {
		t.Fatalf("unexpected row text: %q", got)
	}
}

func TestTreeRowTextShowsFileStatusGlyph(t *testing.T) {
	e := tree.FlatEntry{Display: "a.go", Kind: tree.File, Status: gitengine.Modified, Depth: 1}
	if got := treeRowText(e); got != "  M a.go" {
		t.Fatalf("unexpected row text: %q", got)
	}
}

func TestPrDetailRowsReportsMissingPr(t *testing.T) {
	rows := prDetailRows(nil)
	if len(rows) != 1 || !strings.Contains(rows[0].Text, "no pull request") {
		t.Fatalf("expected a no-pr placeholder row, got %+v", rows)
	}
}

func TestPrDetailRowsIncludesReviewsAndComments(t *testing.T) {
	pr := &forge.PrInfo{
		Number: 5, Title: "Add feature", Author: "ada", State: "OPEN",
		Reviews:         []forge.Review{{Author: "grace", State: "APPROVED"}},
		GeneralComments: []forge.GeneralComment{{Author: "ada", Body: "looks good"}},
	}
	rows := prDetailRows(pr)
	var joined string
	for _, r := range rows {
		joined += r.Text + "\n"
	}
	for _, want := range []string{"#5 Add feature", "grace: APPROVED", "ada: looks good"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in rendered PR detail, got:\n%s", want, joined)
		}
	}
}

func TestModeLabelNamesEachMode(t *testing.T) {
	if modeLabel(diffview.ModeSideBySide) != "side-by-side" {
		t.Fatal("unexpected side-by-side label")
	}
	if modeLabel(diffview.ModeUnified) != "unified" {
		t.Fatal("unexpected unified label")
	}
}
