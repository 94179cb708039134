// Package app is the App Core (C8): the bubbletea model that owns
// timeline position, focus, the file tree, preview content, PR state,
// and the modal overlays, and that drains the async loaders, the
// filesystem watch, and the PR poll timer into one coherent state per
// event. Widgets (internal/tree, internal/diffview, internal/ui) stay
// pure; every mutation happens here.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/harlangreen/timecop/internal/apperr"
	"github.com/harlangreen/timecop/internal/config"
	"github.com/harlangreen/timecop/internal/diffview"
	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/loader"
	"github.com/harlangreen/timecop/internal/tree"
	"github.com/harlangreen/timecop/internal/ui"
	"github.com/harlangreen/timecop/internal/watch"
)

const (
	tickInterval  = 100 * time.Millisecond
	prPollWindow  = 120 * time.Second
	kindStatus    = "status"
	kindDiffStats = "diffstats"
	kindBranch    = "branch"
	kindDiff      = "diff"
	kindBlob      = "blob"
	kindPrList    = "prlist"
	kindPrDetail  = "prdetail"
	kindSubmit    = "submit"
)

// Focus is an alias of ui.Focus, re-exported with its constants under
// this package's name.
type Focus = ui.Focus

const (
	FocusFiles   = ui.FocusFiles
	FocusPreview = ui.FocusPreview
	FocusPrList  = ui.FocusPrList
)

// inputKind records which flavor of the Input modal is active; which
// modal is open at all is held separately as a ui.ModalKind.
type inputKind int

const (
	inputNone inputKind = iota
	inputApprove
	inputRequestChanges
	inputComment
	inputLineComment
)

// App is the bubbletea model, held by pointer rather than the teacher's
// value-type model since it owns long-lived resources (the engine
// handle, the watcher, the loader registries) that must keep identity
// across Update calls rather than being copied.
type App struct {
	engine  *gitengine.Engine
	forge   *forge.Adapter
	watcher *watch.Watcher
	env     config.Env
	hl      diffview.Highlighter

	width, height int
	ready         bool
	quitting      bool

	focus    ui.Focus
	position gitengine.Position
	mode     diffview.Mode
	modeUser *diffview.Mode

	treeModel *tree.Model
	hasStatus bool
	spinner   spinner.Model

	gitLoader   *loader.Registry[string]
	forgeLoader *loader.Registry[string]

	branch       gitengine.BranchRef
	haveBranch   bool
	diffStats    gitengine.Stats
	firstDepth   int
	currentDiff  []byte
	currentBlob  []byte
	currentPath  string
	diffRows     []diffview.Row
	diffLocs     []diffview.LineLocation
	diffCursor   int

	prList      []forge.PrSummary
	prListIdx   int
	pr          *forge.PrInfo
	prBranch    string
	commentsSet map[string]bool

	lastErr    string
	lastErrBad bool

	modal     ui.ModalKind
	inputKind inputKind
	form      *huh.Form
	confirmed bool
	textValue string

	lcPath  string
	lcLine  int
	lcSide  forge.Side
	lcTitle string
}

// New constructs the initial App for one repository root.
func New(engine *gitengine.Engine, forgeAdapter *forge.Adapter, watcher *watch.Watcher, env config.Env) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if !env.NoColor {
		sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	}
	a := &App{
		engine:      engine,
		forge:       forgeAdapter,
		watcher:     watcher,
		env:         env,
		hl:          diffview.ChromaHighlighter{Disabled: env.NoColor},
		focus:       ui.FocusFiles,
		position:    gitengine.WipPosition(),
		mode:        diffview.ModeSideBySide,
		treeModel:   tree.NewModel(),
		gitLoader:   loader.NewRegistry[string](),
		forgeLoader: loader.NewRegistry[string](),
		commentsSet: map[string]bool{},
		spinner:     sp,
	}
	if env.NoColor {
		a.hl = diffview.NoopHighlighter{}
	}
	return a
}

func (a *App) Init() tea.Cmd {
	a.requestBranch()
	a.requestStatus()
	a.requestDiffStats()
	a.requestPrList()
	return tea.Batch(tickCmd(), watchCmd(a.watcher), prPollCmd(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.ready = true
		a.recomputeMode()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tickMsg:
		a.drainLoaders()
		return a, tickCmd()

	case fileChangedMsg:
		a.onFileChanged()
		return a, watchCmd(a.watcher)

	case prPollMsg:
		a.requestPrList()
		if a.haveBranch {
			a.requestPrDetail()
		}
		return a, prPollCmd()

	case editorDoneMsg:
		return a.finishEditorSuspension(msg)

	case reviewSubmittedMsg:
		if msg.err != nil {
			a.setError(msg.err)
		} else {
			a.closeModal()
			a.requestPrDetail()
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) View() string {
	if !a.ready {
		return ""
	}
	if a.quitting {
		return ""
	}
	return ui.Render(a.snapshot())
}

// setError records the last error for the status bar per §7: no error
// kind is fatal after startup, and the last-good state stays visible.
func (a *App) setError(err error) {
	if err == nil {
		return
	}
	a.lastErr = err.Error()
	a.lastErrBad = true
	if apperr.OfKind(err, apperr.ForgeUnavailable) {
		a.pr = nil
		a.prList = nil
	}
}

func (a *App) setInfo(msg string) {
	a.lastErr = msg
	a.lastErrBad = false
}

func (a *App) closeModal() {
	a.modal = ui.ModalNone
	a.inputKind = inputNone
	a.form = nil
	a.textValue = ""
}

func reqCtx() context.Context { return context.Background() }
