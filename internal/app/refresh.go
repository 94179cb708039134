package app

import (
	"github.com/harlangreen/timecop/internal/apperr"
	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/loader"
	"github.com/harlangreen/timecop/internal/tree"
)

func apperrForgeUnavailable(err error) bool {
	return apperr.OfKind(err, apperr.ForgeUnavailable)
}

// requestStatus, requestDiffStats, and requestBranch each launch one
// C1 call on the loader; drainLoaders merges whichever have completed
// on the next Tick. Re-requesting the same kind bumps its generation,
// so a superseded result is discarded per §4.3/§5.
func (a *App) requestStatus() {
	pos := a.position
	loader.Request(a.gitLoader, kindStatus, func() ([]gitengine.StatusEntry, error) {
		return a.engine.Status(pos)
	})
}

func (a *App) requestDiffStats() {
	pos := a.position
	loader.Request(a.gitLoader, kindDiffStats, func() (gitengine.Stats, error) {
		return a.engine.DiffStats(pos)
	})
}

func (a *App) requestBranch() {
	loader.Request(a.gitLoader, kindBranch, func() (gitengine.BranchRef, error) {
		return a.engine.Base()
	})
}

// requestPreview launches whichever of diff/blob the current selection
// needs, per §4.7's dispatch table.
func (a *App) requestPreview() {
	sel := a.treeModel.Selection()
	pos := a.position
	a.currentPath = sel.Path
	switch sel.Kind {
	case tree.SelFolder:
		scope := gitengine.PrefixScope(sel.Path)
		loader.Request(a.gitLoader, kindDiff, func() ([]byte, error) {
			return a.engine.Diff(pos, scope)
		})
	case tree.SelFile:
		if pos.Kind == gitengine.Browse {
			loader.Request(a.gitLoader, kindBlob, func() ([]byte, error) {
				return a.engine.ReadBlob(sel.Path)
			})
			return
		}
		scope := gitengine.PathScope(sel.Path)
		loader.Request(a.gitLoader, kindDiff, func() ([]byte, error) {
			return a.engine.Diff(pos, scope)
		})
	case tree.SelRoot:
		// Root selection shows PR details; no git fetch needed.
	}
}

func (a *App) requestPrList() {
	if a.forge == nil {
		return
	}
	loader.Request(a.forgeLoader, kindPrList, func() ([]forge.PrSummary, error) {
		return a.forge.ListOpenPRs(reqCtx())
	})
}

func (a *App) requestPrDetail() {
	if a.forge == nil || !a.haveBranch {
		return
	}
	branch := a.currentBranchName()
	loader.Request(a.forgeLoader, kindPrDetail, func() (*forge.PrInfo, error) {
		return a.forge.GetPRForBranch(reqCtx(), branch)
	})
}

func (a *App) currentBranchName() string {
	if a.haveBranch {
		return a.branch.Name
	}
	return ""
}

// drainLoaders polls every registered kind once; ready results are
// merged into state, stale ones are silently discarded by C3 itself.
func (a *App) drainLoaders() {
	if out := loader.Poll[string, []gitengine.StatusEntry](a.gitLoader, kindStatus); out.Ready {
		a.hasStatus = out.Err == nil
		if out.Err != nil {
			a.setError(out.Err)
		} else {
			a.treeModel.SetStatus(out.Value)
			a.treeModel.SetComments(a.commentsSet)
			a.requestPreview()
		}
	}
	if out := loader.Poll[string, gitengine.Stats](a.gitLoader, kindDiffStats); out.Ready && out.Err == nil {
		a.diffStats = out.Value
	}
	if out := loader.Poll[string, gitengine.BranchRef](a.gitLoader, kindBranch); out.Ready {
		if out.Err == nil {
			a.branch = out.Value
			a.haveBranch = true
			a.firstDepth = a.engine.FirstParentDepth()
			a.requestPrDetail()
		}
	}
	if out := loader.Poll[string, []byte](a.gitLoader, kindDiff); out.Ready {
		if out.Err == nil {
			a.currentDiff = out.Value
			a.currentBlob = nil
			a.rerenderDiff()
		} else {
			a.setError(out.Err)
		}
	}
	if out := loader.Poll[string, []byte](a.gitLoader, kindBlob); out.Ready {
		if out.Err == nil {
			a.currentBlob = out.Value
			a.currentDiff = nil
		} else {
			a.setError(out.Err)
		}
	}
	if out := loader.Poll[string, []forge.PrSummary](a.forgeLoader, kindPrList); out.Ready {
		if out.Err == nil {
			a.prList = out.Value
		} else if !apperrForgeUnavailable(out.Err) {
			a.setError(out.Err)
		}
	}
	if out := loader.Poll[string, *forge.PrInfo](a.forgeLoader, kindPrDetail); out.Ready {
		if out.Err == nil {
			a.pr = out.Value
			a.applyComments()
		} else if !apperrForgeUnavailable(out.Err) {
			a.setError(out.Err)
		}
	}
}

// onFileChanged implements §4.8's FileChanged handling: branch info,
// status, diff stats, and the current preview reload, and PR details
// are re-launched since the branch may have moved.
func (a *App) onFileChanged() {
	a.requestBranch()
	a.requestStatus()
	a.requestDiffStats()
	a.requestPreview()
	if a.haveBranch {
		a.requestPrDetail()
	}
}

func (a *App) applyComments() {
	a.commentsSet = map[string]bool{}
	if a.pr != nil {
		for path, comments := range a.pr.FileComments {
			if len(comments) > 0 {
				a.commentsSet[path] = true
			}
		}
	}
	a.treeModel.SetComments(a.commentsSet)
	a.rerenderDiff()
}

func (a *App) currentComments() map[string][]forge.LineComment {
	if a.pr == nil {
		return nil
	}
	return a.pr.FileComments
}
