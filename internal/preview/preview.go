// Package preview is the pure dispatcher (C7): it maps the current
// focus, selection, PR data, and timeline position to what the preview
// pane should show, deferring to Loading/Empty when prerequisite data
// isn't ready yet. It fetches nothing itself.
package preview

import (
	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/tree"
)

// Focus is which pane currently has keyboard focus.
type Focus int

const (
	FocusFiles Focus = iota
	FocusPreview
	FocusPrList
)

// Kind is the closed set of preview content shapes.
type Kind int

const (
	KindEmpty Kind = iota
	KindLoading
	KindPrDetails
	KindFolderDiff
	KindFileContent
	KindFileDiff
)

// Content is what the preview pane should render for one dispatch.
type Content struct {
	Kind   Kind
	Path   string
	Diff   []byte
	Blob   []byte
	Pr     *forge.PrInfo
	Reason string
}

// Async carries an already-fetched-or-pending result for one of the
// three data kinds Dispatch can need; the caller (App Core) is
// responsible for requesting the right scope via the loader and handing
// back its current state here.
type Async struct {
	Loading bool
	Diff    []byte
	Blob    []byte
	Pr      *forge.PrInfo
}

// Dispatch implements §4.7's table. hasStatus distinguishes "nothing
// selected yet" (before the first status load completes) from a valid
// root/folder/file selection.
func Dispatch(focus Focus, sel tree.Selection, pos gitengine.Position, hasStatus bool, a Async) Content {
	if !hasStatus {
		return Content{Kind: KindEmpty}
	}

	if focus == FocusPrList || sel.Kind == tree.SelRoot {
		if a.Loading {
			return Content{Kind: KindLoading, Reason: "pull request"}
		}
		return Content{Kind: KindPrDetails, Pr: a.Pr}
	}

	switch sel.Kind {
	case tree.SelFolder:
		if a.Loading {
			return Content{Kind: KindLoading, Reason: "folder diff"}
		}
		return Content{Kind: KindFolderDiff, Path: sel.Path, Diff: a.Diff}
	case tree.SelFile:
		if pos.Kind == gitengine.Browse {
			if a.Loading {
				return Content{Kind: KindLoading, Reason: "file content"}
			}
			return Content{Kind: KindFileContent, Path: sel.Path, Blob: a.Blob}
		}
		if a.Loading {
			return Content{Kind: KindLoading, Reason: "file diff"}
		}
		return Content{Kind: KindFileDiff, Path: sel.Path, Diff: a.Diff}
	default:
		return Content{Kind: KindEmpty}
	}
}
