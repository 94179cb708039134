package preview

import (
	"testing"

	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/tree"
)

func TestNoStatusYieldsEmpty(t *testing.T) {
	c := Dispatch(FocusFiles, tree.Selection{Kind: tree.SelFile, Path: "a.go"}, gitengine.WipPosition(), false, Async{})
	if c.Kind != KindEmpty {
		t.Fatalf("expected Empty, got %+v", c)
	}
}

func TestPrListFocusAlwaysShowsPrDetails(t *testing.T) {
	pr := &forge.PrInfo{Number: 7}
	c := Dispatch(FocusPrList, tree.Selection{Kind: tree.SelFile, Path: "a.go"}, gitengine.WipPosition(), true, Async{Pr: pr})
	if c.Kind != KindPrDetails || c.Pr != pr {
		t.Fatalf("expected PrDetails with pr, got %+v", c)
	}
}

func TestRootSelectionShowsPrDetailsRegardlessOfFocus(t *testing.T) {
	c := Dispatch(FocusFiles, tree.Selection{Kind: tree.SelRoot}, gitengine.WipPosition(), true, Async{})
	if c.Kind != KindPrDetails {
		t.Fatalf("expected PrDetails for root selection, got %+v", c)
	}
}

func TestFolderSelectionShowsFolderDiff(t *testing.T) {
	c := Dispatch(FocusFiles, tree.Selection{Kind: tree.SelFolder, Path: "src"}, gitengine.WipPosition(), true, Async{Diff: []byte("patch")})
	if c.Kind != KindFolderDiff || c.Path != "src" {
		t.Fatalf("unexpected: %+v", c)
	}
}

func TestFileSelectionInBrowseShowsFileContent(t *testing.T) {
	c := Dispatch(FocusFiles, tree.Selection{Kind: tree.SelFile, Path: "a.go"}, gitengine.BrowsePosition(), true, Async{Blob: []byte("package a")})
	if c.Kind != KindFileContent {
		t.Fatalf("expected FileContent in Browse, got %+v", c)
	}
}

func TestFileSelectionOutsideBrowseShowsFileDiff(t *testing.T) {
	c := Dispatch(FocusFiles, tree.Selection{Kind: tree.SelFile, Path: "a.go"}, gitengine.WipPosition(), true, Async{Diff: []byte("patch")})
	if c.Kind != KindFileDiff {
		t.Fatalf("expected FileDiff outside Browse, got %+v", c)
	}
}

func TestLoadingTakesPriorityOverContent(t *testing.T) {
	c := Dispatch(FocusFiles, tree.Selection{Kind: tree.SelFile, Path: "a.go"}, gitengine.WipPosition(), true, Async{Loading: true})
	if c.Kind != KindLoading {
		t.Fatalf("expected Loading, got %+v", c)
	}
}
