package ui

import (
	"strings"
	"testing"
)

func TestTimelineHighlightsActiveCommitOffset(t *testing.T) {
	out := Timeline(3, "commit-2", NewStyles(true))
	if !strings.Contains(out, "●") {
		t.Fatalf("expected an active marker in %q", out)
	}
}

func TestTimelineMarksWipByDefault(t *testing.T) {
	out := Timeline(0, "wip", NewStyles(true))
	if !strings.Contains(out, "WIP") {
		t.Fatalf("expected WIP marker in %q", out)
	}
}

func TestPrettyCountSingularVsPlural(t *testing.T) {
	if prettyCount(1) != "1 file" {
		t.Fatalf("expected singular, got %q", prettyCount(1))
	}
	if prettyCount(2) != "2 files" {
		t.Fatalf("expected plural, got %q", prettyCount(2))
	}
}

func TestDiffSummaryFormatsAddedAndRemoved(t *testing.T) {
	if got := diffSummary(3, 1); got != "+3 −1" {
		t.Fatalf("unexpected diff summary: %q", got)
	}
}

func TestRenderWideLayoutIncludesAllPaneTitles(t *testing.T) {
	s := State{
		Width: 120, Height: 40,
		TreeTitle: "Files", TreeRows: []Row{{Text: "a.go"}},
		PreviewTitle: "Preview", PreviewRows: []Row{{Text: "line 1"}},
		PrListTitle: "Pull Requests",
		Branch:      "main", Mode: "side-by-side",
		Timeline: "T-I-M-E-C-O-P",
	}
	out := Render(s)
	for _, want := range []string{"Files", "Preview", "Pull Requests", "main"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in wide render, got:\n%s", want, out)
		}
	}
}

func TestRenderNarrowLayoutStacksPanes(t *testing.T) {
	s := State{
		Width: 60, Height: 30,
		TreeTitle: "Files", PreviewTitle: "Preview", PrListTitle: "Pull Requests",
	}
	out := Render(s)
	if !strings.Contains(out, "Files") || !strings.Contains(out, "Preview") {
		t.Fatalf("expected stacked panes in narrow render, got:\n%s", out)
	}
}

func TestRenderModalReplacesNormalLayout(t *testing.T) {
	s := State{
		Width: 100, Height: 30,
		Modal: ModalHelp, ModalTitle: "Help", ModalBody: "keys go here",
	}
	out := Render(s)
	if !strings.Contains(out, "Help") || !strings.Contains(out, "keys go here") {
		t.Fatalf("expected modal content, got:\n%s", out)
	}
}

func TestRenderStatusBarShowsErrorDistinctly(t *testing.T) {
	s := State{
		Width: 100, Height: 30,
		StatusMessage: "boom", IsError: true,
		Branch: "main", Mode: "unified",
	}
	out := Render(s)
	if !strings.Contains(out, "boom") {
		t.Fatalf("expected error message in status bar, got:\n%s", out)
	}
}

func TestTruncateLineAddsEllipsisWhenOverWidth(t *testing.T) {
	got := truncateLine("hello world", 5)
	if got != "hell…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestTruncateLineLeavesShortLinesAlone(t *testing.T) {
	if got := truncateLine("hi", 10); got != "hi" {
		t.Fatalf("unexpected truncation of short line: %q", got)
	}
}
