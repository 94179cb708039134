package gitengine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func commitAll(t *testing.T, wt *git.Worktree, msg string) {
	t.Helper()
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "reviewer", Email: "reviewer@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit %q: %v", msg, err)
	}
}

// newTestRepo builds: main (one commit) -> branch off main with two
// commits, matching scenario 1 in §8.
func newTestRepo(t *testing.T) string {
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

	writeFile(t, root, "README.md", "hello\n")
	commitAll(t, wt, "initial commit")

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	mainRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), head.Hash())
	if err := repo.Storer.SetReference(mainRef); err != nil {
		t.Fatalf("create main ref: %v", err)
	}

	writeFile(t, root, "src/a.go", "package a\n\nfunc A() {}\n")
	commitAll(t, wt, "add a.go")

	writeFile(t, root, "src/b.go", "package a\n\nfunc B() {}\n")
	commitAll(t, wt, "add b.go")

	return root
}

func TestResolveBaseFindsLocalMain(t *testing.T) {
	root := newTestRepo(t)
	e, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	base, err := e.Base()
	if err != nil {
		t.Fatalf("base: %v", err)
	}
	if base.Name != "main" || base.Remote {
		t.Fatalf("expected local main, got %+v", base)
	}
}

func TestFirstParentDepthMatchesCommitCount(t *testing.T) {
	root := newTestRepo(t)
	e, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := e.FirstParentDepth(); got != 2 {
		t.Fatalf("expected depth 2, got %d", got)
	}
}

func TestCommitOffsetOutOfRangeErrors(t *testing.T) {
	root := newTestRepo(t)
	e, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, _, err := e.FirstParentOffset(3); err == nil {
		t.Fatal("expected out-of-range offset to error")
	}
}

func TestFullStatusListsBothCommits(t *testing.T) {
	root := newTestRepo(t)
	e, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	entries, err := e.Status(FullPosition())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	paths := map[string]bool{}
	for _, en := range entries {
		paths[en.Path] = true
	}
	if !paths["src/a.go"] || !paths["src/b.go"] {
		t.Fatalf("expected both files in full status, got %+v", entries)
	}
}

func TestWipStatusIncludesUntracked(t *testing.T) {
	root := newTestRepo(t)
	writeFile(t, root, "src/c.go", "package a\n")
	e, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	entries, err := e.Status(WipPosition())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	found := false
	for _, en := range entries {
		if en.Path == "src/c.go" && en.Status == Untracked {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected src/c.go untracked, got %+v", entries)
	}
}

func TestDiffForPathNamesThatPath(t *testing.T) {
	root := newTestRepo(t)
	e, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	diff, err := e.Diff(CommitOffsetAt(1), PathScope("src/b.go"))
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if len(diff) == 0 {
		t.Fatal("expected non-empty diff")
	}
	if !contains(diff, "src/b.go") {
		t.Fatalf("expected diff to name src/b.go, got %s", diff)
	}
}

func TestDiffTruncatesAtCeiling(t *testing.T) {
	edits := make([]lineEdit, 0, truncationCeiling+10)
	for i := 0; i < truncationCeiling+10; i++ {
		edits = append(edits, lineEdit{op: opInsert, text: "x"})
	}
	out := formatFileDiff("a", "a", edits, true, false)
	truncated := truncateDiff(out)
	if !contains(truncated, "truncated") {
		t.Fatal("expected truncation sentinel")
	}
}

func contains(b []byte, s string) bool {
	return len(b) > 0 && indexOf(string(b), s) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
