package forge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/harlangreen/timecop/internal/apperr"
)

// fakeGH installs a shell script named "gh" on PATH that writes a fixed
// JSON payload to stdout, the same approach the teacher's gh_manager
// tests use to avoid calling the real CLI.
func fakeGH(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake gh script is a POSIX shell script")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "gh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake gh: %v", err)
	}
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}

func TestAvailableFalseWithoutGH(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	a := New(".")
	if a.Available() {
		t.Fatal("expected gh to be unavailable")
	}
}

func TestListOpenPRsParsesJSON(t *testing.T) {
	fakeGH(t, `echo '[{"number":1,"title":"fix bug","author":{"login":"ada"},"headRefName":"fix-bug","createdAt":"2026-01-01T00:00:00Z","reviewDecision":"APPROVED","reviewRequests":[]}]'`)
	a := New(t.TempDir())
	prs, err := a.ListOpenPRs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(prs) != 1 || prs[0].Number != 1 || prs[0].Author != "ada" {
		t.Fatalf("unexpected prs: %+v", prs)
	}
}

func TestRunUnavailableReturnsForgeUnavailable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	a := New(".")
	_, err := a.run(context.Background(), "pr", "list")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.OfKind(err, apperr.ForgeUnavailable) {
		t.Fatalf("expected ForgeUnavailable, got %v", err)
	}
}

func TestCommentsGroupByPathPreservingOrder(t *testing.T) {
	fakeGH(t, `echo '[
		{"user":{"login":"a"},"body":"first","path":"x.go","line":1,"side":"RIGHT"},
		{"user":{"login":"b"},"body":"general"},
		{"user":{"login":"c"},"body":"second","path":"x.go","line":5,"side":"RIGHT"}
	]'`)
	a := New(t.TempDir())
	general, byPath, err := a.comments(context.Background(), 7)
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(general) != 1 || general[0].Author != "b" {
		t.Fatalf("unexpected general comments: %+v", general)
	}
	xs := byPath["x.go"]
	if len(xs) != 2 || xs[0].Body != "first" || xs[1].Body != "second" {
		t.Fatalf("expected server order preserved, got %+v", xs)
	}
}
