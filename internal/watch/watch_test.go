package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git", "refs"), 0o755); err != nil {
		t.Fatalf("mkdir .git/refs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	w, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, root
}

func waitChanged(t *testing.T, w *Watcher, want bool) {
	t.Helper()
	select {
	case <-w.Changed:
		if !want {
			t.Fatal("unexpected change notification")
		}
	case <-time.After(1200 * time.Millisecond):
		if want {
			t.Fatal("expected a change notification")
		}
	}
}

func TestOrdinaryFileChangeTriggersNotification(t *testing.T) {
	w, root := newTestWatcher(t)
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitChanged(t, w, true)
}

func TestGitIndexChurnIsIgnored(t *testing.T) {
	w, root := newTestWatcher(t)
	if err := os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitChanged(t, w, false)
}

func TestGitHEADChangeTriggersNotification(t *testing.T) {
	w, root := newTestWatcher(t)
	if err := os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/other\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitChanged(t, w, true)
}

func TestGitRefsChangeTriggersNotification(t *testing.T) {
	w, root := newTestWatcher(t)
	if err := os.WriteFile(filepath.Join(root, ".git", "refs", "main"), []byte("abc"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitChanged(t, w, true)
}

func TestPausedWatcherSuppressesNotification(t *testing.T) {
	w, root := newTestWatcher(t)
	w.Pause()
	if err := os.WriteFile(filepath.Join(root, "b.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitChanged(t, w, false)
	w.Resume()
}

func TestGitignoredPathIsIgnored(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git", "refs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("ignored.txt\n"), 0o644); err != nil {
		t.Fatalf("write gitignore: %v", err)
	}
	w, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	if err := os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitChanged(t, w, false)
}
