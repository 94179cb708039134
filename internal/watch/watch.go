// Package watch is the filesystem half of the Event Source (C4): a
// recursive, debounced, gitignore-aware watch that reports a single
// FileChanged signal per batch of relevant changes, and can be paused
// around external-editor suspension.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const debounceWindow = 350 * time.Millisecond

// Watcher recursively watches root and sends on Changed whenever
// relevant files settle after the debounce window.
type Watcher struct {
	Changed chan struct{}

	root    string
	fsw     *fsnotify.Watcher
	paused  atomic.Bool
	matcher gitignore.Matcher
	done    chan struct{}
}

// New starts watching root. The caller owns the returned Watcher and
// must call Close when done.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		Changed: make(chan struct{}, 1),
		root:    root,
		fsw:     fsw,
		matcher: loadGitignore(root),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if filepath.Base(path) == ".git" {
			watchGitRefs(fsw, path)
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// watchGitRefs adds fsnotify watches for .git itself, so .git/HEAD
// changes are seen, and for every directory under .git/refs, so branch
// and tag updates are seen - the carve-out relevant() checks for.
// fsnotify watches are non-recursive, so without this neither HEAD nor
// refs/** would ever produce an event: the rest of .git's contents
// (packfiles, the index, hooks) churns too often to be worth watching
// at all and is left alone.
func watchGitRefs(fsw *fsnotify.Watcher, gitDir string) {
	fsw.Add(gitDir)
	refsDir := filepath.Join(gitDir, "refs")
	filepath.Walk(refsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}

func loadGitignore(root string) gitignore.Matcher {
	fs := osfs.New(root)
	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

// Pause suppresses FileChanged delivery, used while an external editor
// owns the terminal so events don't accumulate during the suspension.
func (w *Watcher) Pause() { w.paused.Store(true) }

// Resume lifts a previous Pause. Callers emit their own synthetic
// refresh afterward per §4.4; this package does not do so itself.
func (w *Watcher) Resume() { w.paused.Store(false) }

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time
	pending := false

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.paused.Load() {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			pending = true
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if pending && !w.paused.Load() {
				pending = false
				select {
				case w.Changed <- struct{}{}:
				default:
				}
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant applies the §4.4 filter: .git internal churn is dropped
// except for .git/HEAD and .git/refs/**, and .gitignore'd paths never
// trigger a refresh.
func (w *Watcher) relevant(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if strings.HasPrefix(rel, ".git/") {
		if rel == ".git/HEAD" || strings.HasPrefix(rel, ".git/refs/") {
			return true
		}
		return false
	}
	if w.matcher != nil {
		parts := strings.Split(rel, "/")
		if w.matcher.Match(parts, false) {
			return false
		}
	}
	return true
}
