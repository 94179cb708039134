// Package gitengine resolves timeline positions against a repository
// and produces status lists, unified diffs, and blob reads for them.
// It is the only non-test package that uses go-git's repository API;
// internal/watch imports only go-git's gitignore matcher.
package gitengine

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/harlangreen/timecop/internal/apperr"
)

var baseBranchCandidates = []struct {
	name   string
	remote bool
}{
	{"main", true},
	{"master", true},
	{"main", false},
	{"master", false},
}

// Engine wraps one open repository and the base branch resolved for it.
// Each background worker that needs one opens its own Engine over the
// same path, per the concurrency model's "no shared mutable handle"
// rule (§5).
type Engine struct {
	repo *git.Repository
	root string

	base           BranchRef
	haveBase       bool
	cachedMergeBase plumbing.Hash
	haveMergeBase   bool
}

// Open opens the repository rooted at or above dir and resolves its
// base branch. A missing repository is reported as RepoMissing, which
// is fatal at startup per §7.
func Open(dir string) (*Engine, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, apperr.Wrap(apperr.RepoMissing, "open repository", err)
	}
	wt, err := repo.Worktree()
	root := dir
	if err == nil {
		root = wt.Filesystem.Root()
	}
	e := &Engine{repo: repo, root: root}
	if ref, ok := e.ResolveBase(); ok {
		e.base = ref
		e.haveBase = true
	}
	return e, nil
}

// Root returns the absolute path to the worktree root.
func (e *Engine) Root() string { return e.root }

// ResolveBase runs the ordered probe from §3/§4.1: origin/main,
// origin/master, local main, local master.
func (e *Engine) ResolveBase() (BranchRef, bool) {
	for _, c := range baseBranchCandidates {
		name := refNameFor(c.name, c.remote)
		if _, err := e.repo.Reference(name, true); err == nil {
			return BranchRef{Name: c.name, Remote: c.remote}, true
		}
	}
	return BranchRef{}, false
}

func refNameFor(name string, remote bool) plumbing.ReferenceName {
	if remote {
		return plumbing.NewRemoteReferenceName("origin", name)
	}
	return plumbing.NewBranchReferenceName(name)
}

// Base returns the resolved base branch, or an error of kind
// NoBaseBranch when none resolved.
func (e *Engine) Base() (BranchRef, error) {
	if !e.haveBase {
		return BranchRef{}, apperr.New(apperr.NoBaseBranch, "no base branch found")
	}
	return e.base, nil
}

func (e *Engine) headCommit() (*object.Commit, error) {
	head, err := e.repo.Head()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "resolve HEAD", err)
	}
	c, err := e.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "resolve HEAD commit", err)
	}
	return c, nil
}

func (e *Engine) baseCommit() (*object.Commit, error) {
	base, err := e.Base()
	if err != nil {
		return nil, err
	}
	ref, err := e.repo.Reference(refNameFor(base.Name, base.Remote), true)
	if err != nil {
		return nil, apperr.Wrap(apperr.NoBaseBranch, "resolve base ref", err)
	}
	return e.repo.CommitObject(ref.Hash())
}

// MergeBase returns the merge-base commit of HEAD and the base branch,
// caching the hash so repeated calls don't repeat the graph walk.
func (e *Engine) MergeBase() (*object.Commit, error) {
	if e.haveMergeBase {
		return e.repo.CommitObject(e.cachedMergeBase)
	}
	head, err := e.headCommit()
	if err != nil {
		return nil, err
	}
	base, err := e.baseCommit()
	if err != nil {
		return nil, err
	}
	bases, err := head.MergeBase(base)
	if err != nil || len(bases) == 0 {
		return nil, apperr.Wrap(apperr.IoError, "merge-base", err)
	}
	e.cachedMergeBase = bases[0].Hash
	e.haveMergeBase = true
	return bases[0], nil
}

// firstParentChain walks first-parent edges from HEAD up to and
// including the merge-base, in HEAD-first order. firstParentChain()[0]
// is HEAD; the last element is the merge-base commit itself.
func (e *Engine) firstParentChain() ([]*object.Commit, error) {
	head, err := e.headCommit()
	if err != nil {
		return nil, err
	}
	mergeBase, err := e.MergeBase()
	if err != nil {
		// No base branch: the "chain" is just HEAD; Wip remains valid,
		// CommitOffset has zero depth.
		return []*object.Commit{head}, nil
	}
	chain := []*object.Commit{head}
	cur := head
	for cur.Hash != mergeBase.Hash {
		if len(cur.ParentHashes) == 0 {
			break
		}
		parent, err := e.repo.CommitObject(cur.ParentHashes[0])
		if err != nil {
			return nil, apperr.Wrap(apperr.IoError, "walk first-parent", err)
		}
		chain = append(chain, parent)
		cur = parent
	}
	return chain, nil
}

// FirstParentDepth is the number of commits on the first-parent chain
// from HEAD (inclusive) down to merge-base (exclusive) — the valid range for
// CommitOffset(n) is 1..=FirstParentDepth().
func (e *Engine) FirstParentDepth() int {
	chain, err := e.firstParentChain()
	if err != nil {
		return 0
	}
	depth := len(chain) - 1
	if depth < 0 {
		return 0
	}
	return depth
}

// FirstParentOffset returns (child, parent) for CommitOffset(n): at
// n=1, child is HEAD; at n=k, child is HEAD~(k-1).
func (e *Engine) FirstParentOffset(n int) (child, parent *object.Commit, err error) {
	if n < 1 {
		return nil, nil, apperr.New(apperr.NotFound, "commit offset must be >= 1")
	}
	chain, err := e.firstParentChain()
	if err != nil {
		return nil, nil, err
	}
	if n >= len(chain) {
		return nil, nil, apperr.New(apperr.NotFound, "commit offset out of range")
	}
	return chain[n-1], chain[n], nil
}

// Status computes the status-entry list for a timeline position.
func (e *Engine) Status(pos Position) ([]StatusEntry, error) {
	switch pos.Kind {
	case Wip:
		return e.workingStatus()
	case Full:
		return e.fullStatus()
	case CommitOffsetKind:
		return e.commitOffsetStatus(pos.N)
	case Browse:
		return e.listTracked(false)
	case Docs:
		return e.listTracked(true)
	default:
		return nil, apperr.New(apperr.NotFound, "unknown timeline position")
	}
}

func (e *Engine) workingStatus() ([]StatusEntry, error) {
	wt, err := e.repo.Worktree()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "open worktree", err)
	}
	wtStatus, err := wt.Status()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "worktree status", err)
	}
	entries := make([]StatusEntry, 0, len(wtStatus))
	for path, fs := range wtStatus {
		entries = append(entries, StatusEntry{Path: normalizePath(path), Status: statusFromCodes(fs.Staging, fs.Worktree)})
	}
	sortEntries(entries)
	return entries, nil
}

func statusFromCodes(staging, worktree git.StatusCode) StatusVariant {
	switch {
	case staging == git.Untracked || worktree == git.Untracked:
		return Untracked
	case staging == git.Added || worktree == git.Added:
		return Added
	case staging == git.Deleted || worktree == git.Deleted:
		return Deleted
	case staging == git.Renamed || worktree == git.Renamed:
		return Renamed
	default:
		return Modified
	}
}

func (e *Engine) fullStatus() ([]StatusEntry, error) {
	mergeBase, err := e.MergeBase()
	if err != nil {
		// No base branch resolved: Full degrades to Wip per spec's
		// intent that Wip is always valid even without one.
		return e.workingStatus()
	}
	committed, err := e.treeToHeadStatus(mergeBase)
	if err != nil {
		return nil, err
	}
	working, err := e.workingStatus()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(committed))
	for _, s := range committed {
		seen[s.Path] = true
	}
	merged := append([]StatusEntry{}, committed...)
	for _, w := range working {
		if !seen[w.Path] {
			merged = append(merged, w)
		}
	}
	sortEntries(merged)
	return merged, nil
}

func (e *Engine) treeToHeadStatus(oldCommit *object.Commit) ([]StatusEntry, error) {
	head, err := e.headCommit()
	if err != nil {
		return nil, err
	}
	return e.treePairStatus(oldCommit, head)
}

func (e *Engine) commitOffsetStatus(n int) ([]StatusEntry, error) {
	child, parent, err := e.FirstParentOffset(n)
	if err != nil {
		return nil, err
	}
	return e.treePairStatus(parent, child)
}

func (e *Engine) treePairStatus(oldCommit, newCommit *object.Commit) ([]StatusEntry, error) {
	oldTree, err := oldCommit.Tree()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "read tree", err)
	}
	newTree, err := newCommit.Tree()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "read tree", err)
	}
	changes, err := oldTree.Diff(newTree)
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "diff trees", err)
	}
	entries := pairRenames(changes)
	sortEntries(entries)
	return entries, nil
}

func changePath(c *object.Change) string {
	if c.To.Name != "" {
		return c.To.Name
	}
	return c.From.Name
}

// pairRenames turns a tree diff's raw inserts/deletes into Renamed
// entries where a deleted path and an inserted path carry the same
// blob hash, matching §3's rename invariant the way workingStatus
// already does for git.Renamed in the worktree case.
func pairRenames(changes object.Changes) []StatusEntry {
	var deletes, inserts, others []*object.Change
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			continue
		}
		switch action {
		case merkletrie.Delete:
			deletes = append(deletes, c)
		case merkletrie.Insert:
			inserts = append(inserts, c)
		default:
			others = append(others, c)
		}
	}

	usedInserts := make(map[int]bool, len(inserts))
	entries := make([]StatusEntry, 0, len(changes))
	for _, d := range deletes {
		matched := -1
		for i, ins := range inserts {
			if usedInserts[i] {
				continue
			}
			if ins.To.TreeEntry.Hash == d.From.TreeEntry.Hash {
				matched = i
				break
			}
		}
		if matched >= 0 {
			usedInserts[matched] = true
			entries = append(entries, StatusEntry{Path: inserts[matched].To.Name, Status: Renamed})
			continue
		}
		entries = append(entries, StatusEntry{Path: d.From.Name, Status: Deleted})
	}
	for i, ins := range inserts {
		if usedInserts[i] {
			continue
		}
		entries = append(entries, StatusEntry{Path: ins.To.Name, Status: Added})
	}
	for _, c := range others {
		entries = append(entries, StatusEntry{Path: changePath(c), Status: Modified})
	}
	return entries
}

func (e *Engine) listTracked(mdOnly bool) ([]StatusEntry, error) {
	head, err := e.headCommit()
	if err != nil {
		return nil, err
	}
	tree, err := head.Tree()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "read HEAD tree", err)
	}
	var entries []StatusEntry
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.IoError, "walk tree", err)
		}
		if isFile, _ := entry.Mode.IsFile(); isFile {
			if mdOnly && !strings.HasSuffix(strings.ToLower(name), ".md") {
				continue
			}
			entries = append(entries, StatusEntry{Path: name, Status: Unchanged})
		}
	}
	sortEntries(entries)
	return entries, nil
}

// Diff produces the unified-diff byte stream for a position and scope.
func (e *Engine) Diff(pos Position, scope Scope) ([]byte, error) {
	switch pos.Kind {
	case Browse, Docs:
		return nil, apperr.New(apperr.NotFound, "position has no diff")
	}

	statuses, err := e.Status(pos)
	if err != nil {
		return nil, err
	}
	paths := filterScope(statuses, scope)
	if len(paths) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	for _, p := range paths {
		fileDiff, err := e.diffOneFile(pos, p)
		if err != nil {
			continue
		}
		buf.Write(fileDiff)
	}
	return truncateDiff(buf.Bytes()), nil
}

func filterScope(statuses []StatusEntry, scope Scope) []string {
	var out []string
	for _, s := range statuses {
		switch scope.Kind {
		case ScopeWhole:
			out = append(out, s.Path)
		case ScopePath:
			if s.Path == scope.Path {
				out = append(out, s.Path)
			}
		case ScopePrefix:
			if strings.HasPrefix(s.Path, strings.TrimSuffix(scope.Path, "/")+"/") || s.Path == scope.Path {
				out = append(out, s.Path)
			}
		}
	}
	return out
}

func (e *Engine) diffOneFile(pos Position, path string) ([]byte, error) {
	switch pos.Kind {
	case CommitOffsetKind:
		child, parent, err := e.FirstParentOffset(pos.N)
		if err != nil {
			return nil, err
		}
		return e.diffCommitsFile(parent, child, path)
	case Wip:
		head, err := e.headCommit()
		if err != nil {
			return nil, err
		}
		return e.diffTreeToWorkdirFile(head, path)
	case Full:
		mergeBase, err := e.MergeBase()
		if err != nil {
			head, err := e.headCommit()
			if err != nil {
				return nil, err
			}
			return e.diffTreeToWorkdirFile(head, path)
		}
		return e.diffTreeToWorkdirFile(mergeBase, path)
	default:
		return nil, apperr.New(apperr.NotFound, "no diff for position")
	}
}

// diffCommitsFile diffs one path between two real commits. Both sides
// are git tree objects here, so this goes straight through go-git's
// own patch generation (Tree.Diff + Change.Patch) instead of reading
// blobs and re-diffing their text by hand.
func (e *Engine) diffCommitsFile(oldCommit, newCommit *object.Commit, path string) ([]byte, error) {
	oldTree, err := oldCommit.Tree()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "read tree", err)
	}
	newTree, err := newCommit.Tree()
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "read tree", err)
	}
	changes, err := oldTree.Diff(newTree)
	if err != nil {
		return nil, apperr.Wrap(apperr.IoError, "diff trees", err)
	}
	for _, c := range changes {
		if changePath(c) != path {
			continue
		}
		patch, err := c.Patch()
		if err != nil {
			return nil, apperr.Wrap(apperr.IoError, "build patch", err)
		}
		return []byte(patch.String()), nil
	}
	return nil, nil
}

func (e *Engine) diffTreeToWorkdirFile(oldCommit *object.Commit, path string) ([]byte, error) {
	oldContent, oldExists := e.blobAtCommit(oldCommit, path)
	newContent, newErr := os.ReadFile(filepath.Join(e.root, path))
	newExists := newErr == nil
	return e.renderFileDiff(path, path, oldContent, string(newContent), !oldExists && newExists, oldExists && !newExists)
}

// renderFileDiff formats a unified diff between a committed blob and
// on-disk working directory content. Tree.Patch doesn't apply here:
// the working directory isn't a git tree object, so the line-level
// diff is computed directly (via diffLines) and hand-formatted into
// hunks.
func (e *Engine) renderFileDiff(oldPath, newPath, oldContent, newContent string, newFile, deletedFile bool) ([]byte, error) {
	if looksBinary(oldContent) || looksBinary(newContent) {
		return []byte(binaryStanza(oldPath, newPath)), nil
	}
	edits := diffLines(splitLines(oldContent), splitLines(newContent))
	if len(edits) == 0 {
		return nil, nil
	}
	return formatFileDiff(oldPath, newPath, edits, newFile, deletedFile), nil
}

func looksBinary(content string) bool {
	limit := len(content)
	if limit > 8192 {
		limit = 8192
	}
	return strings.IndexByte(content[:limit], 0) >= 0
}

func binaryStanza(oldPath, newPath string) string {
	return "diff --git a/" + oldPath + " b/" + newPath + "\nBinary files differ\n"
}

func (e *Engine) blobAtCommit(commit *object.Commit, path string) (string, bool) {
	if commit == nil {
		return "", false
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", false
	}
	f, err := tree.File(path)
	if err != nil {
		return "", false
	}
	content, err := f.Contents()
	if err != nil {
		return "", false
	}
	return content, true
}

// DiffStats returns the total added/removed line counts for a position.
func (e *Engine) DiffStats(pos Position) (Stats, error) {
	if pos.Kind == Browse || pos.Kind == Docs {
		return Stats{}, nil
	}
	raw, err := e.Diff(pos, WholeScope())
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			if !bytes.HasPrefix(line, []byte("+++")) {
				stats.Added++
			}
		case '-':
			if !bytes.HasPrefix(line, []byte("---")) {
				stats.Removed++
			}
		}
	}
	return stats, nil
}

// ReadBlob returns the content of path at HEAD, used by the Browse
// preview.
func (e *Engine) ReadBlob(path string) ([]byte, error) {
	head, err := e.headCommit()
	if err != nil {
		return nil, err
	}
	content, ok := e.blobAtCommit(head, path)
	if !ok {
		return nil, apperr.New(apperr.NotFound, path)
	}
	return []byte(content), nil
}

func normalizePath(p string) string {
	return filepath.ToSlash(p)
}

func sortEntries(entries []StatusEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}
