// Package tree is the file-tree model (C5): it turns a flat status list
// into a collapsible tree, flattens it for rendering, and tracks cursor
// and selection. It owns no git or terminal state.
package tree

import (
	"sort"
	"strings"

	"github.com/harlangreen/timecop/internal/gitengine"
)

// Kind distinguishes directory and file nodes.
type Kind int

const (
	Dir Kind = iota
	File
)

// aggregatePriority is the fixed emission order for a collapsed folder's
// aggregated child statuses.
var aggregatePriority = []gitengine.StatusVariant{
	gitengine.Deleted,
	gitengine.Modified,
	gitengine.Added,
	gitengine.Renamed,
	gitengine.Untracked,
}

// FlatEntry is one row of the flattened, currently-visible tree.
type FlatEntry struct {
	Display     string
	Path        string
	Kind        Kind
	IsRoot      bool
	Depth       int
	Status      gitengine.StatusVariant   // files only
	Collapsed   bool                      // directories only
	Aggregated  []gitengine.StatusVariant // collapsed directories only, priority order
	HasComments bool
}

// SelectionKind distinguishes what the cursor currently rests on.
type SelectionKind int

const (
	SelRoot SelectionKind = iota
	SelFolder
	SelFile
)

// Selection is the cursor's current target.
type Selection struct {
	Kind     SelectionKind
	Path     string
	Children []string // folder only: all descendant file paths
}

// node is the internal (pre-flatten) tree shape.
type node struct {
	name     string
	path     string
	kind     Kind
	status   gitengine.StatusVariant
	children []*node
}

// Model owns the status list, collapse state, flattened view, and cursor.
type Model struct {
	statuses    []gitengine.StatusEntry
	hasComments map[string]bool

	collapsed     map[string]bool
	autoCollapsed map[string]bool
	inBrowse      bool

	flat   []FlatEntry
	cursor int
}

func NewModel() *Model {
	return &Model{
		hasComments:   map[string]bool{},
		collapsed:     map[string]bool{},
		autoCollapsed: map[string]bool{},
	}
}

// SetStatus rebuilds the tree from a fresh status list, preserving
// collapse state and, where possible, the cursor's logical target: the
// same path if still present, otherwise the nearest prior path.
func (m *Model) SetStatus(list []gitengine.StatusEntry) {
	var keepPath string
	if sel, ok := m.currentPath(); ok {
		keepPath = sel
	}
	m.statuses = list
	m.rebuild()
	m.restoreCursor(keepPath)
}

// SetComments replaces the has-comments-by-path set and rebuilds.
func (m *Model) SetComments(hasComments map[string]bool) {
	var keepPath string
	if sel, ok := m.currentPath(); ok {
		keepPath = sel
	}
	m.hasComments = hasComments
	m.rebuild()
	m.restoreCursor(keepPath)
}

func (m *Model) currentPath() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return "", false
	}
	return m.flat[m.cursor].Path, true
}

func (m *Model) restoreCursor(path string) {
	if len(m.flat) == 0 {
		m.cursor = 0
		return
	}
	for i, e := range m.flat {
		if e.Path == path {
			m.cursor = i
			return
		}
	}
	// Nearest prior path: the entry with the greatest path that sorts
	// before the missing one, or the root entry when none does.
	idx := 0
	for i, e := range m.flat {
		if e.Path < path && e.Path > m.flat[idx].Path {
			idx = i
		}
	}
	m.cursor = idx
}

// Collapse marks path collapsed (directories only) and rebuilds.
func (m *Model) Collapse(path string) {
	m.collapsed[path] = true
	m.rebuild()
}

// Expand clears a collapse mark and rebuilds.
func (m *Model) Expand(path string) {
	delete(m.collapsed, path)
	delete(m.autoCollapsed, path)
	m.rebuild()
}

// Toggle flips collapse state for path.
func (m *Model) Toggle(path string) {
	if m.collapsed[path] || m.autoCollapsed[path] {
		m.Expand(path)
		return
	}
	m.Collapse(path)
}

// MoveCursor advances or retreats the cursor by delta, clamped to the
// flattened entry range, and returns the resulting selection.
func (m *Model) MoveCursor(delta int) Selection {
	if len(m.flat) == 0 {
		return Selection{}
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	return m.Selection()
}

// Cursor returns the current cursor index into Entries().
func (m *Model) Cursor() int { return m.cursor }

// Entries returns the currently flattened, visible rows.
func (m *Model) Entries() []FlatEntry { return m.flat }

// Selection classifies what the cursor currently rests on.
func (m *Model) Selection() Selection {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return Selection{}
	}
	e := m.flat[m.cursor]
	switch {
	case e.IsRoot:
		return Selection{Kind: SelRoot}
	case e.Kind == Dir:
		return Selection{Kind: SelFolder, Path: e.Path, Children: m.childPaths(e.Path)}
	default:
		return Selection{Kind: SelFile, Path: e.Path}
	}
}

func (m *Model) childPaths(dirPath string) []string {
	prefix := dirPath + "/"
	var out []string
	for _, s := range m.statuses {
		if strings.HasPrefix(s.Path, prefix) {
			out = append(out, s.Path)
		}
	}
	return out
}

// EnterBrowse applies the Browse auto-collapse policy: directories at
// depth >= 1 containing only files (no subdirectories) begin collapsed.
func (m *Model) EnterBrowse() {
	m.inBrowse = true
	root := buildTree(m.statuses)
	markAutoCollapse(root, 1, m.autoCollapsed)
	m.rebuild()
}

// LeaveBrowse clears the auto-collapse set but preserves user-made
// collapses.
func (m *Model) LeaveBrowse() {
	m.inBrowse = false
	m.autoCollapsed = map[string]bool{}
	m.rebuild()
}

func markAutoCollapse(nodes []*node, depth int, auto map[string]bool) {
	for _, n := range nodes {
		if n.kind != Dir {
			continue
		}
		if depth >= 1 && onlyFiles(n) {
			auto[n.path] = true
		} else {
			markAutoCollapse(n.children, depth+1, auto)
		}
	}
}

func onlyFiles(n *node) bool {
	for _, c := range n.children {
		if c.kind == Dir {
			return false
		}
	}
	return true
}

func (m *Model) isCollapsed(path string) bool {
	return m.collapsed[path] || m.autoCollapsed[path]
}

func (m *Model) rebuild() {
	m.flat = nil
	if len(m.statuses) == 0 {
		return
	}

	root := buildTree(m.statuses)

	allPaths := make([]string, len(m.statuses))
	for i, s := range m.statuses {
		allPaths[i] = s.Path
	}
	m.flat = append(m.flat, FlatEntry{
		Display: "./",
		Path:    "",
		Kind:    Dir,
		IsRoot:  true,
		Depth:   0,
	})
	if m.isCollapsed("") {
		if len(m.flat) > 0 {
			m.cursor = min(m.cursor, len(m.flat)-1)
		}
		return
	}

	m.flattenInto(root, 1)
	if m.cursor >= len(m.flat) && len(m.flat) > 0 {
		m.cursor = len(m.flat) - 1
	}
}

func (m *Model) flattenInto(nodes []*node, depth int) {
	for _, n := range nodes {
		collapsed := n.kind == Dir && m.isCollapsed(n.path)
		entry := FlatEntry{
			Display: n.name,
			Path:    n.path,
			Kind:    n.kind,
			Depth:   depth,
		}
		if n.kind == Dir {
			entry.Collapsed = collapsed
			entry.Aggregated = aggregateStatuses(n)
			entry.HasComments = anyCommentsUnder(n, m.hasComments)
		} else {
			entry.Status = n.status
			entry.HasComments = m.hasComments[n.path]
		}
		m.flat = append(m.flat, entry)
		if n.kind == Dir && !collapsed {
			m.flattenInto(n.children, depth+1)
		}
	}
}

func aggregateStatuses(n *node) []gitengine.StatusVariant {
	seen := map[gitengine.StatusVariant]bool{}
	collectStatuses(n, seen)
	var out []gitengine.StatusVariant
	for _, v := range aggregatePriority {
		if seen[v] {
			out = append(out, v)
		}
	}
	return out
}

func collectStatuses(n *node, seen map[gitengine.StatusVariant]bool) {
	for _, c := range n.children {
		if c.kind == File {
			seen[c.status] = true
		} else {
			collectStatuses(c, seen)
		}
	}
}

func anyCommentsUnder(n *node, hasComments map[string]bool) bool {
	for _, c := range n.children {
		if c.kind == File {
			if hasComments[c.path] {
				return true
			}
		} else if anyCommentsUnder(c, hasComments) {
			return true
		}
	}
	return false
}

// buildTree splits each status entry's path on "/" and inserts it into
// a tree, sorting directories before files, alphabetically within each.
func buildTree(statuses []gitengine.StatusEntry) []*node {
	var root []*node
	for _, s := range statuses {
		parts := strings.Split(s.Path, "/")
		root = insert(root, parts, 0, s.Status)
	}
	sortTree(root)
	return root
}

func insert(nodes []*node, parts []string, idx int, status gitengine.StatusVariant) []*node {
	if idx >= len(parts) {
		return nodes
	}
	name := parts[idx]
	isLast := idx == len(parts)-1
	path := strings.Join(parts[:idx+1], "/")

	for _, n := range nodes {
		if n.name == name {
			if !isLast {
				n.children = insert(n.children, parts, idx+1, status)
			}
			return nodes
		}
	}

	n := &node{name: name, path: path, kind: Dir, status: gitengine.Unchanged}
	if isLast {
		n.kind = File
		n.status = status
	} else {
		n.children = insert(n.children, parts, idx+1, status)
	}
	return append(nodes, n)
}

func sortTree(nodes []*node) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if (a.kind == Dir) != (b.kind == Dir) {
			return a.kind == Dir
		}
		return a.name < b.name
	})
	for _, n := range nodes {
		sortTree(n.children)
	}
}
