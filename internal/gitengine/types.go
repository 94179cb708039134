package gitengine

import "fmt"

// StatusVariant is the closed set of per-path status values.
type StatusVariant int

const (
	Unchanged StatusVariant = iota
	Modified
	Added
	Deleted
	Renamed
	Untracked
)

func (s StatusVariant) String() string {
	switch s {
	case Modified:
		return "M"
	case Added:
		return "A"
	case Deleted:
		return "D"
	case Renamed:
		return "R"
	case Untracked:
		return "?"
	default:
		return " "
	}
}

// StatusEntry is a single repository-relative path with its variant.
// Entries are identified by Path; lists are ordered by Path.
type StatusEntry struct {
	Path   string
	Status StatusVariant
}

// PositionKind is the closed set of timeline coordinates (§3).
type PositionKind int

const (
	Wip PositionKind = iota
	Full
	CommitOffsetKind
	Browse
	Docs
)

// Position is a single point on the timeline. Use the constructors
// below rather than building one by hand; CommitOffsetAt enforces n≥1.
type Position struct {
	Kind PositionKind
	N    int
}

func WipPosition() Position   { return Position{Kind: Wip} }
func FullPosition() Position  { return Position{Kind: Full} }
func BrowsePosition() Position { return Position{Kind: Browse} }
func DocsPosition() Position  { return Position{Kind: Docs} }

// CommitOffsetAt builds a CommitOffset(n) position. n must be ≥ 1;
// callers validate against FirstParentDepth before navigating here.
func CommitOffsetAt(n int) Position {
	if n < 1 {
		n = 1
	}
	return Position{Kind: CommitOffsetKind, N: n}
}

func (p Position) String() string {
	switch p.Kind {
	case Wip:
		return "wip"
	case Full:
		return "full"
	case CommitOffsetKind:
		return fmt.Sprintf("commit-%d", p.N)
	case Browse:
		return "browse"
	case Docs:
		return "docs"
	default:
		return "unknown"
	}
}

// ScopeKind selects how much of a position's diff to produce.
type ScopeKind int

const (
	ScopeWhole ScopeKind = iota
	ScopePath
	ScopePrefix
)

// Scope narrows a diff request to a single file, a folder prefix, or
// the whole position.
type Scope struct {
	Kind ScopeKind
	Path string
}

func WholeScope() Scope            { return Scope{Kind: ScopeWhole} }
func PathScope(p string) Scope     { return Scope{Kind: ScopePath, Path: p} }
func PrefixScope(p string) Scope   { return Scope{Kind: ScopePrefix, Path: p} }

// BranchRef names the resolved base branch, remembering whether it was
// found on the remote (preferred) or locally, since the two resolve to
// different go-git reference namespaces.
type BranchRef struct {
	Name   string // short name, e.g. "main"
	Remote bool   // true when resolved as origin/<Name>
}

func (b BranchRef) String() string {
	if b.Remote {
		return "origin/" + b.Name
	}
	return b.Name
}

// Stats is the added/removed line-count summary for a position.
type Stats struct {
	Added   int
	Removed int
}
