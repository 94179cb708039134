// Package diffview renders a parsed unified diff plus PR line comments
// into a sequence of screen rows, maintaining a row-to-source line map
// so the UI can yank or open-in-editor at the row under the cursor.
package diffview

import "github.com/harlangreen/timecop/internal/forge"

// RowKind classifies a rendered row for styling.
type RowKind int

const (
	RowFileHeader RowKind = iota
	RowContext
	RowAdded
	RowRemoved
	RowChanged
	RowBinary
	RowCommentHeader
	RowCommentBody
	RowCommentFooter
)

// Row is one rendered line of the diff view. LeftNumber/RightNumber are
// zero when absent on that side; Text carries the content for
// single-column rows (headers, binary stanza, comment blocks, and
// unified-mode rows), LeftText/RightText for side-by-side rows.
type Row struct {
	Kind        RowKind
	LeftNumber  int
	RightNumber int
	LeftText    string
	RightText   string
	Text        string
}

// LineLocation anchors a rendered row back to its source position.
// Comment rows duplicate their anchor's location.
type LineLocation struct {
	Path string
	Line int
	Side forge.Side
}

// Mode selects side-by-side or unified rendering.
type Mode int

const (
	ModeSideBySide Mode = iota
	ModeUnified
)

// unifiedWidthThreshold is the render width below which the renderer
// auto-switches to unified mode absent an explicit user toggle.
const unifiedWidthThreshold = 100

// EffectiveMode applies the responsive auto-switch unless userOverride
// is set, per §4.6's width-based default.
func EffectiveMode(width int, userOverride *Mode) Mode {
	if userOverride != nil {
		return *userOverride
	}
	if width < unifiedWidthThreshold {
		return ModeUnified
	}
	return ModeSideBySide
}
