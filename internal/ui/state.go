package ui

// Focus is the closed set of focusable panes.
type Focus int

const (
	FocusFiles Focus = iota
	FocusPreview
	FocusPrList
)

// ModalKind is the closed set of overlays; at most one is visible.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalHelp
	ModalInput
)

// Row is one already-formatted line in a scrollable pane, with the
// cursor/selection state the renderer needs to highlight it.
type Row struct {
	Text     string
	Selected bool
}

// State is everything App Core computes for one render pass. Every
// field is plain data; this package owns no state of its own.
type State struct {
	Width, Height int
	Focus         Focus
	NoColor       bool

	Branch        string
	Timeline      string // pre-composed glyph string, current position already marked
	Mode          string // "side-by-side" | "unified"
	FileCount     int
	Added         int
	Removed       int
	PRIndicator   string
	StatusMessage string
	IsError       bool

	TreeTitle string
	TreeRows  []Row

	PreviewTitle string
	PreviewRows  []Row

	PrListTitle string
	PrListRows  []Row

	Modal      ModalKind
	ModalTitle string
	ModalBody  string
}
