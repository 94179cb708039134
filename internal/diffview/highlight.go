package diffview

import (
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colorizes one line of source content. Diff chrome (line
// numbers, prefixes, separators) never passes through it.
type Highlighter interface {
	Line(path, content string) string
}

// ChromaHighlighter is grounded on the pack's chroma-based terminal
// highlighter: lexer selection by filename, "monokai" style, ANSI
// terminal256 output. It is pure and re-entrant; no caching is applied
// since spec.md marks caching optional and lines are typically rendered
// once per view.
type ChromaHighlighter struct {
	Disabled bool // set from NO_COLOR
}

func (h ChromaHighlighter) Line(path, content string) string {
	if h.Disabled || content == "" {
		return content
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		return content
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return content
	}
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return content
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NoopHighlighter returns content unchanged; used for tests and NO_COLOR.
type NoopHighlighter struct{}

func (NoopHighlighter) Line(_, content string) string { return content }
