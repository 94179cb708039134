package diffview

import (
	"fmt"
	"log"
	"strings"

	"github.com/harlangreen/timecop/internal/forge"
)

// Render turns parsed files into rows plus a parallel line-map, applying
// syntax highlighting and overlaying PR line comments after the diff row
// that introduces the anchored line.
func Render(files []File, comments map[string][]forge.LineComment, width int, mode Mode, hl Highlighter) ([]Row, []LineLocation) {
	var rows []Row
	var locs []LineLocation
	seen := map[string]bool{}

	for _, f := range files {
		rows = append(rows, Row{Kind: RowFileHeader, Text: headerText(f)})
		locs = append(locs, LineLocation{})

		if f.Binary {
			rows = append(rows, Row{Kind: RowBinary, Text: f.BinaryLine})
			locs = append(locs, LineLocation{Path: f.Path()})
			continue
		}

		for _, h := range f.Hunks {
			var hunkRows []Row
			var hunkLocs []LineLocation
			if mode == ModeUnified {
				hunkRows, hunkLocs = unifiedRows(h, f.Path(), hl)
			} else {
				hunkRows, hunkLocs = sideBySideRows(h, f.Path(), hl)
			}
			for i, row := range hunkRows {
				rows = append(rows, row)
				loc := hunkLocs[i]
				locs = append(locs, loc)
				appendComments(&rows, &locs, f.Path(), loc, comments, width, seen)
				if row.Kind == RowChanged {
					// A paired row also carries an old-side line.
					oldLoc := LineLocation{Path: f.Path(), Line: row.LeftNumber, Side: forge.Old}
					appendComments(&rows, &locs, f.Path(), oldLoc, comments, width, seen)
				}
			}
		}
	}
	logUnanchoredComments(comments, seen)
	return rows, locs
}

// logUnanchoredComments reports, per §9's open question on deleted-line
// anchors, any comment whose (line, side) never matched an emitted row.
// These are not dropped silently; they simply don't appear inline.
func logUnanchoredComments(comments map[string][]forge.LineComment, seen map[string]bool) {
	for path, cs := range comments {
		for _, c := range cs {
			key := fmt.Sprintf("%s\x00%d\x00%s", path, c.Line, c.Side.String())
			if !seen[key] {
				log.Printf("debug: comment on %s:%d (%s) has no matching diff row, not rendered inline", path, c.Line, c.Side)
			}
		}
	}
}

func headerText(f File) string {
	switch {
	case f.NewFile:
		return fmt.Sprintf("+++ new file: %s", f.Path())
	case f.DeletedFile:
		return fmt.Sprintf("--- deleted: %s", f.OldPath)
	case f.OldPath != f.NewPath && f.OldPath != "" && f.NewPath != "":
		return fmt.Sprintf("%s -> %s", f.OldPath, f.NewPath)
	default:
		return f.Path()
	}
}

// sideBySideRows implements §4.6's run-pairing: consume a run of `-`
// lines then the immediately following run of `+` lines, emitting
// max(len(removals), len(additions)) paired rows.
func sideBySideRows(h Hunk, path string, hl Highlighter) ([]Row, []LineLocation) {
	var rows []Row
	var locs []LineLocation
	oldNum, newNum := h.OldStart, h.NewStart
	lines := h.Lines
	i := 0
	for i < len(lines) {
		switch lines[i].kind {
		case lineContext:
			text := lines[i].text
			rows = append(rows, Row{
				Kind:        RowContext,
				LeftNumber:  oldNum,
				RightNumber: newNum,
				LeftText:    hl.Line(path, text),
				RightText:   hl.Line(path, text),
			})
			locs = append(locs, LineLocation{Path: path, Line: newNum, Side: forge.New})
			oldNum++
			newNum++
			i++
		case lineRemove:
			var removals, additions []string
			for i < len(lines) && lines[i].kind == lineRemove {
				removals = append(removals, lines[i].text)
				i++
			}
			for i < len(lines) && lines[i].kind == lineAdd {
				additions = append(additions, lines[i].text)
				i++
			}
			n := len(removals)
			if len(additions) > n {
				n = len(additions)
			}
			for j := 0; j < n; j++ {
				row := Row{Kind: RowRemoved}
				var loc LineLocation
				if j < len(removals) {
					row.LeftNumber = oldNum
					row.LeftText = hl.Line(path, removals[j])
					loc = LineLocation{Path: path, Line: oldNum, Side: forge.Old}
					oldNum++
				}
				if j < len(additions) {
					row.RightNumber = newNum
					row.RightText = hl.Line(path, additions[j])
					// A row with a new-side line anchors comment lookup on the
					// new side even when it also carries a removal.
					loc = LineLocation{Path: path, Line: newNum, Side: forge.New}
					newNum++
				}
				switch {
				case row.LeftNumber != 0 && row.RightNumber != 0:
					row.Kind = RowChanged
				case row.RightNumber != 0:
					row.Kind = RowAdded
				}
				rows = append(rows, row)
				locs = append(locs, loc)
			}
		case lineAdd:
			var additions []string
			for i < len(lines) && lines[i].kind == lineAdd {
				additions = append(additions, lines[i].text)
				i++
			}
			for _, a := range additions {
				rows = append(rows, Row{Kind: RowAdded, RightNumber: newNum, RightText: hl.Line(path, a)})
				locs = append(locs, LineLocation{Path: path, Line: newNum, Side: forge.New})
				newNum++
			}
		}
	}
	return rows, locs
}

// unifiedRows emits one row per diff line, forgoing the removal/addition
// pairing side-by-side mode performs.
func unifiedRows(h Hunk, path string, hl Highlighter) ([]Row, []LineLocation) {
	var rows []Row
	var locs []LineLocation
	oldNum, newNum := h.OldStart, h.NewStart
	for _, l := range h.Lines {
		text := hl.Line(path, l.text)
		switch l.kind {
		case lineContext:
			rows = append(rows, Row{Kind: RowContext, RightNumber: newNum, Text: text})
			locs = append(locs, LineLocation{Path: path, Line: newNum, Side: forge.New})
			oldNum++
			newNum++
		case lineAdd:
			rows = append(rows, Row{Kind: RowAdded, RightNumber: newNum, Text: text})
			locs = append(locs, LineLocation{Path: path, Line: newNum, Side: forge.New})
			newNum++
		case lineRemove:
			rows = append(rows, Row{Kind: RowRemoved, LeftNumber: oldNum, Text: text})
			locs = append(locs, LineLocation{Path: path, Line: oldNum, Side: forge.Old})
			oldNum++
		}
	}
	return rows, locs
}

// appendComments overlays any comments anchored at loc, in the priority
// order new-side then old-side, deduped by (path, line, side) so a
// comment renders exactly once even if its anchor line is revisited.
func appendComments(rows *[]Row, locs *[]LineLocation, path string, loc LineLocation, comments map[string][]forge.LineComment, width int, seen map[string]bool) {
	if loc.Line == 0 {
		return
	}
	for _, c := range comments[path] {
		if c.Line != loc.Line || c.Side != loc.Side {
			continue
		}
		key := fmt.Sprintf("%s\x00%d\x00%s", path, c.Line, c.Side.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		emitCommentBlock(rows, locs, path, loc, c, width)
	}
}

func emitCommentBlock(rows *[]Row, locs *[]LineLocation, path string, loc LineLocation, c forge.LineComment, width int) {
	indent := 2
	wrapWidth := width - indent
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	*rows = append(*rows, Row{Kind: RowCommentHeader, Text: fmt.Sprintf("┌─ %s", c.Author)})
	*locs = append(*locs, loc)
	for _, body := range wrapText(c.Body, wrapWidth) {
		*rows = append(*rows, Row{Kind: RowCommentBody, Text: body})
		*locs = append(*locs, loc)
	}
	*rows = append(*rows, Row{Kind: RowCommentFooter, Text: "└─"})
	*locs = append(*locs, loc)
}

// wrapText hard-wraps text at word boundaries to at most maxWidth
// characters per line, splitting words longer than maxWidth.
func wrapText(text string, maxWidth int) []string {
	if text == "" {
		return []string{""}
	}
	var lines []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		for len(word) > maxWidth {
			lines = append(lines, word[:maxWidth])
			word = word[maxWidth:]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= maxWidth:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// SelectedLocation returns the new-side line when available and falls
// back to the old-side line, per §4.6's get_selected_location contract.
func SelectedLocation(locs []LineLocation, cursor int) (path string, line int) {
	if cursor < 0 || cursor >= len(locs) {
		return "", 0
	}
	loc := locs[cursor]
	return loc.Path, loc.Line
}
