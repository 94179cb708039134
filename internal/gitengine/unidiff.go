package gitengine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// lineOp tags one line of a line-level edit script.
type lineOp int

const (
	opEqual lineOp = iota
	opDelete
	opInsert
)

type lineEdit struct {
	op   lineOp
	text string
}

// diffLines computes a line-level edit script between two texts using
// diffmatchpatch's documented line-mode recipe (DiffLinesToChars then
// DiffMain then DiffCharsToLines): each line is encoded as one rune so
// the underlying Myers search runs over lines instead of characters.
// This is the same line-diff library go-git itself depends on to build
// object.Patch; it's used directly here because the Wip/Full positions
// diff a tree against on-disk working directory content, which isn't a
// git tree object and so can't go through Tree.Patch/Change.Patch.
func diffLines(a, b []string) []lineEdit {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(strings.Join(a, "\n"), strings.Join(b, "\n"))
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var edits []lineEdit
	for _, d := range diffs {
		var op lineOp
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = opDelete
		case diffmatchpatch.DiffInsert:
			op = opInsert
		default:
			op = opEqual
		}
		for _, line := range splitLines(d.Text) {
			edits = append(edits, lineEdit{op: op, text: line})
		}
	}
	return edits
}

const hunkContext = 3

// formatFileDiff renders one file's unified diff given its edit script
// and the old/new path names, matching git's textual conventions
// (diff --git, ---/+++, @@ hunks).
func formatFileDiff(oldPath, newPath string, edits []lineEdit, newFile, deletedFile bool) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "diff --git a/%s b/%s\n", oldPath, newPath)
	switch {
	case newFile:
		fmt.Fprintf(&buf, "new file mode 100644\n--- /dev/null\n+++ b/%s\n", newPath)
	case deletedFile:
		fmt.Fprintf(&buf, "deleted file mode 100644\n--- a/%s\n+++ /dev/null\n", oldPath)
	default:
		fmt.Fprintf(&buf, "--- a/%s\n+++ b/%s\n", oldPath, newPath)
	}

	for _, h := range hunksFromEdits(edits) {
		writeHunk(&buf, h)
	}
	return buf.Bytes()
}

type hunk struct {
	oldStart, oldLines int
	newStart, newLines int
	body               []lineEdit
}

// hunksFromEdits groups an edit script into hunks separated by runs of
// more than 2*hunkContext unchanged lines, the same windowing unified
// diff tooling uses.
func hunksFromEdits(edits []lineEdit) []hunk {
	var hunks []hunk
	oldLine, newLine := 1, 1

	i := 0
	for i < len(edits) {
		if edits[i].op == opEqual {
			i++
			oldLine++
			newLine++
			continue
		}

		start := i
		for start > 0 && edits[start-1].op == opEqual && i-start < hunkContext {
			start--
		}
		end := i
		for end < len(edits) {
			if edits[end].op != opEqual {
				end++
				continue
			}
			run := 0
			for end+run < len(edits) && edits[end+run].op == opEqual {
				run++
			}
			if run > 2*hunkContext || end+run >= len(edits) {
				end += min(run, hunkContext)
				break
			}
			end += run
		}

		hOldStart := oldLine
		hNewStart := newLine
		for k := start; k < i; k++ {
			hOldStart--
			hNewStart--
		}
		body := edits[start:end]
		oldLines, newLines := 0, 0
		for _, e := range body {
			switch e.op {
			case opEqual:
				oldLines++
				newLines++
			case opDelete:
				oldLines++
			case opInsert:
				newLines++
			}
		}
		hunks = append(hunks, hunk{
			oldStart: hOldStart, oldLines: oldLines,
			newStart: hNewStart, newLines: newLines,
			body: body,
		})

		for k := i; k < end; k++ {
			switch edits[k].op {
			case opEqual:
				oldLine++
				newLine++
			case opDelete:
				oldLine++
			case opInsert:
				newLine++
			}
		}
		i = end
	}
	return hunks
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func writeHunk(buf *bytes.Buffer, h hunk) {
	fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldLines, h.newStart, h.newLines)
	for _, e := range h.body {
		switch e.op {
		case opEqual:
			buf.WriteByte(' ')
		case opDelete:
			buf.WriteByte('-')
		case opInsert:
			buf.WriteByte('+')
		}
		buf.WriteString(e.text)
		buf.WriteByte('\n')
	}
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

const truncationCeiling = 10000

// truncationSentinel is appended verbatim, per the spec, when a diff
// exceeds the line ceiling.
const truncationSentinel = "\n[truncated - showing first 10000 lines]\n"

func truncateDiff(b []byte) []byte {
	lines := bytes.Split(b, []byte("\n"))
	if len(lines) <= truncationCeiling {
		return b
	}
	lines = lines[:truncationCeiling]
	out := bytes.Join(lines, []byte("\n"))
	return append(out, []byte(truncationSentinel)...)
}
