package diffview

import (
	"strconv"
	"strings"
)

type lineKind int

const (
	lineContext lineKind = iota
	lineAdd
	lineRemove
)

type hunkLine struct {
	kind lineKind
	text string
}

// Hunk is one `@@ ... @@` block with its constituent lines.
type Hunk struct {
	OldStart int
	NewStart int
	Lines    []hunkLine
}

// File is one `diff --git` stanza: a header plus either hunks or a
// binary marker.
type File struct {
	OldPath     string
	NewPath     string
	NewFile     bool
	DeletedFile bool
	Binary      bool
	BinaryLine  string
	Hunks       []Hunk
}

// Path is the path line comments should key on: the new path, falling
// back to the old path for deletions (renames already resolve to the
// new path via NewPath).
func (f File) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Parse reads a unified-diff byte stream produced by the status/diff
// engine into a sequence of per-file stanzas.
func Parse(data []byte) []File {
	lines := strings.Split(string(data), "\n")
	var files []File
	var cur *File

	flush := func() {
		if cur != nil {
			files = append(files, *cur)
			cur = nil
		}
	}

	var hunk *Hunk
	flushHunk := func() {
		if hunk != nil {
			cur.Hunks = append(cur.Hunks, *hunk)
			hunk = nil
		}
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushHunk()
			flush()
			cur = &File{}
			cur.OldPath, cur.NewPath = parseDiffGitLine(line)
		case cur == nil:
			continue
		case strings.HasPrefix(line, "new file mode"):
			cur.NewFile = true
		case strings.HasPrefix(line, "deleted file mode"):
			cur.DeletedFile = true
		case strings.HasPrefix(line, "--- "):
			cur.OldPath = pathFromHeader(line[4:], cur.OldPath)
		case strings.HasPrefix(line, "+++ "):
			cur.NewPath = pathFromHeader(line[4:], cur.NewPath)
		case strings.HasPrefix(line, "index "):
			// no-op: blob hashes carry no rendering-relevant information.
		case strings.Contains(line, "Binary files ") && strings.HasSuffix(line, "differ"):
			cur.Binary = true
			cur.BinaryLine = line
		case strings.HasPrefix(line, "@@"):
			flushHunk()
			oldStart, newStart, ok := parseHunkHeader(line)
			if ok {
				hunk = &Hunk{OldStart: oldStart, NewStart: newStart}
			}
		case hunk != nil && strings.HasPrefix(line, "+"):
			hunk.Lines = append(hunk.Lines, hunkLine{kind: lineAdd, text: line[1:]})
		case hunk != nil && strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, hunkLine{kind: lineRemove, text: line[1:]})
		case hunk != nil && strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, hunkLine{kind: lineContext, text: line[1:]})
		}
	}
	flushHunk()
	flush()
	return files
}

func parseDiffGitLine(line string) (oldPath, newPath string) {
	// "diff --git a/<old> b/<new>"
	rest := strings.TrimPrefix(line, "diff --git ")
	idx := strings.Index(rest, " b/")
	if idx < 0 {
		return "", ""
	}
	oldPath = strings.TrimPrefix(rest[:idx], "a/")
	newPath = rest[idx+3:]
	return oldPath, newPath
}

func pathFromHeader(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "/dev/null" {
		return fallback
	}
	for _, prefix := range []string{"a/", "b/"} {
		if strings.HasPrefix(raw, prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}

// parseHunkHeader extracts the old and new start line numbers from
// "@@ -a,b +c,d @@" (the count fields are not needed for rendering).
func parseHunkHeader(line string) (oldStart, newStart int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, false
	}
	oldStart, ok1 := parseRange(fields[1], "-")
	newStart, ok2 := parseRange(fields[2], "+")
	return oldStart, newStart, ok1 && ok2
}

func parseRange(field, prefix string) (int, bool) {
	field = strings.TrimPrefix(field, prefix)
	parts := strings.SplitN(field, ",", 2)
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
