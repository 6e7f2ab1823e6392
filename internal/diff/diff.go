// Package diff classifies unified-diff patch lines for display. The
// classification is purely presentational and never alters stored patches.
package diff

import "strings"

// LineKind identifies how a patch line should be rendered.
type LineKind string

const (
	LineFileHeader LineKind = "file-header"
	LineHunk       LineKind = "hunk"
	LineAddition   LineKind = "addition"
	LineDeletion   LineKind = "deletion"
	LineContext    LineKind = "context"
)

// Line is one classified patch line, original text preserved.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// ClassifyPatch splits patch text into classified lines, preserving order.
// `+++`/`---` file headers are distinguished from `+`/`-` change lines, and
// `@@` marks a hunk header; everything else is context.
func ClassifyPatch(patch string) []Line {
	if patch == "" {
		return nil
	}

	raw := strings.Split(strings.TrimRight(patch, "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for _, text := range raw {
		lines = append(lines, Line{Kind: classify(text), Text: text})
	}
	return lines
}

func classify(text string) LineKind {
	switch {
	case strings.HasPrefix(text, "+++") || strings.HasPrefix(text, "---"):
		return LineFileHeader
	case strings.HasPrefix(text, "@@"):
		return LineHunk
	case strings.HasPrefix(text, "+"):
		return LineAddition
	case strings.HasPrefix(text, "-"):
		return LineDeletion
	default:
		return LineContext
	}
}
