package h2t

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// splitLine cuts line into pieces no wider than limit, breaking only
// between grapheme clusters. A single cluster wider than limit gets a piece
// of its own.
func splitLine(line TaggedLine, limit int) []TaggedLine {
	if limit < 1 {
		limit = 1
	}
	var (
		out   []TaggedLine
		cur   TaggedLine
		width int
	)
	for _, f := range line {
		rest := f.Text
		state := -1
		var cluster string
		for rest != "" {
			cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			// Widths are measured the way TaggedLine.Width measures them.
			w := displayWidth(cluster)
			if width > 0 && width+w > limit {
				out = append(out, cur)
				cur = nil
				width = 0
			}
			cur = cur.Append(cluster, f.Ann)
			width += w
		}
	}
	if len(cur) > 0 || len(out) == 0 {
		out = append(out, cur)
	}
	return out
}

// padLine pads line with spaces to width columns.
func padLine(line TaggedLine, width int) TaggedLine {
	w := line.Width()
	if w >= width {
		return line
	}
	return line.Append(strings.Repeat(" ", width-w), Annotation{})
}

// padText right-pads s to width columns.
func padText(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// expandTabs replaces tabs with spaces up to the next multiple of 8,
// counting columns from col.
func expandTabs(s string, col int) (string, int) {
	if !strings.ContainsRune(s, '\t') {
		return s, col + runewidth.StringWidth(s)
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String(), col
}

func repeatGlyph(glyph string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(glyph, n)
}
