package h2t

import (
	"sort"
	"strings"
)

const verticalGlyph = "│"

// junctions is indexed by the arms present at a border crossing:
// up=1, down=2, left=4, right=8.
var junctions = [16]string{
	0:             " ",
	1:             "│",
	2:             "│",
	1 | 2:         "│",
	4:             "─",
	8:             "─",
	4 | 8:         "─",
	1 | 4:         "┘",
	1 | 8:         "└",
	2 | 4:         "┐",
	2 | 8:         "┌",
	1 | 2 | 4:     "┤",
	1 | 2 | 8:     "├",
	1 | 4 | 8:     "┴",
	2 | 4 | 8:     "┬",
	1 | 2 | 4 | 8: "┼",
}

func junctionGlyph(up, down, left, right bool) string {
	i := 0
	if up {
		i |= 1
	}
	if down {
		i |= 2
	}
	if left {
		i |= 4
	}
	if right {
		i |= 8
	}
	return junctions[i]
}

// gridCell is a cell placed on the table grid. Slots no cell covers are
// filled with cells whose node is nil.
type gridCell struct {
	node    *RenderNode
	row     int
	col     int
	colspan int
	rowspan int
	width   int
	lines   []TaggedLine
}

type tableGrid struct {
	rows  int
	cols  int
	cells []*gridCell
	owner [][]*gridCell
}

// buildGrid places the cells of table on a grid, honoring rowspans of
// earlier rows. The column count is the number of columns some cell starts
// in; spans reaching past the grid are clamped.
func (e *engine) buildGrid(table *RenderNode) *tableGrid {
	rows := table.Children
	if len(rows) == 0 {
		return nil
	}
	g := &tableGrid{rows: len(rows), owner: make([][]*gridCell, len(rows))}
	for r, row := range rows {
		c := 0
		for _, cell := range row.Children {
			for c < len(g.owner[r]) && g.owner[r][c] != nil {
				c++
			}
			rs := cell.Rowspan
			if rs <= 0 || rs > g.rows-r {
				if rs > g.rows-r {
					e.cfg.logf("h2t: rowspan %d clamped to %d", rs, g.rows-r)
				}
				rs = g.rows - r
			}
			// A span never covers a slot already taken by an earlier rowspan.
			cs := max(cell.Colspan, 1)
			for k := 1; k < cs; k++ {
				if c+k < len(g.owner[r]) && g.owner[r][c+k] != nil {
					cs = k
					break
				}
			}
			gc := &gridCell{node: cell, row: r, col: c, colspan: cs, rowspan: rs}
			g.cells = append(g.cells, gc)
			for rr := r; rr < r+rs; rr++ {
				for cc := c; cc < c+gc.colspan; cc++ {
					for len(g.owner[rr]) <= cc {
						g.owner[rr] = append(g.owner[rr], nil)
					}
					g.owner[rr][cc] = gc
				}
			}
			c += gc.colspan
		}
	}
	for _, gc := range g.cells {
		g.cols = max(g.cols, gc.col+1)
	}
	if g.cols == 0 {
		return nil
	}
	for _, gc := range g.cells {
		if gc.col+gc.colspan > g.cols {
			e.cfg.logf("h2t: colspan %d clamped to %d", gc.colspan, g.cols-gc.col)
			gc.colspan = g.cols - gc.col
		}
	}
	for r := range g.owner {
		row := g.owner[r]
		if len(row) > g.cols {
			row = row[:g.cols]
		}
		for len(row) < g.cols {
			row = append(row, nil)
		}
		for c := range row {
			if row[c] == nil {
				filler := &gridCell{row: r, col: c, colspan: 1, rowspan: 1}
				g.cells = append(g.cells, filler)
				row[c] = filler
			}
		}
		g.owner[r] = row
	}
	return g
}

// measure returns the minimum and preferred width of a cell's content.
func (e *engine) measure(n *RenderNode) cellSize {
	if n == nil {
		return cellSize{}
	}
	if s, ok := e.sizes[n]; ok {
		return s
	}
	e.measuring++
	s := cellSize{
		min:  maxLineWidth(e.layoutChildren(n, 1)),
		pref: maxLineWidth(e.layoutChildren(n, unbounded)),
	}
	e.measuring--
	s.pref = max(s.pref, s.min)
	e.sizes[n] = s
	return s
}

func maxLineWidth(lines []TaggedLine) int {
	w := 0
	for _, l := range lines {
		w = max(w, l.Width())
	}
	return w
}

// columnSizes computes per-column minimum and preferred widths. Spanning
// cells spread any excess over their columns in proportion to the
// preferred widths.
func (e *engine) columnSizes(g *tableGrid) (mins, prefs []int) {
	mins = make([]int, g.cols)
	prefs = make([]int, g.cols)
	var spanning []*gridCell
	for _, gc := range g.cells {
		if gc.node == nil {
			continue
		}
		if gc.colspan > 1 {
			spanning = append(spanning, gc)
			continue
		}
		s := e.measure(gc.node)
		mins[gc.col] = max(mins[gc.col], s.min)
		prefs[gc.col] = max(prefs[gc.col], s.pref)
	}
	sort.SliceStable(spanning, func(i, j int) bool {
		return spanning[i].colspan < spanning[j].colspan
	})
	for _, gc := range spanning {
		s := e.measure(gc.node)
		lo, hi := gc.col, gc.col+gc.colspan
		if have := sum(mins[lo:hi]) + gc.colspan - 1; s.min > have {
			for i, extra := range distribute(s.min-have, prefs[lo:hi]) {
				mins[lo+i] += extra
			}
		}
		if have := sum(prefs[lo:hi]) + gc.colspan - 1; s.pref > have {
			for i, extra := range distribute(s.pref-have, prefs[lo:hi]) {
				prefs[lo+i] += extra
			}
		}
	}
	for i := range prefs {
		prefs[i] = max(prefs[i], mins[i])
	}
	return mins, prefs
}

func sum(xs []int) int {
	t := 0
	for _, x := range xs {
		t += x
	}
	return t
}

// distribute splits total in proportion to weights by largest remainder.
// Ties go to the later index. Zero weights split evenly.
func distribute(total int, weights []int) []int {
	out := make([]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return out
	}
	w := sum(weights)
	if w <= 0 {
		weights = make([]int, len(weights))
		for i := range weights {
			weights[i] = 1
		}
		w = len(weights)
	}
	type rem struct {
		i int
		r int64
	}
	rems := make([]rem, len(weights))
	given := 0
	for i, wt := range weights {
		share := int64(total) * int64(wt)
		out[i] = int(share / int64(w))
		given += out[i]
		rems[i] = rem{i: i, r: share % int64(w)}
	}
	sort.SliceStable(rems, func(a, b int) bool {
		if rems[a].r != rems[b].r {
			return rems[a].r > rems[b].r
		}
		return rems[a].i > rems[b].i
	})
	for k := 0; given < total; k++ {
		out[rems[k%len(rems)].i]++
		given++
	}
	return out
}

// allocate assigns final column widths for a table of the given width.
func (e *engine) allocate(mins, prefs []int, width int) []int {
	n := len(mins)
	avail := width - (n - 1)
	if e.measuring > 0 && sum(prefs) <= avail {
		return append([]int(nil), prefs...)
	}
	if sum(mins) >= avail {
		return append([]int(nil), mins...)
	}
	widths := distribute(avail, prefs)
	deficit := 0
	for i := range widths {
		if widths[i] < mins[i] {
			deficit += mins[i] - widths[i]
			widths[i] = mins[i]
		}
	}
	for deficit > 0 {
		best, slack := -1, 0
		for i := range widths {
			if s := widths[i] - mins[i]; s > slack {
				best, slack = i, s
			}
		}
		if best < 0 {
			break
		}
		widths[best]--
		deficit--
	}
	return widths
}

func (e *engine) layoutTable(table *RenderNode, width int) []TaggedLine {
	g := e.buildGrid(table)
	if g == nil {
		return nil
	}
	mins, prefs := e.columnSizes(g)
	widths := e.allocate(mins, prefs, width)
	total := sum(widths) + g.cols - 1

	heights := make([]int, g.rows)
	for i := range heights {
		heights[i] = 1
	}
	var spanning []*gridCell
	for _, gc := range g.cells {
		gc.width = sum(widths[gc.col:gc.col+gc.colspan]) + gc.colspan - 1
		if gc.node != nil {
			gc.lines = e.layoutChildren(gc.node, max(gc.width, 1))
		}
		if gc.rowspan > 1 {
			spanning = append(spanning, gc)
			continue
		}
		heights[gc.row] = max(heights[gc.row], len(gc.lines))
	}
	sort.SliceStable(spanning, func(i, j int) bool {
		return spanning[i].rowspan < spanning[j].rowspan
	})
	for _, gc := range spanning {
		last := gc.row + gc.rowspan - 1
		have := sum(heights[gc.row:last+1]) + gc.rowspan - 1
		if len(gc.lines) > have {
			heights[last] += len(gc.lines) - have
		}
	}

	d := tableDrawer{g: g, widths: widths, heights: heights}
	var out []TaggedLine
	if table.Caption != nil {
		out = append(out, e.layoutChildren(table.Caption, max(total, 1))...)
	}
	out = append(out, d.separator(-1))
	for r := 0; r < g.rows; r++ {
		for i := 0; i < heights[r]; i++ {
			out = append(out, d.content(r, i))
		}
		out = append(out, d.separator(r))
	}
	return out
}

type tableDrawer struct {
	g       *tableGrid
	widths  []int
	heights []int
}

var borderAnn = Annotation{Role: RoleTableBorder}

// offset returns the index of the first line of row r within gc's lines.
// Each separator a cell straddles takes one line.
func (d *tableDrawer) offset(gc *gridCell, r int) int {
	off := 0
	for rr := gc.row; rr < r; rr++ {
		off += d.heights[rr] + 1
	}
	return off
}

func (d *tableDrawer) cellText(gc *gridCell, idx int) TaggedLine {
	if idx < len(gc.lines) {
		return padLine(gc.lines[idx].clone(), gc.width)
	}
	if gc.width == 0 {
		return nil
	}
	return TaggedLine{{Text: strings.Repeat(" ", gc.width)}}
}

func (d *tableDrawer) content(r, i int) TaggedLine {
	var line TaggedLine
	for c := 0; c < d.g.cols; {
		gc := d.g.owner[r][c]
		line = line.AppendLine(d.cellText(gc, d.offset(gc, r)+i))
		c = gc.col + gc.colspan
		if c < d.g.cols {
			line = line.Append(verticalGlyph, borderAnn)
		}
	}
	return line
}

// continues reports whether the cell at column c spans rows r and r+1.
func (d *tableDrawer) continues(r, c int) bool {
	return r >= 0 && r+1 < d.g.rows && d.g.owner[r][c] == d.g.owner[r+1][c]
}

// separator draws the border below row r; r == -1 is the top border.
func (d *tableDrawer) separator(r int) TaggedLine {
	var line TaggedLine
	for c := 0; c < d.g.cols; {
		if d.continues(r, c) {
			gc := d.g.owner[r][c]
			line = line.AppendLine(d.cellText(gc, d.offset(gc, r)+d.heights[r]))
			c = gc.col + gc.colspan
		} else {
			line = line.Append(repeatGlyph(ruleGlyph, d.widths[c]), borderAnn)
			c++
		}
		if c < d.g.cols {
			a, b := c-1, c
			up := r >= 0 && d.g.owner[r][a] != d.g.owner[r][b]
			down := r+1 < d.g.rows && d.g.owner[r+1][a] != d.g.owner[r+1][b]
			line = line.Append(junctionGlyph(up, down, !d.continues(r, a), !d.continues(r, b)), borderAnn)
		}
	}
	return line
}
