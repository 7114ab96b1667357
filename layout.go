package h2t

import (
	"fmt"
	"strconv"
	"strings"
)

// unbounded is the width used to measure preferred sizes.
const unbounded = 1 << 30

const (
	ruleGlyph   = "─"
	quotePrefix = "> "
)

// LayoutRequest configures Layout and Structure.
type LayoutRequest struct {
	Root    Node
	Width   int
	Options []RenderOption
}

// Footnote is one entry of the footnote reference list.
type Footnote struct {
	Index  int    `json:"index"`
	Target string `json:"target"`
}

// footnotes assigns reference indices in first-use order.
type footnotes struct {
	index map[string]int
	list  []Footnote
}

func (f *footnotes) ref(target string) int {
	if i, ok := f.index[target]; ok {
		return i
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	i := len(f.list) + 1
	f.index[target] = i
	f.list = append(f.list, Footnote{Index: i, Target: target})
	return i
}

// collect numbers the link targets of n in document order. Table cells are
// measured before they are drawn, so indices cannot be assigned lazily.
func (f *footnotes) collect(n *RenderNode) {
	switch n.Kind {
	case KindPreformatted:
		return
	case KindTable:
		if !hasCells(n) {
			return
		}
		if n.Caption != nil {
			f.collect(n.Caption)
		}
	}
	for _, kid := range n.Children {
		if kid != nil {
			f.collect(kid)
		}
	}
	if n.Kind == KindLink && n.Target != "" {
		f.ref(n.Target)
	}
}

func hasCells(table *RenderNode) bool {
	for _, row := range table.Children {
		if len(row.Children) > 0 {
			return true
		}
	}
	return false
}

type cellSize struct {
	min, pref int
}

type engine struct {
	cfg   *renderConfig
	notes *footnotes
	// measuring is non-zero while cell sizes are being measured.
	measuring int
	sizes     map[*RenderNode]cellSize
}

func newEngine(cfg *renderConfig) *engine {
	e := &engine{cfg: cfg, sizes: make(map[*RenderNode]cellSize)}
	if cfg.linkMode == LinkFootnote {
		e.notes = &footnotes{}
	}
	return e
}

// Layout builds the render tree for req.Root and lays it out.
func Layout(req LayoutRequest) ([]TaggedLine, error) {
	cfg := newConfig(req.Options)
	lines, _, err := layoutDocument(req.Root, req.Width, &cfg)
	return lines, err
}

// LayoutTree lays out a render tree. Trees nested deeper than the
// WithMaxDepth bound are rejected with ErrNestingTooDeep, as Build does.
func LayoutTree(tree *RenderNode, width int, opts ...RenderOption) ([]TaggedLine, error) {
	if tree == nil {
		return nil, fmt.Errorf("layout: %w", ErrNilRoot)
	}
	if width <= 0 {
		return nil, fmt.Errorf("layout: %w", ErrInvalidWidth)
	}
	cfg := newConfig(opts)
	if err := checkDepth(tree, cfg.maxDepth); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	e := newEngine(&cfg)
	return e.document(tree, width), nil
}

func layoutDocument(root Node, width int, cfg *renderConfig) ([]TaggedLine, []Footnote, error) {
	if width <= 0 {
		return nil, nil, fmt.Errorf("layout: %w", ErrInvalidWidth)
	}
	tree, err := buildTree(root, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("layout: %w", err)
	}
	e := newEngine(cfg)
	lines := e.document(tree, width)
	var notes []Footnote
	if e.notes != nil {
		notes = e.notes.list
	}
	return lines, notes, nil
}

// checkDepth reports ErrNestingTooDeep when a node with children sits more
// than limit levels below the root. Leaves and captions follow their parent.
func checkDepth(n *RenderNode, limit int) error {
	return checkLevel(n, 0, limit)
}

func checkLevel(n *RenderNode, level, limit int) error {
	if len(n.Children) == 0 && n.Caption == nil {
		return nil
	}
	if level > limit {
		return ErrNestingTooDeep
	}
	if n.Caption != nil {
		if err := checkLevel(n.Caption, level+1, limit); err != nil {
			return err
		}
	}
	for _, kid := range n.Children {
		if kid == nil {
			continue
		}
		if err := checkLevel(kid, level+1, limit); err != nil {
			return err
		}
	}
	return nil
}

// document lays out the whole tree followed by the footnote list.
func (e *engine) document(tree *RenderNode, width int) []TaggedLine {
	if e.notes != nil {
		e.notes.collect(tree)
	}
	lines := e.layout(tree, width)
	if e.notes == nil || len(e.notes.list) == 0 {
		return lines
	}
	if len(lines) > 0 {
		lines = append(lines, nil)
	}
	for _, note := range e.notes.list {
		lines = append(lines, e.footnoteLines(note, width)...)
	}
	return lines
}

func (e *engine) footnoteLines(note Footnote, width int) []TaggedLine {
	marker := "[" + strconv.Itoa(note.Index) + "] "
	ann := Annotation{Role: RoleFootnote, Link: note.Target}
	lb := newLineBuilder(width-displayWidth(marker), e.cfg.softWrap)
	lb.addText(note.Target, ann)
	body := lb.finish()
	return hangingPrefix(body, TaggedLine{{Text: marker, Ann: Annotation{Role: RoleFootnoteRef}}})
}

// layout is the pure layout(node, width) function.
func (e *engine) layout(n *RenderNode, width int) []TaggedLine {
	lb := newLineBuilder(width, e.cfg.softWrap)
	e.flow(lb, n)
	return lb.finish()
}

// layoutChildren lays out the children of n as one flow.
func (e *engine) layoutChildren(n *RenderNode, width int) []TaggedLine {
	lb := newLineBuilder(width, e.cfg.softWrap)
	for _, kid := range n.Children {
		e.flow(lb, kid)
	}
	return lb.finish()
}

func (e *engine) annotation(ctx StyleContext) Annotation {
	ann := Annotation{Style: ctx.Flags, FG: ctx.FG, BG: ctx.BG}
	if e.notes == nil {
		ann.Link = ctx.Link
	}
	return ann
}

func (e *engine) flow(lb *lineBuilder, n *RenderNode) {
	switch n.Kind {
	case KindText:
		lb.addText(n.Text, e.annotation(n.Ctx))
	case KindInline:
		for _, kid := range n.Children {
			e.flow(lb, kid)
		}
	case KindLink:
		for _, kid := range n.Children {
			e.flow(lb, kid)
		}
		if e.notes != nil && n.Target != "" {
			i := e.notes.ref(n.Target)
			ann := e.annotation(n.Ctx)
			ann.Role = RoleFootnoteRef
			lb.appendWord("["+strconv.Itoa(i)+"]", ann)
		}
	case KindImage:
		ann := e.annotation(n.Ctx)
		ann.Image = n.Alt
		ann.Role = RoleImage
		lb.appendWord("["+n.Alt+"]", ann)
	case KindLineBreak:
		lb.lineBreak()
	case KindBlock, KindListItem, KindTableRow, KindTableCell:
		lb.startBlock(n.Spaced)
		for _, kid := range n.Children {
			e.flow(lb, kid)
		}
		lb.endBlock(n.Spaced)
	case KindHorizontalRule:
		lb.startBlock(false)
		lb.addLines([]TaggedLine{e.rule(lb.width)})
		lb.endBlock(false)
	case KindPreformatted:
		lb.startBlock(n.Spaced)
		lb.addLines(e.preformatted(n))
		lb.endBlock(n.Spaced)
	case KindList:
		lb.startBlock(n.Spaced)
		lb.addLines(e.layoutList(n, lb.width))
		lb.endBlock(n.Spaced)
	case KindTable:
		lb.startBlock(n.Spaced)
		lb.addLines(e.layoutTable(n, lb.width))
		lb.endBlock(n.Spaced)
	case KindBlockQuote:
		lb.startBlock(n.Spaced)
		inner := e.layoutChildren(n, max(lb.width-displayWidth(quotePrefix), 1))
		lb.addLines(prefixLines(inner, quotePrefix, Annotation{Role: RoleQuote}))
		lb.endBlock(n.Spaced)
	}
}

func (e *engine) rule(width int) TaggedLine {
	// A rule stretches to fit; while measuring it contributes one column.
	if e.measuring > 0 {
		width = 1
	}
	return TaggedLine{{Text: repeatGlyph(ruleGlyph, width), Ann: Annotation{Role: RoleRule}}}
}

// preformatted splits the text runs of a <pre> into lines. Nothing is
// wrapped.
func (e *engine) preformatted(n *RenderNode) []TaggedLine {
	var (
		lines []TaggedLine
		cur   TaggedLine
		col   int
	)
	for _, run := range n.Children {
		ann := e.annotation(run.Ctx)
		ann.Role = RolePreformatted
		parts := strings.Split(run.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, cur)
				cur = nil
				col = 0
			}
			var text string
			text, col = expandTabs(part, col)
			cur = cur.Append(text, ann)
		}
	}
	if len(n.Children) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// prefixLines prefixes every non-blank line with prefix.
func prefixLines(lines []TaggedLine, prefix string, ann Annotation) []TaggedLine {
	out := make([]TaggedLine, len(lines))
	for i, l := range lines {
		if len(l) == 0 {
			out[i] = TaggedLine{{Text: strings.TrimRight(prefix, " "), Ann: ann}}
			continue
		}
		out[i] = TaggedLine{{Text: prefix, Ann: ann}}.AppendLine(l)
	}
	return out
}

// hangingPrefix puts first before the first line and pads the rest to the
// same width. Blank lines stay blank; no lines yield first alone.
func hangingPrefix(lines []TaggedLine, first TaggedLine) []TaggedLine {
	if len(lines) == 0 {
		bare := first.clone()
		if n := len(bare); n > 0 {
			bare[n-1].Text = strings.TrimRight(bare[n-1].Text, " ")
		}
		return []TaggedLine{bare}
	}
	pad := strings.Repeat(" ", first.Width())
	out := make([]TaggedLine, len(lines))
	for i, l := range lines {
		switch {
		case i == 0 && len(l) == 0:
			bare := first.clone()
			bare[len(bare)-1].Text = strings.TrimRight(bare[len(bare)-1].Text, " ")
			out[i] = bare
		case i == 0:
			out[i] = first.clone().AppendLine(l)
		case len(l) == 0:
			out[i] = nil
		default:
			out[i] = TaggedLine{{Text: pad}}.AppendLine(l)
		}
	}
	return out
}

// Rewrap re-flows lines to width. Lines that already fit are kept as they
// are; wider lines are broken at spaces. Re-wrapping the output of Layout at
// its own width returns it unchanged unless a line overflows with more than
// one word.
func Rewrap(lines []TaggedLine, width int, opts ...RenderOption) ([]TaggedLine, error) {
	if width <= 0 {
		return nil, fmt.Errorf("rewrap: %w", ErrInvalidWidth)
	}
	cfg := newConfig(opts)
	out := make([]TaggedLine, 0, len(lines))
	for _, l := range lines {
		if l.Width() <= width {
			out = append(out, l.clone())
			continue
		}
		lb := newLineBuilder(width, cfg.softWrap)
		for _, f := range l {
			lb.addText(f.Text, f.Ann)
		}
		out = append(out, lb.finish()...)
	}
	return out, nil
}
