package h2t

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NodeKind selects the variant of a RenderNode.
type NodeKind uint8

const (
	KindText NodeKind = iota
	KindBlock
	KindInline
	KindList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindLink
	KindImage
	KindLineBreak
	KindHorizontalRule
	KindPreformatted
	KindBlockQuote
)

var kindNames = [...]string{
	KindText:           "text",
	KindBlock:          "block",
	KindInline:         "inline",
	KindList:           "list",
	KindListItem:       "list-item",
	KindTable:          "table",
	KindTableRow:       "table-row",
	KindTableCell:      "table-cell",
	KindLink:           "link",
	KindImage:          "image",
	KindLineBreak:      "line-break",
	KindHorizontalRule: "horizontal-rule",
	KindPreformatted:   "preformatted",
	KindBlockQuote:     "blockquote",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// StyleContext is the inherited style of a render node. It is extended by
// value on descent and never modified in place.
type StyleContext struct {
	Flags StyleFlags
	FG    Color
	BG    Color
	// Link is the target of the innermost enclosing link.
	Link      string
	Indent    int
	ListDepth int
}

// RenderNode is one node of the render tree. Which fields are meaningful
// depends on Kind:
//
//	Text          Text
//	Block         Children, Spaced
//	List          Children (items, after an optional unmarked Block), Ordered, Start
//	TableCell     Children, Colspan, Rowspan
//	Table         Children (rows), Caption
//	Link          Children, Target
//	Image         Alt
//	Preformatted  Children (text runs)
//
// Render trees are built once by Build and never modified afterwards.
type RenderNode struct {
	Kind     NodeKind
	Ctx      StyleContext
	Text     string
	Children []*RenderNode
	Ordered  bool
	Start    int
	Colspan  int
	Rowspan  int
	Target   string
	Alt      string
	Spaced   bool
	Caption  *RenderNode
}

// TagClass is the rendering class of an element.
type TagClass uint8

const (
	TagInline TagClass = iota
	TagBlock
	TagParagraph
	TagHeading
	TagBold
	TagItalic
	TagUnderline
	TagStrike
	TagCode
	TagFont
	TagLink
	TagUnorderedList
	TagOrderedList
	TagListItem
	TagTable
	TagRowGroup
	TagRow
	TagCell
	TagHeaderCell
	TagCaption
	TagImage
	TagLineBreak
	TagRule
	TagPreformatted
	TagQuote
	TagSuppress
)

var defaultTagClasses = map[string]TagClass{
	"html": TagBlock, "body": TagBlock,
	"div": TagBlock, "section": TagBlock, "article": TagBlock, "main": TagBlock,
	"header": TagBlock, "footer": TagBlock, "nav": TagBlock, "aside": TagBlock,
	"address": TagBlock, "figure": TagBlock, "figcaption": TagBlock,
	"center": TagBlock, "form": TagBlock, "fieldset": TagBlock,
	"details": TagBlock, "summary": TagBlock, "dl": TagBlock, "dt": TagBlock,
	"dd": TagBlock, "legend": TagBlock, "hgroup": TagBlock,

	"p": TagParagraph,

	"h1": TagHeading, "h2": TagHeading, "h3": TagHeading,
	"h4": TagHeading, "h5": TagHeading, "h6": TagHeading,

	"span": TagInline, "abbr": TagInline, "acronym": TagInline, "small": TagInline,
	"big": TagInline, "sub": TagInline, "sup": TagInline, "mark": TagInline,
	"label": TagInline, "q": TagInline, "bdi": TagInline, "bdo": TagInline,
	"time": TagInline, "data": TagInline, "nobr": TagInline,

	"b": TagBold, "strong": TagBold,
	"i": TagItalic, "em": TagItalic, "cite": TagItalic, "dfn": TagItalic, "var": TagItalic,
	"u": TagUnderline, "ins": TagUnderline,
	"s": TagStrike, "strike": TagStrike, "del": TagStrike,
	"code": TagCode, "kbd": TagCode, "samp": TagCode, "tt": TagCode,
	"font": TagFont,
	"a":    TagLink,

	"ul": TagUnorderedList, "menu": TagUnorderedList, "dir": TagUnorderedList,
	"ol": TagOrderedList,
	"li": TagListItem,

	"table": TagTable,
	"thead": TagRowGroup, "tbody": TagRowGroup, "tfoot": TagRowGroup,
	"tr":      TagRow,
	"td":      TagCell,
	"th":      TagHeaderCell,
	"caption": TagCaption,

	"img": TagImage,
	"br":  TagLineBreak,
	"hr":  TagRule,

	"pre": TagPreformatted, "listing": TagPreformatted,
	"xmp": TagPreformatted, "plaintext": TagPreformatted,

	"blockquote": TagQuote,

	"head": TagSuppress, "title": TagSuppress, "script": TagSuppress,
	"style": TagSuppress, "meta": TagSuppress, "link": TagSuppress,
	"base": TagSuppress, "template": TagSuppress, "noscript": TagSuppress,
	"wbr": TagSuppress,
}

const (
	maxColspan = 1000
	maxRowspan = 65534

	minListStart = -1 << 31
	maxListStart = 1<<31 - 1
)

var bullets = [...]string{"*", "-", "+"}

// Build converts a DOM tree into a render tree.
func Build(root Node, opts ...RenderOption) (*RenderNode, error) {
	cfg := newConfig(opts)
	return buildTree(root, &cfg)
}

func buildTree(root Node, cfg *renderConfig) (*RenderNode, error) {
	if root == nil {
		return nil, fmt.Errorf("build: %w", ErrNilRoot)
	}
	b := &builder{cfg: cfg, tags: defaultTagClasses}
	if len(cfg.overrides) > 0 {
		b.tags = cloneMap(defaultTagClasses)
		for tag, class := range cfg.overrides {
			b.tags[tag] = class
		}
	}
	n, err := b.root(root)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if n == nil {
		n = &RenderNode{Kind: KindBlock}
	}
	// Anonymous rows, cells and list blocks add levels the DOM walk does
	// not see.
	if err := checkDepth(n, cfg.maxDepth); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return n, nil
}

// root builds the top of the tree. A document root is level 0.
func (b *builder) root(n Node) (*RenderNode, error) {
	if n.Type() != DocumentNode {
		return b.node(n, StyleContext{}, 0)
	}
	kids, err := b.children(n, StyleContext{}, 0)
	if err != nil {
		return nil, err
	}
	return &RenderNode{Kind: KindBlock, Children: kids}, nil
}

type builder struct {
	cfg  *renderConfig
	tags map[string]TagClass
}

func (b *builder) class(tag string) (TagClass, bool) {
	if b.cfg.preserve[tag] {
		return TagPreformatted, true
	}
	c, ok := b.tags[tag]
	return c, ok
}

func (b *builder) node(n Node, ctx StyleContext, depth int) (*RenderNode, error) {
	switch n.Type() {
	case DocumentNode:
		// A document below the root counts as a level like an element.
		if depth+1 > b.cfg.maxDepth {
			return nil, ErrNestingTooDeep
		}
		kids, err := b.children(n, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		return &RenderNode{Kind: KindBlock, Ctx: ctx, Children: kids}, nil
	case TextNode:
		text := collapseText(n.Text())
		if text == "" {
			return nil, nil
		}
		return &RenderNode{Kind: KindText, Ctx: ctx, Text: text}, nil
	case ElementNode:
		return b.element(n, ctx, depth+1)
	default:
		return nil, nil
	}
}

func (b *builder) children(n Node, ctx StyleContext, depth int) ([]*RenderNode, error) {
	kids := n.Children()
	if len(kids) == 0 {
		return nil, nil
	}
	out := make([]*RenderNode, 0, len(kids))
	for _, kid := range kids {
		if kid == nil {
			continue
		}
		rn, err := b.node(kid, ctx, depth)
		if err != nil {
			return nil, err
		}
		if rn != nil {
			out = append(out, rn)
		}
	}
	return out, nil
}

func (b *builder) element(n Node, ctx StyleContext, depth int) (*RenderNode, error) {
	if depth > b.cfg.maxDepth {
		return nil, ErrNestingTooDeep
	}
	tag := n.Tag()
	class, known := b.class(tag)
	if !known {
		b.cfg.logf("h2t: unknown element <%s> rendered inline", tag)
	}
	if class == TagSuppress {
		return nil, nil
	}
	ctx = withStyleAttr(n, ctx)

	switch class {
	case TagBlock, TagParagraph, TagHeading, TagRowGroup, TagRow, TagCell, TagHeaderCell, TagCaption, TagListItem:
		// Table parts and list items outside their containers end up here
		// too; they degrade to plain blocks.
		spaced := class == TagParagraph || class == TagHeading
		if class == TagHeading || class == TagHeaderCell {
			ctx.Flags |= StyleBold
		}
		return b.container(KindBlock, n, ctx, depth, spaced)
	case TagBold:
		ctx.Flags |= StyleBold
	case TagItalic:
		ctx.Flags |= StyleItalic
	case TagUnderline:
		ctx.Flags |= StyleUnderline
	case TagStrike:
		ctx.Flags |= StyleStrike
	case TagCode:
		ctx.Flags |= StyleCode
	case TagFont:
		if v, ok := n.Attr("color"); ok {
			if c, ok := ParseColor(v); ok {
				ctx.FG = c
			}
		}
	case TagLink:
		if href, ok := n.Attr("href"); ok {
			href = strings.TrimSpace(href)
			ctx.Link = href
			rn, err := b.container(KindLink, n, ctx, depth, false)
			if err != nil {
				return nil, err
			}
			rn.Target = href
			return rn, nil
		}
	case TagUnorderedList, TagOrderedList:
		return b.list(n, ctx, depth, class == TagOrderedList)
	case TagTable:
		return b.table(n, ctx, depth)
	case TagImage:
		alt, _ := n.Attr("alt")
		alt = strings.TrimSpace(collapseText(alt))
		if alt == "" {
			return nil, nil
		}
		return &RenderNode{Kind: KindImage, Ctx: ctx, Alt: alt}, nil
	case TagLineBreak:
		return &RenderNode{Kind: KindLineBreak, Ctx: ctx}, nil
	case TagRule:
		return &RenderNode{Kind: KindHorizontalRule, Ctx: ctx}, nil
	case TagPreformatted:
		return b.preformatted(n, ctx, depth)
	case TagQuote:
		ctx.Indent++
		return b.container(KindBlockQuote, n, ctx, depth, true)
	}
	return b.container(KindInline, n, ctx, depth, false)
}

func (b *builder) container(kind NodeKind, n Node, ctx StyleContext, depth int, spaced bool) (*RenderNode, error) {
	kids, err := b.children(n, ctx, depth)
	if err != nil {
		return nil, err
	}
	return &RenderNode{Kind: kind, Ctx: ctx, Children: kids, Spaced: spaced}, nil
}

func (b *builder) list(n Node, ctx StyleContext, depth int, ordered bool) (*RenderNode, error) {
	list := &RenderNode{
		Kind:    KindList,
		Ctx:     ctx,
		Ordered: ordered,
		Start:   1,
		Spaced:  ctx.ListDepth == 0,
	}
	if ordered {
		if v, ok := n.Attr("start"); ok {
			if start, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				list.Start = min(max(start, minListStart), maxListStart)
			}
		}
	}
	inner := ctx
	inner.ListDepth++
	inner.Indent++
	// Content outside <li> never takes a marker. It continues the preceding
	// item, or forms an unmarked leading block before the first item.
	var loose *RenderNode
	for _, kid := range n.Children() {
		if kid == nil {
			continue
		}
		if kid.Type() == ElementNode {
			if class, _ := b.class(kid.Tag()); class == TagListItem {
				if depth+1 > b.cfg.maxDepth {
					return nil, ErrNestingTooDeep
				}
				item, err := b.container(KindListItem, kid, withStyleAttr(kid, inner), depth+1, false)
				if err != nil {
					return nil, err
				}
				list.Children = append(list.Children, item)
				loose = nil
				continue
			}
		}
		rn, err := b.node(kid, inner, depth)
		if err != nil {
			return nil, err
		}
		if rn == nil || isBlankText(rn) {
			continue
		}
		var prev *RenderNode
		if k := len(list.Children); k > 0 && list.Children[k-1].Kind == KindListItem {
			prev = list.Children[k-1]
		}
		if rn.Kind == KindList && prev != nil {
			prev.Children = append(prev.Children, rn)
			loose = nil
			continue
		}
		if loose == nil {
			loose = &RenderNode{Kind: KindBlock, Ctx: inner}
			if prev != nil {
				prev.Children = append(prev.Children, loose)
			} else {
				list.Children = append(list.Children, loose)
			}
		}
		loose.Children = append(loose.Children, rn)
	}
	return list, nil
}

func (b *builder) table(n Node, ctx StyleContext, depth int) (*RenderNode, error) {
	table := &RenderNode{Kind: KindTable, Ctx: ctx, Spaced: true}
	var anon *RenderNode
	addRow := func(row *RenderNode) {
		table.Children = append(table.Children, row)
		anon = nil
	}
	addStray := func(cell *RenderNode) {
		if anon == nil {
			anon = &RenderNode{Kind: KindTableRow, Ctx: ctx}
			table.Children = append(table.Children, anon)
		}
		anon.Children = append(anon.Children, cell)
	}
	var walk func(parent Node, depth int) error
	walk = func(parent Node, depth int) error {
		for _, kid := range parent.Children() {
			if kid == nil {
				continue
			}
			if kid.Type() == ElementNode {
				class, _ := b.class(kid.Tag())
				switch class {
				case TagRowGroup:
					if depth+1 > b.cfg.maxDepth {
						return ErrNestingTooDeep
					}
					if err := walk(kid, depth+1); err != nil {
						return err
					}
					continue
				case TagRow:
					row, err := b.row(kid, ctx, depth+1)
					if err != nil {
						return err
					}
					addRow(row)
					continue
				case TagCell, TagHeaderCell:
					cell, err := b.cell(kid, ctx, depth+1, class == TagHeaderCell)
					if err != nil {
						return err
					}
					addStray(cell)
					continue
				case TagCaption:
					if table.Caption == nil {
						capt, err := b.container(KindBlock, kid, withStyleAttr(kid, ctx), depth+1, false)
						if err != nil {
							return err
						}
						table.Caption = capt
					}
					continue
				}
			}
			rn, err := b.node(kid, ctx, depth)
			if err != nil {
				return err
			}
			if rn == nil || isBlankText(rn) {
				continue
			}
			addStray(&RenderNode{Kind: KindTableCell, Ctx: ctx, Children: []*RenderNode{rn}, Colspan: 1, Rowspan: 1})
		}
		return nil
	}
	if err := walk(n, depth); err != nil {
		return nil, err
	}
	return table, nil
}

func (b *builder) row(n Node, ctx StyleContext, depth int) (*RenderNode, error) {
	if depth > b.cfg.maxDepth {
		return nil, ErrNestingTooDeep
	}
	ctx = withStyleAttr(n, ctx)
	row := &RenderNode{Kind: KindTableRow, Ctx: ctx}
	var loose *RenderNode
	for _, kid := range n.Children() {
		if kid == nil {
			continue
		}
		if kid.Type() == ElementNode {
			if class, _ := b.class(kid.Tag()); class == TagCell || class == TagHeaderCell {
				cell, err := b.cell(kid, ctx, depth+1, class == TagHeaderCell)
				if err != nil {
					return nil, err
				}
				row.Children = append(row.Children, cell)
				loose = nil
				continue
			}
		}
		rn, err := b.node(kid, ctx, depth)
		if err != nil {
			return nil, err
		}
		if rn == nil || isBlankText(rn) {
			continue
		}
		if loose == nil {
			loose = &RenderNode{Kind: KindTableCell, Ctx: ctx, Colspan: 1, Rowspan: 1}
			row.Children = append(row.Children, loose)
		}
		loose.Children = append(loose.Children, rn)
	}
	return row, nil
}

func (b *builder) cell(n Node, ctx StyleContext, depth int, header bool) (*RenderNode, error) {
	if depth > b.cfg.maxDepth {
		return nil, ErrNestingTooDeep
	}
	ctx = withStyleAttr(n, ctx)
	if header {
		ctx.Flags |= StyleBold
	}
	cell, err := b.container(KindTableCell, n, ctx, depth, false)
	if err != nil {
		return nil, err
	}
	cell.Colspan = max(spanAttr(n, "colspan", 1, maxColspan), 1)
	cell.Rowspan = spanAttr(n, "rowspan", 1, maxRowspan)
	return cell, nil
}

// spanAttr reads a span attribute. Missing or malformed values yield def,
// negative values 1; the result never exceeds limit. Zero is returned as is.
func spanAttr(n Node, name string, def, limit int) int {
	v, ok := n.Attr(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	switch {
	case err != nil:
		return def
	case i < 0:
		return 1
	case i > limit:
		return limit
	}
	return i
}

func (b *builder) preformatted(n Node, ctx StyleContext, depth int) (*RenderNode, error) {
	pre := &RenderNode{Kind: KindPreformatted, Ctx: ctx, Spaced: true}
	var walk func(parent Node, ctx StyleContext, depth int) error
	walk = func(parent Node, ctx StyleContext, depth int) error {
		for _, kid := range parent.Children() {
			if kid == nil {
				continue
			}
			switch kid.Type() {
			case TextNode:
				text := preText(kid.Text())
				if text != "" {
					pre.Children = append(pre.Children, &RenderNode{Kind: KindText, Ctx: ctx, Text: text})
				}
			case ElementNode:
				if depth+1 > b.cfg.maxDepth {
					return ErrNestingTooDeep
				}
				inner := withStyleAttr(kid, ctx)
				class, _ := b.class(kid.Tag())
				switch class {
				case TagSuppress:
					continue
				case TagLineBreak:
					pre.Children = append(pre.Children, &RenderNode{Kind: KindText, Ctx: ctx, Text: "\n"})
					continue
				case TagBold:
					inner.Flags |= StyleBold
				case TagItalic:
					inner.Flags |= StyleItalic
				case TagUnderline:
					inner.Flags |= StyleUnderline
				case TagStrike:
					inner.Flags |= StyleStrike
				case TagCode:
					inner.Flags |= StyleCode
				case TagFont:
					if v, ok := kid.Attr("color"); ok {
						if c, ok := ParseColor(v); ok {
							inner.FG = c
						}
					}
				case TagLink:
					if href, ok := kid.Attr("href"); ok {
						inner.Link = strings.TrimSpace(href)
					}
				}
				if err := walk(kid, inner, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(n, ctx, depth); err != nil {
		return nil, err
	}
	if k := len(pre.Children); k > 0 {
		last := pre.Children[k-1]
		last.Text = strings.TrimSuffix(last.Text, "\n")
		if last.Text == "" {
			pre.Children = pre.Children[:k-1]
		}
	}
	return pre, nil
}

// withStyleAttr applies the color declarations of an inline style
// attribute.
func withStyleAttr(n Node, ctx StyleContext) StyleContext {
	style, ok := n.Attr("style")
	if !ok || style == "" {
		return ctx
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "color":
			if c, ok := ParseColor(value); ok {
				ctx.FG = c
			}
		case "background-color", "background":
			if c, ok := ParseColor(value); ok {
				ctx.BG = c
			}
		}
	}
	return ctx
}

func isBlankText(n *RenderNode) bool {
	return n.Kind == KindText && strings.TrimSpace(n.Text) == ""
}

func isCollapsible(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isStripped(r rune) bool {
	return !isCollapsible(r) && (unicode.IsControl(r) || r == '\ufeff')
}

// collapseText strips control characters, normalizes to NFC and collapses
// whitespace runs to one space. NBSP is not whitespace here.
func collapseText(s string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case isCollapsible(r):
			space = true
			continue
		case isStripped(r):
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return norm.NFC.String(sb.String())
}

// preText normalizes line endings and strips control characters other than
// tab and newline. Tabs are expanded at layout time.
func preText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if isStripped(r) {
			return -1
		}
		return r
	}, s)
}
