package h2t

import (
	"bufio"
	"io"
	"strings"

	"pkt.systems/h2t/internal/palette"
)

// Sink receives laid-out lines.
type Sink interface {
	WriteLine(TaggedLine) error
	Flush() error
}

func visibleText(s string) string {
	if !strings.Contains(s, "\u00a0") {
		return s
	}
	return strings.ReplaceAll(s, "\u00a0", " ")
}

func bufferedWriter(w io.Writer) *bufio.Writer {
	if bw, ok := w.(*bufio.Writer); ok {
		return bw
	}
	return bufio.NewWriter(w)
}

// PlainSink writes lines without any annotations.
type PlainSink struct {
	w *bufio.Writer
}

// NewPlainSink returns a sink writing plain text to w.
func NewPlainSink(w io.Writer) *PlainSink {
	return &PlainSink{w: bufferedWriter(w)}
}

func (s *PlainSink) WriteLine(line TaggedLine) error {
	for _, f := range line {
		if _, err := s.w.WriteString(visibleText(f.Text)); err != nil {
			return err
		}
	}
	return s.w.WriteByte('\n')
}

func (s *PlainSink) Flush() error {
	return s.w.Flush()
}

type spanKind uint8

const (
	spanSGR spanKind = iota
	spanOSC8
)

type spanEntry struct {
	kind spanKind
	key  string
	seq  string
}

// DecoratedSink writes lines with ANSI styles and optional OSC 8 links.
// Spans are tracked on a stack and every line ends with all spans closed.
type DecoratedSink struct {
	w      *bufio.Writer
	styles Styles
	osc8   bool
	colors *colorCache

	stack []spanEntry
	want  []spanEntry
}

// NewDecoratedSink returns a sink styling lines with theme. The color mode
// and OSC 8 support are taken from opts.
func NewDecoratedSink(w io.Writer, theme Theme, opts ...RenderOption) *DecoratedSink {
	cfg := newConfig(opts)
	return newDecoratedSink(w, theme, &cfg)
}

func newDecoratedSink(w io.Writer, theme Theme, cfg *renderConfig) *DecoratedSink {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &DecoratedSink{
		w:      bufferedWriter(w),
		styles: theme.Styles(cfg.colorMode),
		osc8:   cfg.osc8,
		colors: newColorCache(cfg.colorMode),
	}
}

func (s *DecoratedSink) roleStyle(r Role) Style {
	switch r {
	case RoleListMarker:
		return s.styles.ListMarker
	case RoleQuote:
		return s.styles.Quote
	case RoleTableBorder:
		return s.styles.Border
	case RoleRule:
		return s.styles.Rule
	case RoleFootnoteRef:
		return s.styles.FootnoteRef
	case RoleFootnote:
		return s.styles.Footnote
	case RolePreformatted:
		return s.styles.Pre
	case RoleImage:
		return s.styles.Image
	}
	return Style{}
}

// spans lists the spans a fragment needs, outermost first.
func (s *DecoratedSink) spans(ann Annotation) []spanEntry {
	want := s.want[:0]
	add := func(key string, st Style) {
		if st.Prefix != "" {
			want = append(want, spanEntry{kind: spanSGR, key: key, seq: st.Prefix})
		}
	}
	if s.osc8 && ann.Link != "" {
		want = append(want, spanEntry{kind: spanOSC8, key: ann.Link, seq: osc8Start + ann.Link + "\x1b\\"})
	}
	add("text", s.styles.Text)
	if ann.Role != RoleNone {
		add("role:"+ann.Role.String(), s.roleStyle(ann.Role))
	}
	if ann.Link != "" {
		add("link", s.styles.Link)
	}
	if ann.Style.Has(StyleBold) {
		add("bold", s.styles.Strong)
	}
	if ann.Style.Has(StyleItalic) {
		add("italic", s.styles.Emphasis)
	}
	if ann.Style.Has(StyleUnderline) {
		add("underline", s.styles.Underline)
	}
	if ann.Style.Has(StyleStrike) {
		add("strike", s.styles.Strike)
	}
	if ann.Style.Has(StyleCode) {
		add("code", s.styles.Code)
	}
	if seq := s.colors.sequence(ann.FG, false); seq != "" {
		want = append(want, spanEntry{kind: spanSGR, key: "fg" + ann.FG.Hex(), seq: seq})
	}
	if seq := s.colors.sequence(ann.BG, true); seq != "" {
		want = append(want, spanEntry{kind: spanSGR, key: "bg" + ann.BG.Hex(), seq: seq})
	}
	s.want = want
	return want
}

func (s *DecoratedSink) WriteLine(line TaggedLine) error {
	for _, f := range line {
		want := s.spans(f.Ann)
		k := 0
		for k < len(s.stack) && k < len(want) && s.stack[k] == want[k] {
			k++
		}
		if k < len(s.stack) {
			s.close(s.stack[k:])
			// A reset drops every attribute; restore the ones still open.
			for _, e := range s.stack[:k] {
				if e.kind == spanSGR {
					s.w.WriteString(e.seq)
				}
			}
			s.stack = s.stack[:k]
		}
		for _, e := range want[k:] {
			s.w.WriteString(e.seq)
			s.stack = append(s.stack, e)
		}
		s.w.WriteString(visibleText(f.Text))
	}
	s.close(s.stack)
	s.stack = s.stack[:0]
	return s.w.WriteByte('\n')
}

func (s *DecoratedSink) close(entries []spanEntry) {
	var sgr, link bool
	for _, e := range entries {
		switch e.kind {
		case spanSGR:
			sgr = true
		case spanOSC8:
			link = true
		}
	}
	if sgr {
		s.w.WriteString(palette.Reset)
	}
	if link {
		s.w.WriteString(osc8End)
	}
}

func (s *DecoratedSink) Flush() error {
	return s.w.Flush()
}
