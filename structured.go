package h2t

import (
	"fmt"
	"sort"
	"strings"
)

// SpanKind identifies the annotation a Span covers.
type SpanKind uint8

const (
	SpanBold SpanKind = iota
	SpanItalic
	SpanUnderline
	SpanStrike
	SpanCode
	SpanLink
	SpanImage
	SpanForeground
	SpanBackground
	SpanRole
)

var spanKindNames = [...]string{
	SpanBold:       "bold",
	SpanItalic:     "italic",
	SpanUnderline:  "underline",
	SpanStrike:     "strike",
	SpanCode:       "code",
	SpanLink:       "link",
	SpanImage:      "image",
	SpanForeground: "foreground",
	SpanBackground: "background",
	SpanRole:       "role",
}

func (k SpanKind) String() string {
	if int(k) < len(spanKindNames) {
		return spanKindNames[k]
	}
	return fmt.Sprintf("span(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k SpanKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Span is a resolved annotation run within one line. Start and End are
// byte offsets into Line.Text; StartCol and EndCol are display columns.
type Span struct {
	Kind     SpanKind `json:"kind"`
	Value    string   `json:"value,omitempty"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	StartCol int      `json:"start_col"`
	EndCol   int      `json:"end_col"`
}

// Line is one output line with its resolved spans.
type Line struct {
	Text      string     `json:"text"`
	Fragments TaggedLine `json:"-"`
	Spans     []Span     `json:"spans,omitempty"`
}

// Document is the structured rendering of a document.
type Document struct {
	Lines     []Line     `json:"lines"`
	Footnotes []Footnote `json:"footnotes,omitempty"`
}

// String returns the plain text of the document.
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Structure lays out req.Root and resolves annotation spans per line.
func Structure(req LayoutRequest) (*Document, error) {
	cfg := newConfig(req.Options)
	lines, notes, err := layoutDocument(req.Root, req.Width, &cfg)
	if err != nil {
		return nil, err
	}
	return &Document{Lines: StructureLines(lines), Footnotes: notes}, nil
}

// StructureLines resolves the spans of already laid-out lines.
func StructureLines(lines []TaggedLine) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = structureLine(l)
	}
	return out
}

type spanKey struct {
	kind  SpanKind
	value string
}

func annotationKeys(ann Annotation, keys []spanKey) []spanKey {
	keys = keys[:0]
	flags := [...]struct {
		flag StyleFlags
		kind SpanKind
	}{
		{StyleBold, SpanBold},
		{StyleItalic, SpanItalic},
		{StyleUnderline, SpanUnderline},
		{StyleStrike, SpanStrike},
		{StyleCode, SpanCode},
	}
	for _, f := range flags {
		if ann.Style.Has(f.flag) {
			keys = append(keys, spanKey{kind: f.kind})
		}
	}
	if ann.Link != "" {
		keys = append(keys, spanKey{SpanLink, ann.Link})
	}
	if ann.Image != "" {
		keys = append(keys, spanKey{SpanImage, ann.Image})
	}
	if ann.FG.Set {
		keys = append(keys, spanKey{SpanForeground, ann.FG.Hex()})
	}
	if ann.BG.Set {
		keys = append(keys, spanKey{SpanBackground, ann.BG.Hex()})
	}
	if ann.Role != RoleNone {
		keys = append(keys, spanKey{SpanRole, ann.Role.String()})
	}
	return keys
}

func structureLine(l TaggedLine) Line {
	var (
		b     strings.Builder
		spans []Span
		open  []Span
		keys  []spanKey
		col   int
	)
	for _, f := range l {
		keys = annotationKeys(f.Ann, keys)
		kept := open[:0]
		for _, sp := range open {
			if containsKey(keys, spanKey{sp.Kind, sp.Value}) {
				kept = append(kept, sp)
				continue
			}
			sp.End, sp.EndCol = b.Len(), col
			spans = append(spans, sp)
		}
		open = kept
		for _, k := range keys {
			if !containsSpan(open, k) {
				open = append(open, Span{Kind: k.kind, Value: k.value, Start: b.Len(), StartCol: col})
			}
		}
		b.WriteString(f.Text)
		col += displayWidth(f.Text)
	}
	for _, sp := range open {
		sp.End, sp.EndCol = b.Len(), col
		spans = append(spans, sp)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].Kind < spans[j].Kind
	})
	return Line{Text: b.String(), Fragments: l, Spans: spans}
}

func containsKey(keys []spanKey, k spanKey) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

func containsSpan(open []Span, k spanKey) bool {
	for _, sp := range open {
		if sp.Kind == k.kind && sp.Value == k.value {
			return true
		}
	}
	return false
}
