package h2t

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

// StyleFlags is a set of text attributes.
type StyleFlags uint8

const (
	StyleBold StyleFlags = 1 << iota
	StyleItalic
	StyleUnderline
	StyleStrike
	StyleCode
)

// Has reports whether all bits of f are set.
func (s StyleFlags) Has(f StyleFlags) bool { return s&f == f }

// Role marks structural glyphs emitted by layout rather than document text.
type Role uint8

const (
	RoleNone Role = iota
	RoleListMarker
	RoleQuote
	RoleTableBorder
	RoleRule
	RoleFootnoteRef
	RoleFootnote
	RolePreformatted
	RoleImage
)

var roleNames = [...]string{
	RoleNone:         "",
	RoleListMarker:   "list-marker",
	RoleQuote:        "quote",
	RoleTableBorder:  "table-border",
	RoleRule:         "rule",
	RoleFootnoteRef:  "footnote-ref",
	RoleFootnote:     "footnote",
	RolePreformatted: "preformatted",
	RoleImage:        "image",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Annotation is the annotation set attached to a fragment. It is comparable
// so adjacent fragments with equal annotations can be coalesced.
type Annotation struct {
	Style StyleFlags
	FG    Color
	BG    Color
	// Link is the target of the enclosing link in inline link mode.
	Link string
	// Image is the alt text when the fragment is an image placeholder.
	Image string
	Role  Role
}

// IsZero reports whether the annotation carries nothing.
func (a Annotation) IsZero() bool { return a == Annotation{} }

// Fragment is a run of text sharing one annotation set.
type Fragment struct {
	Text string
	Ann  Annotation
}

// TaggedLine is one output line.
type TaggedLine []Fragment

// Width returns the display width of the line.
func (l TaggedLine) Width() int {
	w := 0
	for _, f := range l {
		w += displayWidth(f.Text)
	}
	return w
}

// String returns the visible text of the line.
func (l TaggedLine) String() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Text
	}
	var b strings.Builder
	for _, f := range l {
		b.WriteString(f.Text)
	}
	return b.String()
}

// Append adds text to the line, merging it into the last fragment when the
// annotations match.
func (l TaggedLine) Append(text string, ann Annotation) TaggedLine {
	if text == "" {
		return l
	}
	if n := len(l); n > 0 && l[n-1].Ann == ann {
		l[n-1].Text += text
		return l
	}
	return append(l, Fragment{Text: text, Ann: ann})
}

// AppendLine appends all fragments of other.
func (l TaggedLine) AppendLine(other TaggedLine) TaggedLine {
	for _, f := range other {
		l = l.Append(f.Text, f.Ann)
	}
	return l
}

func (l TaggedLine) clone() TaggedLine {
	if l == nil {
		return nil
	}
	out := make(TaggedLine, len(l))
	copy(out, l)
	return out
}

func displayWidth(s string) int {
	return ansi.PrintableRuneWidth(s)
}
