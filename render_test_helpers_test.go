package h2t

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var ansiRegexp = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")
var osc8Regexp = regexp.MustCompile("\x1b\\]8;;.*?\x1b\\\\")

func stripANSI(s string) string {
	s = ansiRegexp.ReplaceAllString(s, "")
	s = osc8Regexp.ReplaceAllString(s, "")
	return s
}

func txt(s string) Node { return NewText(s) }

func el(tag string, kids ...Node) Node { return NewElement(tag, nil, kids...) }

func elAttr(tag string, attrs map[string]string, kids ...Node) Node {
	return NewElement(tag, attrs, kids...)
}

func doc(kids ...Node) Node { return NewDocument(kids...) }

func layoutLines(t *testing.T, root Node, width int, opts ...RenderOption) []TaggedLine {
	t.Helper()
	lines, err := Layout(LayoutRequest{Root: root, Width: width, Options: opts})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return lines
}

func plainLines(t *testing.T, root Node, width int, opts ...RenderOption) []string {
	t.Helper()
	lines := layoutLines(t, root, width, opts...)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func renderDecorated(t *testing.T, root Node, width int, opts ...RenderOption) string {
	t.Helper()
	var b strings.Builder
	err := Render(RenderRequest{
		Root:    root,
		Writer:  &b,
		Width:   width,
		Theme:   DefaultTheme(),
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("line count mismatch: got %d want %d\n got: %q\nwant: %q", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d mismatch\nwant: %q\n got: %q", i+1, want[i], got[i])
		}
	}
}

// sampleDocument builds an article mixing every block kind.
func sampleDocument(sections int) Node {
	var kids []Node
	for i := 0; i < sections; i++ {
		kids = append(kids,
			el("h2", txt(fmt.Sprintf("Section %d", i+1))),
			el("p",
				txt("Terminals render "),
				el("b", txt("bold")),
				txt(" and "),
				el("i", txt("italic")),
				txt(" text, "),
				elAttr("a", map[string]string{"href": fmt.Sprintf("https://example.com/%d", i)}, txt("links")),
				txt(" and "),
				elAttr("span", map[string]string{"style": "color: #ff8800"}, txt("colored")),
				txt(" words that wrap across several lines when the width is narrow enough."),
			),
			el("ul",
				el("li", txt("first item with a few words")),
				el("li", txt("second item"), el("ul", el("li", txt("nested")))),
			),
			el("table",
				el("tr", el("th", txt("Name")), el("th", txt("Value"))),
				el("tr", el("td", txt("width")), el("td", txt("a longer value that wraps"))),
			),
			el("blockquote", el("p", txt("Quoted text stays indented."))),
			el("pre", txt("func main() {\n\tprintln(\"hi\")\n}")),
			el("hr"),
		)
	}
	return doc(el("html", el("body", kids...)))
}
