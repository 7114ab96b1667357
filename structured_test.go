package h2t

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStructureBoldSpan(t *testing.T) {
	d, err := Structure(LayoutRequest{Root: doc(el("p", txt("Hello "), el("b", txt("world")))), Width: 80})
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	if len(d.Lines) != 1 || d.Lines[0].Text != "Hello world" {
		t.Fatalf("unexpected lines %+v", d.Lines)
	}
	want := []Span{{Kind: SpanBold, Start: 6, End: 11, StartCol: 6, EndCol: 11}}
	if diff := cmp.Diff(want, d.Lines[0].Spans); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
	if d.String() != "Hello world\n" {
		t.Fatalf("unexpected document text %q", d.String())
	}
}

func TestStructureLinksAndRoles(t *testing.T) {
	root := doc(el("ul", el("li",
		txt("日本 "),
		elAttr("a", map[string]string{"href": "http://e.com"}, txt("go "), el("i", txt("now"))),
	)))
	d, err := Structure(LayoutRequest{Root: root, Width: 40})
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	line := d.Lines[0]
	if line.Text != "* 日本 go now" {
		t.Fatalf("unexpected text %q", line.Text)
	}
	want := []Span{
		{Kind: SpanRole, Value: "list-marker", Start: 0, End: 2, StartCol: 0, EndCol: 2},
		{Kind: SpanLink, Value: "http://e.com", Start: 9, End: 15, StartCol: 7, EndCol: 13},
		{Kind: SpanItalic, Start: 12, End: 15, StartCol: 10, EndCol: 13},
	}
	if diff := cmp.Diff(want, line.Spans); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestStructureFootnotes(t *testing.T) {
	root := doc(el("p",
		elAttr("a", map[string]string{"href": "http://a.example"}, txt("a")),
		txt(" "),
		elAttr("a", map[string]string{"href": "http://b.example"}, txt("b")),
	))
	d, err := Structure(LayoutRequest{Root: root, Width: 40, Options: []RenderOption{WithLinkMode(LinkFootnote)}})
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	want := []Footnote{{Index: 1, Target: "http://a.example"}, {Index: 2, Target: "http://b.example"}}
	if diff := cmp.Diff(want, d.Footnotes); diff != "" {
		t.Fatalf("footnotes mismatch (-want +got):\n%s", diff)
	}
	last := d.Lines[len(d.Lines)-1]
	if last.Text != "[2] http://b.example" {
		t.Fatalf("unexpected footnote line %q", last.Text)
	}
	var link *Span
	for i := range last.Spans {
		if last.Spans[i].Kind == SpanLink {
			link = &last.Spans[i]
		}
	}
	if link == nil || link.Value != "http://b.example" || link.Start != 4 {
		t.Fatalf("expected link span on footnote target, got %+v", last.Spans)
	}
}

func TestStructureJSON(t *testing.T) {
	root := doc(el("p", elAttr("span", map[string]string{"style": "background-color: #123456"}, txt("x"))))
	d, err := Structure(LayoutRequest{Root: root, Width: 10})
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"text":"x"`, `"kind":"background"`, `"value":"#123456"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
	if strings.Contains(got, "Fragments") {
		t.Fatalf("fragments should not be encoded: %s", got)
	}
}

func TestStructureLinesMatchesLayout(t *testing.T) {
	lines := layoutLines(t, sampleDocument(1), 40)
	structured := StructureLines(lines)
	if len(structured) != len(lines) {
		t.Fatalf("expected %d lines, got %d", len(lines), len(structured))
	}
	for i := range lines {
		if structured[i].Text != lines[i].String() {
			t.Fatalf("line %d: %q != %q", i, structured[i].Text, lines[i].String())
		}
		for _, sp := range structured[i].Spans {
			if sp.Start < 0 || sp.End > len(structured[i].Text) || sp.Start >= sp.End {
				t.Fatalf("line %d: invalid span %+v", i, sp)
			}
		}
	}
}

func TestSpanKindString(t *testing.T) {
	if SpanForeground.String() != "foreground" || SpanKind(99).String() != "span(99)" {
		t.Fatalf("unexpected span kind names")
	}
}
