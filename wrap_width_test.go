package h2t

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func randomParagraph(r *rand.Rand, tag string) Node {
	words := randomWords(r, 3+r.Intn(30), 6)
	var kids []Node
	for i := 0; i < len(words); {
		n := 1 + r.Intn(4)
		if i+n > len(words) {
			n = len(words) - i
		}
		text := txt(strings.Join(words[i:i+n], " ") + " ")
		switch r.Intn(4) {
		case 0:
			kids = append(kids, el("b", text))
		case 1:
			kids = append(kids, elAttr("a", map[string]string{"href": "https://example.com/" + words[i]}, text))
		default:
			kids = append(kids, text)
		}
		i += n
	}
	return el(tag, kids...)
}

func randomDocument(r *rand.Rand) Node {
	var kids []Node
	for i := 0; i < 12; i++ {
		switch r.Intn(6) {
		case 0:
			kids = append(kids, randomParagraph(r, "p"))
		case 1:
			kids = append(kids, el("ul",
				randomParagraph(r, "li"),
				el("li", randomParagraph(r, "span"), el("ol", randomParagraph(r, "li"), randomParagraph(r, "li"))),
			))
		case 2:
			kids = append(kids, el("blockquote", randomParagraph(r, "p"), el("blockquote", randomParagraph(r, "div"))))
		case 3:
			kids = append(kids, el("table",
				el("tr", randomParagraph(r, "th"), randomParagraph(r, "th")),
				el("tr", randomParagraph(r, "td"), randomParagraph(r, "td"), randomParagraph(r, "td")),
			))
		case 4:
			kids = append(kids, el("div", randomParagraph(r, "span"), el("hr"), el("pre", txt("x := 1\n\ty := 2"))))
		case 5:
			kids = append(kids, el("table",
				el("caption", randomParagraph(r, "span")),
				el("tr", elAttr("td", map[string]string{"colspan": "2"}, randomParagraph(r, "span"))),
				el("tr",
					el("td", el("blockquote", randomParagraph(r, "p"), el("hr"))),
					el("td", el("ul", randomParagraph(r, "li"), el("li", el("hr"))), el("hr")),
				),
			))
		}
	}
	return doc(el("body", kids...))
}

func TestWrapWidthBounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 25; round++ {
		root := randomDocument(r)
		for width := 40; width <= 100; width += 6 {
			for _, mode := range []LinkMode{LinkInline, LinkFootnote} {
				lines := layoutLines(t, root, width, WithLinkMode(mode))
				for i, line := range lines {
					if w := line.Width(); w > width {
						t.Fatalf("round %d mode %v: line %d exceeds width %d (%d): %q", round, mode, i+1, width, w, line.String())
					}
				}
			}
		}
	}
}

func TestDecoratedWidthMatchesPlain(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	root := randomDocument(r)
	for _, width := range []int{30, 64} {
		plain, err := RenderString(root, width)
		if err != nil {
			t.Fatalf("render plain: %v", err)
		}
		decorated := renderDecorated(t, root, width, WithOSC8(true))
		if got := stripANSI(decorated); got != plain {
			t.Fatalf("width %d: decorated text differs from plain\nplain:\n%s\ndecorated:\n%s", width, plain, got)
		}
		for i, line := range strings.Split(decorated, "\n") {
			if w := ansi.PrintableRuneWidth(stripANSI(line)); w > width {
				t.Fatalf("width %d: decorated line %d too wide (%d)", width, i+1, w)
			}
		}
	}
}
