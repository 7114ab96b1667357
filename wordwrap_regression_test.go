package h2t

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/muesli/reflow/wordwrap"
)

// reflowWrap wraps s with reflow's word wrapper, breaking at spaces only.
func reflowWrap(s string, width int) []string {
	w := wordwrap.NewWriter(width)
	w.Breakpoints = nil
	_, _ = w.Write([]byte(s))
	_ = w.Close()
	return strings.Split(w.String(), "\n")
}

func randomWords(r *rand.Rand, n, maxLen int) []string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	words := make([]string, n)
	for i := range words {
		b := make([]byte, 1+r.Intn(maxLen))
		for j := range b {
			b[j] = letters[r.Intn(len(letters))]
		}
		words[i] = string(b)
	}
	return words
}

func TestPlainTextMatchesGreedyWrap(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, width := range []int{10, 17, 33, 60} {
		for round := 0; round < 20; round++ {
			words := randomWords(r, 5+r.Intn(60), width-1)
			// Irregular whitespace in the source collapses to single spaces.
			var src strings.Builder
			for i, word := range words {
				if i > 0 {
					src.WriteString([]string{" ", "  ", "\n", "\t "}[r.Intn(4)])
				}
				src.WriteString(word)
			}
			got := plainLines(t, doc(el("p", txt(src.String()))), width)
			want := reflowWrap(strings.Join(words, " "), width)
			assertLines(t, got, want)
		}
	}
}

func TestLongWordOverflowsOnItsOwnLine(t *testing.T) {
	root := doc(el("p", txt("a supercalifragilistic b c")))
	got := plainLines(t, root, 6)
	assertLines(t, got, []string{"a", "supercalifragilistic", "b c"})
}

func TestWrapAcrossStyledRuns(t *testing.T) {
	root := doc(el("p",
		txt("plain "),
		el("b", txt("bold words ")),
		el("i", txt("and italic")),
		txt(" tail"),
	))
	lines := layoutLines(t, root, 12)
	var got []string
	for _, l := range lines {
		got = append(got, l.String())
	}
	assertLines(t, got, []string{"plain bold", "words and", "italic tail"})
	second := lines[1]
	if second[0].Text != "words " || second[0].Ann.Style != StyleBold {
		t.Fatalf("expected bold run to continue on the next line, got %+v", second)
	}
	if second[1].Text != "and" || second[1].Ann.Style != StyleItalic {
		t.Fatalf("expected italic run, got %+v", second)
	}
}
