package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/h2t"
)

func TestLoadInputsFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.html")
	if err := os.WriteFile(path, []byte("<p>hello</p>"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	docs, err := loadInputs([]string{path, "file://" + path, srv.URL}, nil)
	if err != nil {
		t.Fatalf("loadInputs: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(docs))
	}
	for i := 0; i < 2; i++ {
		if string(docs[i].body) != "<p>hello</p>" {
			t.Fatalf("input %d: unexpected content %q", i, docs[i].body)
		}
	}
	if !strings.Contains(docs[2].contentType, "iso-8859-1") {
		t.Fatalf("expected content type to be kept, got %q", docs[2].contentType)
	}
}

func TestLoadInputsStdin(t *testing.T) {
	docs, err := loadInputs(nil, strings.NewReader("<b>x</b>"))
	if err != nil {
		t.Fatalf("loadInputs stdin: %v", err)
	}
	if len(docs) != 1 || docs[0].name != "stdin" || string(docs[0].body) != "<b>x</b>" {
		t.Fatalf("unexpected stdin input: %+v", docs)
	}
}

func TestLoadInputsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()
	if _, err := loadInputs([]string{srv.URL}, nil); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestResolveOSC8(t *testing.T) {
	t.Setenv("OSC8", "1")
	t.Setenv("TERM_PROGRAM", "iTerm.app")
	on, err := resolveOSC8("on")
	if err != nil || !on {
		t.Fatalf("expected on to enable osc8")
	}
	off, err := resolveOSC8("off")
	if err != nil || off {
		t.Fatalf("expected off to disable osc8")
	}
	auto, err := resolveOSC8("auto")
	if err != nil || !auto {
		t.Fatalf("expected auto to enable osc8 for iTerm")
	}
	if _, err := resolveOSC8("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}

func TestResolveColor(t *testing.T) {
	mode, plain, err := resolveColor("auto", false)
	if err != nil || !plain || mode != h2t.ColorNone {
		t.Fatalf("auto without tty: mode=%v plain=%v err=%v", mode, plain, err)
	}
	mode, plain, err = resolveColor("256", false)
	if err != nil || plain || mode != h2t.Color256 {
		t.Fatalf("256: mode=%v plain=%v err=%v", mode, plain, err)
	}
	if _, _, err := resolveColor("rainbow", true); err == nil {
		t.Fatalf("expected error for invalid color mode")
	}
}

func TestResolveLinkMode(t *testing.T) {
	cases := []struct {
		in    string
		plain bool
		want  h2t.LinkMode
	}{
		{"auto", true, h2t.LinkFootnote},
		{"auto", false, h2t.LinkInline},
		{"inline", true, h2t.LinkInline},
		{"footnote", false, h2t.LinkFootnote},
	}
	for _, tc := range cases {
		got, err := resolveLinkMode(tc.in, tc.plain)
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s plain=%v: got %v want %v", tc.in, tc.plain, got, tc.want)
		}
	}
	if _, err := resolveLinkMode("margin", false); err == nil {
		t.Fatalf("expected error for invalid link mode")
	}
}

func TestRunPlainFootnotes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	src := `<p>see <a href="http://e.com">go</a></p>`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"-w", "40", path}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit %d: %s", code, stderr.String())
	}
	want := "see go[1]\n\n[1] http://e.com\n"
	if stdout.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", stdout.String(), want)
	}
}

func TestRunStructured(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--structured", "--links", "inline", "-w", "20"}, strings.NewReader("<p>Hello <b>world</b></p>"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit %d: %s", code, stderr.String())
	}
	var doc struct {
		Lines []struct {
			Text  string `json:"text"`
			Spans []struct {
				Kind  string `json:"kind"`
				Start int    `json:"start"`
				End   int    `json:"end"`
			} `json:"spans"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("decode structured output: %v\n%s", err, stdout.String())
	}
	if len(doc.Lines) != 1 || doc.Lines[0].Text != "Hello world" {
		t.Fatalf("unexpected lines: %+v", doc.Lines)
	}
	found := false
	for _, s := range doc.Lines[0].Spans {
		if s.Kind == "bold" && s.Start == 6 && s.End == 11 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bold span over world, got %+v", doc.Lines[0].Spans)
	}
}

func TestRunUnknownTheme(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-t", "nope"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for unknown theme, got %d", code)
	}
	if !strings.Contains(stderr.String(), "default") {
		t.Fatalf("expected theme list on stderr, got %q", stderr.String())
	}
}

func TestRunListThemes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--list-themes"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("list themes exit %d", code)
	}
	if !strings.Contains(stdout.String(), "gruvbox\n") {
		t.Fatalf("expected gruvbox in theme list, got %q", stdout.String())
	}
}
