package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/h2t"
	"pkt.systems/h2t/htmldom"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	maxInputSize     = 64 << 20
)

func init() {
	version.SetDefaultModule("pkt.systems/h2t")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	themeName  string
	width      int
	osc8       string
	color      string
	links      string
	listThemes bool
	outPath    string
	boring     bool
	structured bool
	softWrap   bool
	preserve   []string
	maxDepth   int
	verbose    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("h2t", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&opts.width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.StringVarP(&opts.color, "color", "c", "auto", "Colors: auto|none|16|256|true")
	flags.StringVarP(&opts.links, "links", "l", "auto", "Links: auto|inline|footnote")
	flags.BoolVar(&opts.listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&opts.boring, "boring", "b", false, "Generate plain text without ANSI escapes")
	flags.BoolVar(&opts.structured, "structured", false, "Write lines and annotation spans as JSON")
	flags.BoolVar(&opts.softWrap, "soft-wrap", false, "Split words wider than the output")
	flags.StringSliceVar(&opts.preserve, "preserve", nil, "Extra tags whose whitespace is kept verbatim")
	flags.IntVar(&opts.maxDepth, "max-depth", h2t.DefaultMaxDepth, "Maximum element nesting depth")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Report unknown elements and clamped spans on stderr")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: h2t [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. If none is given, HTML is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.listThemes {
		printThemes(stdout)
		return 0
	}

	theme, ok := h2t.ThemeByName(opts.themeName)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", opts.themeName)
		printThemes(stderr)
		return 2
	}

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	tty := isTerminal(writer)

	colorMode, plain, err := resolveColor(opts.color, tty)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --color %q: %v\n", opts.color, err)
		return 2
	}
	if opts.boring {
		plain = true
	}
	osc8, err := resolveOSC8(opts.osc8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", opts.osc8, err)
		return 2
	}
	linkMode, err := resolveLinkMode(opts.links, plain || !tty)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --links %q: %v\n", opts.links, err)
		return 2
	}

	renderOpts := []h2t.RenderOption{
		h2t.WithColorMode(colorMode),
		h2t.WithOSC8(osc8 && !plain),
		h2t.WithLinkMode(linkMode),
		h2t.WithSoftWrap(opts.softWrap),
		h2t.WithMaxDepth(opts.maxDepth),
	}
	if len(opts.preserve) > 0 {
		renderOpts = append(renderOpts, h2t.WithPreserveWhitespace(opts.preserve...))
	}
	if opts.verbose {
		renderOpts = append(renderOpts, h2t.WithLogger(log.New(stderr, "", 0)))
	}
	if plain {
		theme = nil
	}

	docs, err := loadInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	width := resolveWidth(opts.width)

	var structured []*h2t.Document
	for i, doc := range docs {
		root, err := htmldom.ParseBytes(doc.body, doc.contentType)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", doc.name, err)
			return 1
		}
		if opts.structured {
			d, err := h2t.Structure(h2t.LayoutRequest{Root: root, Width: width, Options: renderOpts})
			if err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", doc.name, err)
				return 1
			}
			structured = append(structured, d)
			continue
		}
		if i > 0 {
			fmt.Fprintln(writer)
		}
		if err := h2t.Render(h2t.RenderRequest{
			Root:    root,
			Writer:  writer,
			Width:   width,
			Theme:   theme,
			Options: renderOpts,
		}); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", doc.name, err)
			return 1
		}
	}
	if opts.structured {
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		var v any = structured
		if len(structured) == 1 {
			v = structured[0]
		}
		if err := enc.Encode(v); err != nil {
			fmt.Fprintf(stderr, "encode: %v\n", err)
			return 1
		}
	}
	return 0
}

func printThemes(w io.Writer) {
	names := h2t.AvailableThemes()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return h2t.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// resolveColor returns the color mode and whether output should be plain.
func resolveColor(mode string, tty bool) (h2t.ColorMode, bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		if !tty {
			return h2t.ColorNone, true, nil
		}
		detected := h2t.DetectColorMode()
		return detected, false, nil
	default:
		m, err := h2t.ParseColorMode(mode)
		return m, false, err
	}
}

func resolveLinkMode(mode string, plain bool) (h2t.LinkMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		if plain {
			return h2t.LinkFootnote, nil
		}
		return h2t.LinkInline, nil
	case "inline":
		return h2t.LinkInline, nil
	case "footnote", "footnotes":
		return h2t.LinkFootnote, nil
	default:
		return h2t.LinkInline, fmt.Errorf("expected auto|inline|footnote")
	}
}

type input struct {
	name        string
	body        []byte
	contentType string
}

type inputSource struct {
	name string
	open func() (io.ReadCloser, string, error)
}

func loadInputs(args []string, stdin io.Reader) ([]input, error) {
	if len(args) == 0 {
		body, err := io.ReadAll(io.LimitReader(stdin, maxInputSize))
		if err != nil {
			return nil, err
		}
		return []input{{name: "stdin", body: body}}, nil
	}
	docs := make([]input, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, err
		}
		rc, contentType, err := src.open()
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(io.LimitReader(rc, maxInputSize))
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src.name, err)
		}
		docs = append(docs, input{name: src.name, body: body, contentType: contentType})
	}
	return docs, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: raw, open: func() (io.ReadCloser, string, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{name: path, open: func() (io.ReadCloser, string, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{name: raw, open: func() (io.ReadCloser, string, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, "", fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func openFile(path string) (io.ReadCloser, string, error) {
	clean := normalizePath(path)
	f, err := os.Open(clean)
	if err != nil {
		return nil, "", err
	}
	return f, "", nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
