package h2t

import (
	"sort"
	"strings"

	"pkt.systems/h2t/internal/palette"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by the decorated renderer.
type Styles struct {
	Text        Style
	Strong      Style
	Emphasis    Style
	Underline   Style
	Strike      Style
	Code        Style
	Pre         Style
	Link        Style
	Image       Style
	ListMarker  Style
	Quote       Style
	Border      Style
	Rule        Style
	FootnoteRef Style
	Footnote    Style
}

// Theme provides named styles for decorated output. Styles resolves the
// theme's colors for the given color mode.
type Theme interface {
	Name() string
	Styles(mode ColorMode) Styles
}

type theme struct {
	name    string
	palette *palette.Palette
	styles  Styles
}

func (t theme) Name() string { return t.name }

func (t theme) Styles(mode ColorMode) Styles {
	if t.palette == nil {
		return t.styles
	}
	return stylesFromPalette(*t.palette, mode)
}

// NewTheme returns a Theme from a Styles definition. The styles are used
// as given for every color mode.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette, mode ColorMode) Styles {
	fg := func(hex string) string {
		c, ok := ParseColor(hex)
		if !ok {
			return ""
		}
		sgr := ColorSGR(c, mode, false)
		if sgr == "" {
			return ""
		}
		return "\x1b[" + sgr + "m"
	}
	return Styles{
		Text:        style(fg(p.Text)),
		Strong:      style(palette.Bold, fg(p.Strong)),
		Emphasis:    style(palette.Italic, fg(p.Emphasis)),
		Underline:   style(palette.Underline),
		Strike:      style(palette.Strike),
		Code:        style(fg(p.Code)),
		Pre:         style(fg(p.Pre)),
		Link:        style(palette.Underline, fg(p.Link)),
		Image:       style(palette.Italic, fg(p.Image)),
		ListMarker:  style(fg(p.ListMarker)),
		Quote:       style(palette.Faint, fg(p.Quote)),
		Border:      style(fg(p.Border)),
		Rule:        style(fg(p.Rule)),
		FootnoteRef: style(fg(p.FootnoteRef)),
		Footnote:    style(palette.Faint, fg(p.Footnote)),
	}
}

func paletteTheme(name string, p palette.Palette) Theme {
	return theme{name: name, palette: &p}
}

var builtinThemes = map[string]Theme{
	"default":         paletteTheme("default", palette.PaletteDefault),
	"gruvbox":         paletteTheme("gruvbox", palette.PaletteGruvbox),
	"nord":            paletteTheme("nord", palette.PaletteNord),
	"dracula":         paletteTheme("dracula", palette.PaletteDracula),
	"solarized-dark":  paletteTheme("solarized-dark", palette.PaletteSolarizedDark),
	"solarized-light": paletteTheme("solarized-light", palette.PaletteSolarizedLight),
	"github-light":    paletteTheme("github-light", palette.PaletteGithubLight),
	"github-dark":     paletteTheme("github-dark", palette.PaletteGithubDark),
	"tokyo-night":     paletteTheme("tokyo-night", palette.PaletteTokyoNight),
	"mono":            paletteTheme("mono", palette.Palette{}),
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
