// Package palette holds the ANSI attribute sequences and the color palettes
// behind the built-in themes.
package palette

// SGR attribute sequences. Colors are kept as hex strings in Palette and
// resolved per color mode by the renderer.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Faint     = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
	Reverse   = "\x1b[7m"
	Strike    = "\x1b[9m"
)

// Palette maps semantic roles to hex colors. Empty means "no color".
type Palette struct {
	Text        string
	Strong      string
	Emphasis    string
	Code        string
	Pre         string
	Link        string
	Image       string
	ListMarker  string
	Quote       string
	Border      string
	Rule        string
	FootnoteRef string
	Footnote    string
}

var PaletteDefault = Palette{
	Strong:      "#ffd75f",
	Emphasis:    "#87d7ff",
	Code:        "#87d787",
	Pre:         "#87d787",
	Link:        "#5fafff",
	Image:       "#af87ff",
	ListMarker:  "#ff875f",
	Quote:       "#8a8a8a",
	Border:      "#6c6c6c",
	Rule:        "#6c6c6c",
	FootnoteRef: "#5fafff",
	Footnote:    "#8a8a8a",
}

var PaletteGruvbox = Palette{
	Text:        "#ebdbb2",
	Strong:      "#fabd2f",
	Emphasis:    "#83a598",
	Code:        "#b8bb26",
	Pre:         "#b8bb26",
	Link:        "#83a598",
	Image:       "#d3869b",
	ListMarker:  "#fe8019",
	Quote:       "#a89984",
	Border:      "#665c54",
	Rule:        "#665c54",
	FootnoteRef: "#8ec07c",
	Footnote:    "#a89984",
}

var PaletteNord = Palette{
	Text:        "#d8dee9",
	Strong:      "#ebcb8b",
	Emphasis:    "#88c0d0",
	Code:        "#a3be8c",
	Pre:         "#a3be8c",
	Link:        "#81a1c1",
	Image:       "#b48ead",
	ListMarker:  "#d08770",
	Quote:       "#616e88",
	Border:      "#4c566a",
	Rule:        "#4c566a",
	FootnoteRef: "#8fbcbb",
	Footnote:    "#616e88",
}

var PaletteDracula = Palette{
	Text:        "#f8f8f2",
	Strong:      "#ffb86c",
	Emphasis:    "#f1fa8c",
	Code:        "#50fa7b",
	Pre:         "#50fa7b",
	Link:        "#8be9fd",
	Image:       "#bd93f9",
	ListMarker:  "#ff79c6",
	Quote:       "#6272a4",
	Border:      "#44475a",
	Rule:        "#6272a4",
	FootnoteRef: "#8be9fd",
	Footnote:    "#6272a4",
}

var PaletteSolarizedDark = Palette{
	Text:        "#839496",
	Strong:      "#b58900",
	Emphasis:    "#2aa198",
	Code:        "#859900",
	Pre:         "#859900",
	Link:        "#268bd2",
	Image:       "#6c71c4",
	ListMarker:  "#cb4b16",
	Quote:       "#586e75",
	Border:      "#586e75",
	Rule:        "#586e75",
	FootnoteRef: "#268bd2",
	Footnote:    "#586e75",
}

var PaletteSolarizedLight = Palette{
	Text:        "#657b83",
	Strong:      "#b58900",
	Emphasis:    "#2aa198",
	Code:        "#859900",
	Pre:         "#859900",
	Link:        "#268bd2",
	Image:       "#6c71c4",
	ListMarker:  "#cb4b16",
	Quote:       "#93a1a1",
	Border:      "#93a1a1",
	Rule:        "#93a1a1",
	FootnoteRef: "#268bd2",
	Footnote:    "#93a1a1",
}

var PaletteGithubLight = Palette{
	Text:        "#24292f",
	Strong:      "#953800",
	Emphasis:    "#8250df",
	Code:        "#0550ae",
	Pre:         "#0550ae",
	Link:        "#0969da",
	Image:       "#8250df",
	ListMarker:  "#cf222e",
	Quote:       "#57606a",
	Border:      "#d0d7de",
	Rule:        "#d0d7de",
	FootnoteRef: "#0969da",
	Footnote:    "#57606a",
}

var PaletteGithubDark = Palette{
	Text:        "#c9d1d9",
	Strong:      "#ffa657",
	Emphasis:    "#d2a8ff",
	Code:        "#79c0ff",
	Pre:         "#79c0ff",
	Link:        "#58a6ff",
	Image:       "#d2a8ff",
	ListMarker:  "#ff7b72",
	Quote:       "#8b949e",
	Border:      "#30363d",
	Rule:        "#30363d",
	FootnoteRef: "#58a6ff",
	Footnote:    "#8b949e",
}

var PaletteTokyoNight = Palette{
	Text:        "#c0caf5",
	Strong:      "#ff9e64",
	Emphasis:    "#bb9af7",
	Code:        "#9ece6a",
	Pre:         "#9ece6a",
	Link:        "#7aa2f7",
	Image:       "#bb9af7",
	ListMarker:  "#f7768e",
	Quote:       "#565f89",
	Border:      "#3b4261",
	Rule:        "#565f89",
	FootnoteRef: "#7dcfff",
	Footnote:    "#565f89",
}
