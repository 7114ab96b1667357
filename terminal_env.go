package h2t

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// Terminals known to render OSC 8 hyperlinks, keyed by TERM_PROGRAM.
var osc8Programs = map[string]bool{
	"iterm.app": true,
	"wezterm":   true,
	"vscode":    true,
	"ghostty":   true,
	"hyper":     true,
}

// DetectOSC8Support reports whether the terminal described by the
// environment likely renders OSC 8 hyperlinks. OSC8=1 or OSC8=0 overrides
// the guess.
func DetectOSC8Support() bool {
	return detectOSC8(os.LookupEnv)
}

// DetectColorMode guesses the color support of the current terminal from
// NO_COLOR, COLORTERM and TERM.
func DetectColorMode() ColorMode {
	return detectColorMode(os.LookupEnv)
}

type lookupEnv func(string) (string, bool)

func detectOSC8(env lookupEnv) bool {
	get := func(k string) string {
		v, _ := env(k)
		return v
	}
	switch get("OSC8") {
	case "0":
		return false
	case "1":
		return true
	}
	if get("DOMTERM") != "" || get("WT_SESSION") != "" {
		return true
	}
	if osc8Programs[strings.ToLower(get("TERM_PROGRAM"))] {
		return true
	}
	term := strings.ToLower(get("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "foot") {
		return true
	}
	// VTE 0.50 encodes as 5000.
	if n, err := strconv.Atoi(get("VTE_VERSION")); err == nil && n >= 5000 {
		return true
	}
	return false
}

func detectColorMode(env lookupEnv) ColorMode {
	if _, ok := env("NO_COLOR"); ok {
		return ColorNone
	}
	colorterm, _ := env("COLORTERM")
	switch strings.ToLower(colorterm) {
	case "truecolor", "24bit":
		return ColorTrue
	}
	term, _ := env("TERM")
	term = strings.ToLower(term)
	switch {
	case term == "" || term == "dumb":
		return ColorNone
	case strings.Contains(term, "direct"):
		return ColorTrue
	case strings.Contains(term, "256color"):
		return Color256
	}
	return ColorBasic
}
