package h2t

import (
	"sort"
	"strings"
	"testing"
)

func TestThemeByNameBuiltins(t *testing.T) {
	expected := []string{
		"default",
		"gruvbox",
		"nord",
		"dracula",
		"solarized-dark",
		"solarized-light",
		"github-light",
		"github-dark",
		"tokyo-night",
		"mono",
	}
	for _, name := range expected {
		if _, ok := ThemeByName(name); !ok {
			t.Fatalf("expected theme %q to be available", name)
		}
	}

	available := AvailableThemes()
	if !sort.StringsAreSorted(available) {
		t.Fatalf("expected sorted theme names, got %v", available)
	}
	present := make(map[string]struct{}, len(available))
	for _, name := range available {
		present[name] = struct{}{}
	}
	for _, name := range expected {
		if _, ok := present[name]; !ok {
			t.Fatalf("expected theme %q in available list", name)
		}
	}
}

func TestThemeByNameNormalizes(t *testing.T) {
	theme, ok := ThemeByName("  GruvBox ")
	if !ok || theme.Name() != "gruvbox" {
		t.Fatalf("expected gruvbox, got %v %v", theme, ok)
	}
	theme, ok = ThemeByName("")
	if !ok || theme.Name() != "default" {
		t.Fatalf("expected empty name to select default")
	}
	if _, ok := ThemeByName("nope"); ok {
		t.Fatalf("expected unknown theme to be rejected")
	}
}

func TestThemeStylesFollowColorMode(t *testing.T) {
	theme := DefaultTheme()
	none := theme.Styles(ColorNone)
	if none.Strong.Prefix != "\x1b[1m" {
		t.Fatalf("expected bold without color, got %q", none.Strong.Prefix)
	}
	if none.Border.Prefix != "" {
		t.Fatalf("expected no border color in ColorNone, got %q", none.Border.Prefix)
	}
	full := theme.Styles(ColorTrue)
	if !strings.Contains(full.Link.Prefix, "38;2;") {
		t.Fatalf("expected truecolor link style, got %q", full.Link.Prefix)
	}
	c256 := theme.Styles(Color256)
	if !strings.Contains(c256.Link.Prefix, "38;5;") {
		t.Fatalf("expected 256-color link style, got %q", c256.Link.Prefix)
	}
}

func TestMonoThemeHasNoColors(t *testing.T) {
	theme, _ := ThemeByName("mono")
	styles := theme.Styles(ColorTrue)
	if strings.Contains(styles.Link.Prefix, "38;") || styles.Text.Prefix != "" {
		t.Fatalf("expected mono theme without colors, got %+v", styles)
	}
}

func TestNewThemeUsesStylesVerbatim(t *testing.T) {
	theme := NewTheme("boring", Styles{Strong: Style{Prefix: "<b>"}})
	for _, mode := range []ColorMode{ColorNone, ColorBasic, Color256, ColorTrue} {
		if got := theme.Styles(mode).Strong.Prefix; got != "<b>" {
			t.Fatalf("mode %v: expected verbatim style, got %q", mode, got)
		}
	}
}
