package h2t

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorMode selects how colors are written by the decorated renderer.
type ColorMode uint8

const (
	// ColorNone disables colors entirely; attributes such as bold remain.
	ColorNone ColorMode = iota
	// ColorBasic maps colors to the 16 standard ANSI colors.
	ColorBasic
	// Color256 maps colors to the xterm 256-color cube and gray ramp.
	Color256
	// ColorTrue writes 24-bit colors unchanged.
	ColorTrue
)

func (m ColorMode) String() string {
	switch m {
	case ColorNone:
		return "none"
	case ColorBasic:
		return "16"
	case Color256:
		return "256"
	case ColorTrue:
		return "truecolor"
	default:
		return "unknown"
	}
}

// ParseColorMode parses the names accepted by the CLI.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "no", "0":
		return ColorNone, nil
	case "16", "basic", "ansi":
		return ColorBasic, nil
	case "256", "ansi256":
		return Color256, nil
	case "true", "truecolor", "24bit", "full":
		return ColorTrue, nil
	default:
		return ColorNone, fmt.Errorf("unknown color mode %q", s)
	}
}

// Color is an sRGB color. The zero value means "unset".
type Color struct {
	R, G, B uint8
	Set     bool
}

// RGB returns a set color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// Hex formats the color as #rrggbb, or "" when unset.
func (c Color) Hex() string {
	if !c.Set {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

var namedColors = map[string]Color{
	"black":   RGB(0, 0, 0),
	"silver":  RGB(192, 192, 192),
	"gray":    RGB(128, 128, 128),
	"grey":    RGB(128, 128, 128),
	"white":   RGB(255, 255, 255),
	"maroon":  RGB(128, 0, 0),
	"red":     RGB(255, 0, 0),
	"purple":  RGB(128, 0, 128),
	"fuchsia": RGB(255, 0, 255),
	"magenta": RGB(255, 0, 255),
	"green":   RGB(0, 128, 0),
	"lime":    RGB(0, 255, 0),
	"olive":   RGB(128, 128, 0),
	"yellow":  RGB(255, 255, 0),
	"navy":    RGB(0, 0, 128),
	"blue":    RGB(0, 0, 255),
	"teal":    RGB(0, 128, 128),
	"aqua":    RGB(0, 255, 255),
	"cyan":    RGB(0, 255, 255),
	"orange":  RGB(255, 165, 0),
	"pink":    RGB(255, 192, 203),
	"brown":   RGB(165, 42, 42),
	"gold":    RGB(255, 215, 0),
	"indigo":  RGB(75, 0, 130),
	"violet":  RGB(238, 130, 238),
}

// ParseColor parses #rgb, #rrggbb, rgb(r, g, b) and basic named colors.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Color{}, false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		return parseRGBFunc(s[4 : len(s)-1])
	}
	if !strings.HasPrefix(s, "#") {
		// Legacy attributes often omit the hash.
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, false
	}
	return fromColorful(c), true
}

func parseRGBFunc(args string) (Color, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return Color{}, false
	}
	var v [3]uint8
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if strings.HasSuffix(p, "%") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return Color{}, false
			}
			v[i] = clampByte(math.Round(f * 255 / 100))
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Color{}, false
		}
		v[i] = clampByte(float64(n))
	}
	return RGB(v[0], v[1], v[2]), true
}

func clampByte(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

// basicColors are the xterm defaults for the 16 ANSI colors.
var basicColors = [16]Color{
	RGB(0, 0, 0), RGB(205, 0, 0), RGB(0, 205, 0), RGB(205, 205, 0),
	RGB(0, 0, 238), RGB(205, 0, 205), RGB(0, 205, 205), RGB(229, 229, 229),
	RGB(127, 127, 127), RGB(255, 0, 0), RGB(0, 255, 0), RGB(255, 255, 0),
	RGB(92, 92, 255), RGB(255, 0, 255), RGB(0, 255, 255), RGB(255, 255, 255),
}

var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

func xterm256(i int) Color {
	switch {
	case i < 16:
		return basicColors[i]
	case i < 232:
		i -= 16
		return RGB(cubeLevels[i/36], cubeLevels[(i/6)%6], cubeLevels[i%6])
	default:
		g := uint8(8 + (i-232)*10)
		return RGB(g, g, g)
	}
}

func nearestIndex(c Color, from, to int, lookup func(int) Color) int {
	target := c.colorful()
	best, bestDist := from, math.MaxFloat64
	for i := from; i < to; i++ {
		d := target.DistanceLab(lookup(i).colorful())
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ColorSGR returns the SGR parameters selecting c as foreground (or
// background) under mode. It returns "" when mode is ColorNone or c is unset.
// The result depends only on its arguments.
func ColorSGR(c Color, mode ColorMode, background bool) string {
	if !c.Set {
		return ""
	}
	switch mode {
	case ColorBasic:
		i := nearestIndex(c, 0, 16, func(i int) Color { return basicColors[i] })
		base := 30
		if background {
			base = 40
		}
		if i >= 8 {
			return strconv.Itoa(base + 60 + i - 8)
		}
		return strconv.Itoa(base + i)
	case Color256:
		// The first 16 entries are user-configurable; match the fixed ramps only.
		i := nearestIndex(c, 16, 256, xterm256)
		if background {
			return "48;5;" + strconv.Itoa(i)
		}
		return "38;5;" + strconv.Itoa(i)
	case ColorTrue:
		prefix := "38;2;"
		if background {
			prefix = "48;2;"
		}
		return prefix + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
	default:
		return ""
	}
}

type colorKey struct {
	c          Color
	background bool
}

// colorCache memoizes ColorSGR for one render call.
type colorCache struct {
	mode ColorMode
	m    map[colorKey]string
}

func newColorCache(mode ColorMode) *colorCache {
	return &colorCache{mode: mode, m: make(map[colorKey]string)}
}

func (cc *colorCache) sequence(c Color, background bool) string {
	if !c.Set || cc.mode == ColorNone {
		return ""
	}
	key := colorKey{c: c, background: background}
	if seq, ok := cc.m[key]; ok {
		return seq
	}
	seq := "\x1b[" + ColorSGR(c, cc.mode, background) + "m"
	cc.m[key] = seq
	return seq
}
