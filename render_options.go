package h2t

import (
	"errors"
	"log"
	"strings"
	"sync"
)

// DefaultMaxDepth bounds element nesting unless WithMaxDepth overrides it.
const DefaultMaxDepth = 256

var (
	// ErrInvalidWidth reports a non-positive wrap width.
	ErrInvalidWidth = errors.New("width must be positive")
	// ErrNestingTooDeep reports a document nested beyond the configured bound.
	ErrNestingTooDeep = errors.New("document nesting too deep")
	// ErrNilRoot reports a missing document root.
	ErrNilRoot = errors.New("root node is nil")
)

// LinkMode selects how link targets are rendered.
type LinkMode uint8

const (
	// LinkInline annotates link text with its target.
	LinkInline LinkMode = iota
	// LinkFootnote appends [n] to link text and lists targets after the document.
	LinkFootnote
)

func (m LinkMode) String() string {
	if m == LinkFootnote {
		return "footnote"
	}
	return "inline"
}

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8      bool
	softWrap  bool
	colorMode ColorMode
	linkMode  LinkMode
	maxDepth  int
	preserve  map[string]bool
	overrides map[string]TagClass
	logger    *log.Logger
}

var configPool = sync.Pool{
	New: func() any {
		return &renderConfig{}
	},
}

// newConfig applies opts over the defaults. The returned value owns its maps.
func newConfig(opts []RenderOption) renderConfig {
	cfg := configPool.Get().(*renderConfig)
	*cfg = renderConfig{
		colorMode: ColorTrue,
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	cfgVal := *cfg
	*cfg = renderConfig{}
	configPool.Put(cfg)
	if cfgVal.maxDepth <= 0 {
		cfgVal.maxDepth = DefaultMaxDepth
	}
	return cfgVal
}

func (c *renderConfig) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// WithOSC8 enables or disables OSC 8 hyperlinks.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithSoftWrap enables soft wrapping for long words.
func WithSoftWrap(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.softWrap = enabled
	}
}

// WithColorMode sets how document and theme colors are written.
func WithColorMode(mode ColorMode) RenderOption {
	return func(cfg *renderConfig) {
		cfg.colorMode = mode
	}
}

// WithLinkMode selects inline or footnote links.
func WithLinkMode(mode LinkMode) RenderOption {
	return func(cfg *renderConfig) {
		cfg.linkMode = mode
	}
}

// WithMaxDepth bounds element nesting. Deeper documents fail with
// ErrNestingTooDeep.
func WithMaxDepth(depth int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.maxDepth = depth
	}
}

// WithPreserveWhitespace treats the named tags like <pre>.
func WithPreserveWhitespace(tags ...string) RenderOption {
	return func(cfg *renderConfig) {
		if cfg.preserve == nil {
			cfg.preserve = make(map[string]bool, len(tags))
		} else {
			cfg.preserve = cloneMap(cfg.preserve)
		}
		for _, tag := range tags {
			cfg.preserve[strings.ToLower(tag)] = true
		}
	}
}

// WithTagOverride maps tag to class, replacing the built-in mapping.
func WithTagOverride(tag string, class TagClass) RenderOption {
	return func(cfg *renderConfig) {
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]TagClass)
		} else {
			cfg.overrides = cloneMap(cfg.overrides)
		}
		cfg.overrides[strings.ToLower(tag)] = class
	}
}

// WithLogger receives diagnostics such as unknown tags and clamped spans.
func WithLogger(logger *log.Logger) RenderOption {
	return func(cfg *renderConfig) {
		cfg.logger = logger
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
