package h2t

import (
	"io"
	"testing"
)

func TestRenderAllocations(t *testing.T) {
	root := sampleDocument(5)
	allocs := testing.AllocsPerRun(50, func() {
		_ = Render(RenderRequest{
			Root:   root,
			Writer: io.Discard,
			Width:  80,
			Theme:  DefaultTheme(),
		})
	})
	if allocs > 20000 {
		t.Fatalf("too many allocations per Render: got %.2f", allocs)
	}
}

func TestColorCacheAvoidsRecomputing(t *testing.T) {
	cc := newColorCache(Color256)
	c := RGB(1, 2, 3)
	cc.sequence(c, false)
	allocs := testing.AllocsPerRun(100, func() {
		_ = cc.sequence(c, false)
	})
	if allocs != 0 {
		t.Fatalf("expected cached lookups not to allocate, got %.2f", allocs)
	}
}
