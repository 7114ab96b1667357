package h2t

import (
	"io"
	"testing"
)

func BenchmarkLayoutArticle(b *testing.B) {
	root := sampleDocument(20)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Layout(LayoutRequest{Root: root, Width: 80}); err != nil {
			b.Fatalf("layout: %v", err)
		}
	}
}

func BenchmarkRenderDecorated(b *testing.B) {
	root := sampleDocument(20)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Render(RenderRequest{
			Root:    root,
			Writer:  io.Discard,
			Width:   80,
			Theme:   DefaultTheme(),
			Options: []RenderOption{WithOSC8(true), WithColorMode(Color256)},
		})
	}
}

func BenchmarkRenderPlainFootnotes(b *testing.B) {
	root := sampleDocument(20)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Render(RenderRequest{
			Root:    root,
			Writer:  io.Discard,
			Width:   60,
			Options: []RenderOption{WithLinkMode(LinkFootnote)},
		})
	}
}

func BenchmarkColorSGR256(b *testing.B) {
	c := RGB(12, 200, 99)
	for i := 0; i < b.N; i++ {
		_ = ColorSGR(c, Color256, false)
	}
}
