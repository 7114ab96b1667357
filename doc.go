// Package h2t renders HTML document trees as width-constrained text for
// terminals and plain-text extraction.
//
// The package never parses markup. It consumes a tree through the Node
// interface; package htmldom adapts golang.org/x/net/html, and Element
// builds trees in code. Rendering runs in three pure stages:
//
//   - Build maps DOM nodes to a closed set of render nodes with resolved
//     style context (bold, italic, colors, active link).
//   - Layout wraps the render tree into TaggedLines of annotated fragments,
//     laying out lists and negotiating table column widths.
//   - A Sink writes the lines as plain text or with ANSI styles and OSC 8
//     hyperlinks; Structure returns them with resolved spans instead.
//
// Example:
//
//	doc, err := htmldom.ParseString("<p>Hello <b>world</b></p>")
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = h2t.Render(h2t.RenderRequest{
//		Root:   doc,
//		Writer: os.Stdout,
//		Width:  80,
//		Theme:  h2t.DefaultTheme(),
//		Options: []h2t.RenderOption{
//			h2t.WithColorMode(h2t.DetectColorMode()),
//			h2t.WithLinkMode(h2t.LinkFootnote),
//		},
//	})
//
// Only a non-positive width and nesting deeper than WithMaxDepth are
// reported as errors; all other malformed input degrades gracefully.
package h2t
