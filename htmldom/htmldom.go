// Package htmldom adapts golang.org/x/net/html parse trees to the h2t.Node
// input boundary.
package htmldom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"pkt.systems/h2t"
)

type node struct {
	n    *html.Node
	kids []h2t.Node
	done bool
}

// FromNode wraps a parsed html.Node. Children are wrapped lazily and
// cached, so the returned tree must not be used while n is being modified.
func FromNode(n *html.Node) h2t.Node {
	if n == nil {
		return nil
	}
	return &node{n: n}
}

func (d *node) Type() h2t.NodeType {
	switch d.n.Type {
	case html.DocumentNode:
		return h2t.DocumentNode
	case html.ElementNode:
		return h2t.ElementNode
	case html.TextNode:
		return h2t.TextNode
	case html.DoctypeNode:
		return h2t.DoctypeNode
	default:
		return h2t.CommentNode
	}
}

func (d *node) Tag() string {
	if d.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(d.n.Data)
}

func (d *node) Attr(name string) (string, bool) {
	for _, a := range d.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (d *node) Children() []h2t.Node {
	if !d.done {
		for c := d.n.FirstChild; c != nil; c = c.NextSibling {
			d.kids = append(d.kids, &node{n: c})
		}
		d.done = true
	}
	return d.kids
}

func (d *node) Text() string {
	if d.n.Type != html.TextNode {
		return ""
	}
	return d.n.Data
}

// Parse parses UTF-8 HTML from r.
func Parse(r io.Reader) (h2t.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	return FromNode(doc), nil
}

// ParseString parses an HTML string.
func ParseString(s string) (h2t.Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseReader decodes r according to contentType (a Content-Type header
// value, possibly empty) and any <meta charset> in the document, then parses
// it.
func ParseReader(r io.Reader, contentType string) (h2t.Node, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("htmldom: charset: %w", err)
	}
	return Parse(decoded)
}

// ParseBytes validates src and parses it. Binary input is rejected; input
// that is not UTF-8 is decoded using the detected charset.
func ParseBytes(src []byte, contentType string) (h2t.Node, error) {
	if err := h2t.ValidateInput(src); errors.Is(err, h2t.ErrBinaryInput) {
		return nil, fmt.Errorf("htmldom: %w", err)
	}
	if contentType == "" && utf8.Valid(src) {
		return Parse(bytes.NewReader(src))
	}
	return ParseReader(bytes.NewReader(src), contentType)
}
