package h2t

import "strings"

// NodeType classifies input DOM nodes.
type NodeType uint8

const (
	// DocumentNode is the root of a parsed document.
	DocumentNode NodeType = iota
	// ElementNode is a tagged element with attributes and children.
	ElementNode
	// TextNode carries character data.
	TextNode
	// CommentNode is ignored by the builder.
	CommentNode
	// DoctypeNode is ignored by the builder.
	DoctypeNode
)

// Node is the boundary to an externally parsed document tree. The core never
// parses markup; any parser can be adapted by implementing Node.
type Node interface {
	Type() NodeType
	// Tag returns the lower-case element name, or "" for non-elements.
	Tag() string
	Attr(name string) (string, bool)
	Children() []Node
	// Text returns the character data of a text node.
	Text() string
}

// Element is a plain in-memory Node, handy for building documents in code.
type Element struct {
	Kind  NodeType
	Name  string
	Attrs map[string]string
	Data  string
	Kids  []Node
}

// NewElement returns an element node. The tag name is lower-cased.
func NewElement(tag string, attrs map[string]string, children ...Node) *Element {
	return &Element{
		Kind:  ElementNode,
		Name:  strings.ToLower(tag),
		Attrs: attrs,
		Kids:  children,
	}
}

// NewText returns a text node.
func NewText(text string) *Element {
	return &Element{Kind: TextNode, Data: text}
}

// NewDocument returns a document root holding children.
func NewDocument(children ...Node) *Element {
	return &Element{Kind: DocumentNode, Kids: children}
}

func (e *Element) Type() NodeType { return e.Kind }

func (e *Element) Tag() string {
	if e.Kind != ElementNode {
		return ""
	}
	return e.Name
}

func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) Children() []Node { return e.Kids }

func (e *Element) Text() string { return e.Data }

// AddChild appends a child and returns the receiver for chaining.
func (e *Element) AddChild(child Node) *Element {
	e.Kids = append(e.Kids, child)
	return e
}
