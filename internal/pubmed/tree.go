// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"strings"
)

// node is a generic XML element. Text holds the element's own character
// data, not that of its children; full holds the element's own and
// descendant character data in document order.
type node struct {
	XMLName xml.Name
	Text    string
	Nodes   []node
	full    string
}

// UnmarshalXML records children and text in the order they appear, so
// inline markup such as <i> inside a title keeps its text.
func (n *node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.XMLName = start.Name
	var own, full strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var c node
			if err := c.UnmarshalXML(d, t); err != nil {
				return err
			}
			full.WriteString(c.full)
			n.Nodes = append(n.Nodes, c)
		case xml.CharData:
			own.Write(t)
			full.Write(t)
		case xml.EndElement:
			n.Text = own.String()
			n.full = full.String()
			return nil
		}
	}
}

// fullText returns the element's text including that of inline children.
func (n *node) fullText() string { return n.full }

func (n *node) name() string { return n.XMLName.Local }

// child returns the first direct child called name, or nil.
func (n *node) child(name string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].name() == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// find returns the first descendant called name in document order, or nil.
func (n *node) find(name string) *node {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.name() == name {
			return c
		}
		if d := c.find(name); d != nil {
			return d
		}
	}
	return nil
}

// findAll returns every descendant called name in document order.
func (n *node) findAll(name string) []*node {
	var out []*node
	n.walk(func(c *node) {
		if c.name() == name {
			out = append(out, c)
		}
	})
	return out
}

func (n *node) walk(fn func(*node)) {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		fn(c)
		c.walk(fn)
	}
}

// childText returns the text of the named child, or "" when it is absent.
func (n *node) childText(name string) string {
	if c := n.child(name); c != nil {
		return c.Text
	}
	return ""
}
