package waitfortest

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is an element in an in-memory document, backed by an
// *html.Node. Build trees with E and attach them with New, OpenWindow or
// Session.Append. Once a node is attached, change it only through
// Session methods.
type Node struct {
	h  *html.Node
	st *buildState
}

// buildState carries what a tree knows beyond its markup. Trees joined
// with With, and trees adopted by a session, forward to one shared state.
type buildState struct {
	hidden map[*html.Node]bool
	// frames maps an iframe to its content document.
	frames map[*html.Node]*html.Node
	into   *buildState
}

func newBuildState() *buildState {
	return &buildState{
		hidden: make(map[*html.Node]bool),
		frames: make(map[*html.Node]*html.Node),
	}
}

func (st *buildState) resolve() *buildState {
	for st.into != nil {
		st = st.into
	}
	return st
}

// absorb moves everything o knows into st and forwards o to st.
func (st *buildState) absorb(o *buildState) {
	st, o = st.resolve(), o.resolve()
	if st == o {
		return
	}
	for n, v := range o.hidden {
		st.hidden[n] = v
	}
	for n, doc := range o.frames {
		st.frames[n] = doc
	}
	clear(o.hidden)
	clear(o.frames)
	o.into = st
}

// E creates a detached node. kv lists attribute name/value pairs.
func E(tag string, kv ...string) *Node {
	if len(kv)%2 != 0 {
		panic("waitfortest: E needs attribute name/value pairs")
	}
	h := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i < len(kv); i += 2 {
		h.Attr = append(h.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return &Node{h: h, st: newBuildState()}
}

// Frame creates an iframe node whose content document holds body.
func Frame(id string, body ...*Node) *Node {
	f := E("iframe", "id", id)
	doc, st := newDocument(body...)
	f.st.absorb(st)
	f.st.resolve().frames[f.h] = doc
	return f
}

// With appends children to a node that is not attached yet.
func (n *Node) With(children ...*Node) *Node {
	for _, c := range children {
		unlink(c.h)
		n.h.AppendChild(c.h)
		n.st.absorb(c.st)
	}
	return n
}

// WithText sets the text of a node that is not attached yet.
func (n *Node) WithText(text string) *Node {
	setText(n.h, text)
	return n
}

// Hidden marks a node that is not attached yet as not displayed.
func (n *Node) Hidden() *Node {
	n.st.resolve().hidden[n.h] = true
	return n
}

func (n *Node) String() string {
	return describe(n.h)
}

// newDocument returns a document node holding body and the build state
// collected from it.
func newDocument(body ...*Node) (*html.Node, *buildState) {
	doc := &html.Node{Type: html.DocumentNode}
	st := newBuildState()
	for _, b := range body {
		unlink(b.h)
		doc.AppendChild(b.h)
		st.absorb(b.st)
	}
	return doc, st
}

func unlink(h *html.Node) {
	if h.Parent != nil {
		h.Parent.RemoveChild(h)
	}
}

// setText replaces the direct text children of h with a single leading
// text node.
func setText(h *html.Node, text string) {
	for c := h.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode {
			h.RemoveChild(c)
		}
		c = next
	}
	if text == "" {
		return
	}
	t := &html.Node{Type: html.TextNode, Data: text}
	h.InsertBefore(t, h.FirstChild)
}

func attr(h *html.Node, name string) (string, bool) {
	for _, a := range h.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(h *html.Node, name, value string) {
	for i, a := range h.Attr {
		if a.Namespace == "" && a.Key == name {
			h.Attr[i].Val = value
			return
		}
	}
	h.Attr = append(h.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(h *html.Node, name string) {
	for i, a := range h.Attr {
		if a.Namespace == "" && a.Key == name {
			h.Attr = append(h.Attr[:i:i], h.Attr[i+1:]...)
			return
		}
	}
}

func root(h *html.Node) *html.Node {
	for h.Parent != nil {
		h = h.Parent
	}
	return h
}

// describe renders the start tag of h with attributes in name order.
func describe(h *html.Node) string {
	if h.Type == html.DocumentNode {
		return "document"
	}
	attrs := append([]html.Attribute(nil), h.Attr...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	var b strings.Builder
	b.WriteString("<" + h.Data)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%q", a.Key, a.Val)
	}
	b.WriteString(">")
	return b.String()
}
