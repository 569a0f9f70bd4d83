package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Cell tag classes the hide pass reacts to.
const (
	classHideInput  = "hide_in"
	classHideOutput = "hide_out"
	classHideBoth   = "hide_both"
	classHideCell   = "hide_mark"

	classHidden = "hide"
	classInput  = "input"
	classOutput = "output"

	styleAnchorID = "style_import"
)

// HideTagged adds the hide class to the containers the cell tags point
// at: the next input container for hide_in, the next output container for
// hide_out, both for hide_both, and the tagged cell itself for hide_mark.
func HideTagged(root *html.Node) {
	for _, cell := range findAll(root, withClass(classHideInput)) {
		if in := findNext(cell, withClass(classInput)); in != nil {
			addClass(in, classHidden)
		}
	}
	for _, cell := range findAll(root, withClass(classHideOutput)) {
		if out := findNext(cell, withClass(classOutput)); out != nil {
			addClass(out, classHidden)
		}
	}
	for _, cell := range findAll(root, withClass(classHideBoth)) {
		if in := findNext(cell, withClass(classInput)); in != nil {
			addClass(in, classHidden)
		}
		if out := findNext(cell, withClass(classOutput)); out != nil {
			addClass(out, classHidden)
		}
	}
	for _, cell := range findAll(root, withClass(classHideCell)) {
		addClass(cell, classHidden)
	}
}

// InjectStyle inserts a style element holding css immediately before the
// style_import anchor, stripping stray style wrappers from the sheet text.
// It reports whether the page carries an anchor.
func InjectStyle(root *html.Node, css string) bool {
	anchor := findFirst(root, withID(styleAnchorID))
	if anchor == nil || anchor.Parent == nil {
		return false
	}
	style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	style.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: strings.ReplaceAll(css, "<style>", ""),
	})
	anchor.Parent.InsertBefore(style, anchor)
	return true
}

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var hits []*html.Node
	for n := root; n != nil; n = nextNode(n) {
		if pred(n) {
			hits = append(hits, n)
		}
	}
	return hits
}

func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	for n := root; n != nil; n = nextNode(n) {
		if pred(n) {
			return n
		}
	}
	return nil
}

// findNext returns the first matching node after n in reading order,
// descendants of n included.
func findNext(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for cur := nextNode(n); cur != nil; cur = nextNode(cur) {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func withClass(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, name)
	}
}

func withID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, "id") == id
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, name string) {
	if hasClass(n, name) {
		return
	}
	for i, a := range n.Attr {
		if a.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + name)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: name})
}
