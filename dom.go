package bisquit

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textTypes are the input types treated as free text entry.
var textTypes = map[string]bool{
	"text": true, "search": true, "number": true, "email": true,
	"datetime": true, "datetime-local": true, "date": true, "month": true,
	"week": true, "time": true, "tel": true, "url": true, "color": true,
	"range": true,
}

func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

func getAttr(n *html.Node, key string) (string, bool) {
	if !isElement(n) {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := getAttr(n, key)
	return v
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := getAttr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if !isElement(n) || hasClass(n, class) {
		return
	}
	classes := strings.Fields(attr(n, "class"))
	setAttr(n, "class", strings.Join(append(classes, class), " "))
}

func removeClass(n *html.Node, class string) {
	if !isElement(n) {
		return
	}
	var kept []string
	for _, c := range strings.Fields(attr(n, "class")) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// closest returns the nearest element from n upwards (n included) that
// satisfies match.
func closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for ; n != nil; n = n.Parent {
		if isElement(n) && match(n) {
			return n
		}
	}
	return nil
}

// descendants returns element descendants of n in document order, n excluded.
func descendants(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c) && match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// contains reports whether n is root or one of its descendants.
func contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// attached reports whether n is still reachable from the document root.
func attached(doc, n *html.Node) bool {
	return n != nil && contains(doc, n)
}

func isComponent(n *html.Node) bool {
	return hasClass(n, ComponentClass)
}

// isTextAll reports whether n is an input accepting free text.
func isTextAll(n *html.Node) bool {
	if !isElement(n) || n.DataAtom != atom.Input {
		return false
	}
	t, ok := getAttr(n, "type")
	if !ok {
		return true
	}
	return textTypes[strings.ToLower(t)]
}

// isTyping reports whether keystrokes on n can start a live-typing dispatch.
func isTyping(n *html.Node) bool {
	return isTextAll(n) || (isElement(n) && n.DataAtom == atom.Textarea)
}

func isField(n *html.Node) bool {
	if !isElement(n) {
		return false
	}
	switch n.DataAtom {
	case atom.Input, atom.Textarea, atom.Select, atom.Button:
		return true
	}
	return false
}

// isDisabled reports whether a field is disabled, directly or through a
// disabled fieldset ancestor.
func isDisabled(n *html.Node) bool {
	if !isField(n) {
		return false
	}
	if hasAttr(n, "disabled") {
		return true
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p) && p.DataAtom == atom.Fieldset && hasAttr(p, "disabled") {
			return true
		}
	}
	return false
}

func inputType(n *html.Node) string {
	return strings.ToLower(attr(n, "type"))
}

// textContent concatenates the text children of n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func setTextContent(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if s != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// fieldValue returns the current value of a form control.
func fieldValue(n *html.Node) string {
	switch n.DataAtom {
	case atom.Textarea:
		return textContent(n)
	case atom.Select:
		vals := selectedValues(n)
		if len(vals) == 0 {
			return ""
		}
		return vals[0]
	case atom.Input:
		if v, ok := getAttr(n, "value"); ok {
			return v
		}
		switch inputType(n) {
		case "checkbox", "radio":
			return "on"
		}
		return ""
	}
	return attr(n, "value")
}

func setFieldValue(n *html.Node, v string) {
	switch n.DataAtom {
	case atom.Textarea:
		setTextContent(n, v)
	case atom.Select:
		for _, o := range selectOptions(n) {
			if optionValue(o) == v {
				setAttr(o, "selected", "")
			} else {
				removeAttr(o, "selected")
			}
		}
	default:
		setAttr(n, "value", v)
	}
}

// setChecked sets the checked state of a checkbox or radio. A checked
// radio clears the others sharing its name in the same form, or in the
// document when it has no form.
func setChecked(root, n *html.Node, on bool) {
	if !isElement(n) || n.DataAtom != atom.Input {
		return
	}
	switch inputType(n) {
	case "checkbox":
	case "radio":
		if on {
			group := root
			if form := closest(n, func(c *html.Node) bool { return c.DataAtom == atom.Form }); form != nil {
				group = form
			}
			name := attr(n, "name")
			for _, r := range descendants(group, func(c *html.Node) bool {
				return c != n && c.DataAtom == atom.Input && inputType(c) == "radio" && name != "" && attr(c, "name") == name
			}) {
				removeAttr(r, "checked")
			}
		}
	default:
		return
	}
	if on {
		setAttr(n, "checked", "")
	} else {
		removeAttr(n, "checked")
	}
}

func selectOptions(sel *html.Node) []*html.Node {
	return descendants(sel, func(c *html.Node) bool { return c.DataAtom == atom.Option })
}

func optionValue(o *html.Node) string {
	if v, ok := getAttr(o, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(o))
}

// selectedValues returns the values of selected options; a single select
// with nothing marked selected yields its first option.
func selectedValues(sel *html.Node) []string {
	opts := selectOptions(sel)
	var vals []string
	for _, o := range opts {
		if hasAttr(o, "selected") && !hasAttr(o, "disabled") {
			vals = append(vals, optionValue(o))
		}
	}
	if len(vals) == 0 && !hasAttr(sel, "multiple") && len(opts) > 0 {
		vals = append(vals, optionValue(opts[0]))
	}
	return vals
}

// parseFragment parses markup in the context of an element.
func parseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	if !isElement(context) {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	return html.ParseFragment(strings.NewReader(markup), context)
}

// replaceWith swaps n for nodes at n's position.
func replaceWith(n *html.Node, nodes []*html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for _, c := range nodes {
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// setChildren replaces all children of n.
func setChildren(n *html.Node, nodes []*html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

func firstElement(nodes []*html.Node) *html.Node {
	for _, n := range nodes {
		if isElement(n) {
			return n
		}
	}
	return nil
}

func render(n *html.Node) string {
	var buf bytes.Buffer
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			html.Render(&buf, c)
		}
		return buf.String()
	}
	html.Render(&buf, n)
	return buf.String()
}
