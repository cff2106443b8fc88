package bisquit

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// insertOverlay places an overlay element right before target, sized to
// cover it when the page has a layout.
func (p *Page) insertOverlay(target *html.Node) *html.Node {
	if target == nil || target.Parent == nil {
		return nil
	}
	overlay := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: OverlayClass}},
	}
	if p.layout != nil {
		if r, ok := p.layout.Bounds(target); ok {
			setAttr(overlay, "style", fmt.Sprintf(
				"position:absolute;left:%gpx;top:%gpx;width:%gpx;height:%gpx",
				r.Left, r.Top, r.Width, r.Height))
		}
	}
	target.Parent.InsertBefore(overlay, target)
	return overlay
}

// removeOverlays clears the overlay a dispatch inserted together with
// every overlay beside or inside the component element. The sweep is not
// reference counted: a concurrent dispatch on the same region loses its
// overlay too.
func (p *Page) removeOverlays(el, own *html.Node) {
	if own != nil && own.Parent != nil {
		own.Parent.RemoveChild(own)
	}
	if el == nil {
		return
	}

	var stale []*html.Node
	if el.Parent != nil {
		for c := el.Parent.FirstChild; c != nil; c = c.NextSibling {
			if c != el && hasClass(c, OverlayClass) {
				stale = append(stale, c)
			}
		}
	}
	stale = append(stale, descendants(el, func(n *html.Node) bool {
		return hasClass(n, OverlayClass)
	})...)
	for _, n := range stale {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}
