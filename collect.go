package bisquit

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// collected is what the collector derives from one signal.
type collected struct {
	data      map[string]any
	overlay   *html.Node
	noOverlay bool
}

// collect computes the payload of a signal:
//
//  1. form data from the handler's data-scope, or from the originating
//     element when no scope is declared and it is not a disabled field;
//  2. data-param-* attributes from the originating element up to its
//     component, outer declarations overwriting inner ones;
//  3. the overlay target (innermost data-overlay) and whether any element
//     on the chain declares data-no-overlay.
func (p *Page) collect(s signal) collected {
	out := collected{data: s.data}
	if out.data == nil {
		out.data = map[string]any{}
	}

	handlerDecl := p.declarations(s.handler)
	if scope := handlerDecl.Scope; scope != "" {
		if root := p.scopeRoot(s, scope); root != nil {
			p.mergeForm(out.data, root)
		}
	} else if s.target != nil && !(hasAttr(s.target, "name") && isDisabled(s.target)) {
		p.mergeForm(out.data, s.target)
	}

	chain := paramChain(s.target)
	overlayDeclared := false
	for _, n := range chain {
		d := p.declarations(n)
		for _, param := range d.Params {
			out.data[param.Key] = param.Value
		}
		// The innermost declaration decides, even when it matches nothing.
		if !overlayDeclared && d.Overlay != "" {
			overlayDeclared = true
			out.overlay = p.overlayFor(n, d.Overlay)
		}
		if d.NoOverlay {
			out.noOverlay = true
		}
	}
	return out
}

// paramChain returns the elements from n up to and including its nearest
// component ancestor, innermost first. Without an enclosing component the
// chain runs to the top of the document.
func paramChain(n *html.Node) []*html.Node {
	var chain []*html.Node
	for ; n != nil; n = n.Parent {
		if !isElement(n) {
			continue
		}
		chain = append(chain, n)
		if isComponent(n) {
			break
		}
	}
	return chain
}

// scopeRoot resolves a data-scope value: "this" is the declaring element;
// a selector picks the nearest matching ancestor of the originating
// element, or else its first matching descendant.
func (p *Page) scopeRoot(s signal, scope string) *html.Node {
	if scope == ScopeSelf {
		return s.handler
	}
	sel, err := p.selectors.compile(scope)
	if err != nil {
		p.log.Warn("invalid data-scope", zap.String("scope", scope), zap.Error(err))
		return nil
	}
	if n := closest(s.target, sel.Match); n != nil {
		return n
	}
	if found := sel.Find(s.target); len(found) > 0 {
		return found[0]
	}
	return nil
}

// overlayFor resolves a data-overlay value declared on n.
func (p *Page) overlayFor(n *html.Node, overlay string) *html.Node {
	if overlay == ScopeSelf {
		return n
	}
	sel, err := p.selectors.compile(overlay)
	if err != nil {
		p.log.Warn("invalid data-overlay", zap.String("overlay", overlay), zap.Error(err))
		return nil
	}
	return closest(n, sel.Match)
}

func (p *Page) mergeForm(dst map[string]any, root *html.Node) {
	form, err := serializeForm(root)
	if err != nil {
		p.log.Warn("form serialization failed", zap.Error(err))
		return
	}
	mergeData(dst, form)
}
