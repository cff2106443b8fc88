package bisquit

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pthm/bisquit/wire"
)

// fieldState is what survives of a focused field across a patch.
type fieldState struct {
	name  string
	value string
	sel   selection
}

// patch applies response markup to the component element el, or to its
// descendants matching the response target. It returns the element now
// standing for the component: the replacement when the whole component
// was replaced, el otherwise.
//
// A focused input or textarea inside the patched region loses focus
// without signalling change; afterwards the same-named text field in the
// new content takes over its value, selection and focus.
func (p *Page) patch(el *html.Node, res *wire.Response) *html.Node {
	targets := []*html.Node{el}
	if res.Target != "" {
		sel, err := p.selectors.compile(res.Target)
		if err != nil {
			p.log.Warn("invalid response target", zap.String("target", res.Target), zap.Error(err))
			return el
		}
		targets = sel.Find(el)
	}
	if len(targets) == 0 {
		p.log.Debug("response target matched nothing", zap.String("target", res.Target))
		return el
	}

	var saved *fieldState
	if f := p.focused; f != nil && (f.DataAtom == atom.Input || f.DataAtom == atom.Textarea) {
		for _, t := range targets {
			if contains(t, f) {
				saved = &fieldState{name: attr(f, "name"), value: fieldValue(f), sel: p.selections[f]}
				p.blur(false)
				break
			}
		}
	}

	current := el
	var regions []*html.Node
	for _, t := range targets {
		if res.HTML != "" {
			nodes, err := parseFragment(strings.TrimSpace(res.HTML), t.Parent)
			if err != nil {
				p.log.Warn("response html did not parse", zap.Error(err))
				continue
			}
			p.forget(t)
			replaceWith(t, nodes)
			regions = append(regions, nodes...)
			if res.Target == "" {
				if n := firstElement(nodes); n != nil {
					current = n
				}
			}
			continue
		}

		nodes, err := parseFragment(res.Inner, t)
		if err != nil {
			p.log.Warn("response inner did not parse", zap.Error(err))
			continue
		}
		for c := t.FirstChild; c != nil; c = c.NextSibling {
			p.forget(c)
		}
		setChildren(t, nodes)
		regions = append(regions, t)
	}

	if saved != nil && saved.name != "" {
		p.restore(regions, saved)
	}
	return current
}

// restore finds the field named like the saved one in the patched regions
// and gives it the saved value, selection and focus. Checkboxes, radios
// and file inputs are never restored.
func (p *Page) restore(regions []*html.Node, saved *fieldState) {
	match := func(n *html.Node) bool {
		if attr(n, "name") != saved.name {
			return false
		}
		switch n.DataAtom {
		case atom.Textarea:
			return true
		case atom.Input:
			switch inputType(n) {
			case "radio", "checkbox", "file":
				return false
			}
			return true
		}
		return false
	}
	for _, r := range regions {
		if !isElement(r) {
			continue
		}
		n := closestInside(r, match)
		if n == nil {
			continue
		}
		setFieldValue(n, saved.value)
		p.selections[n] = clampSelection(saved.value, saved.sel.start, saved.sel.end)
		p.focused = n
		p.dirty = false
		return
	}
}

// closestInside returns r itself or its first descendant satisfying match.
func closestInside(r *html.Node, match func(*html.Node) bool) *html.Node {
	if match(r) {
		return r
	}
	if found := descendants(r, match); len(found) > 0 {
		return found[0]
	}
	return nil
}

// forget drops per-element state for a subtree leaving the document.
func (p *Page) forget(n *html.Node) {
	delete(p.selections, n)
	delete(p.reported, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.forget(c)
	}
}
