package bisquit

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// emit routes ev from origin toward the root. Every component element on
// the way compares its id with the event's target; the first match claims
// the event and nothing above it sees it. An event without a target is
// claimed by the first component it meets.
//
// When no ancestor claims an event that names a component, it is handed
// to that component's first bound element so follow-up events can reach
// sibling components.
func (p *Page) emit(origin *html.Node, ev Event) {
	if !attached(p.root, origin) {
		p.log.Debug("event from a detached element dropped",
			zap.String("component", ev.Component), zap.String("event", ev.Name))
		p.done(ev)
		return
	}

	for n := origin; n != nil; n = n.Parent {
		if !isComponent(n) {
			continue
		}
		id := attr(n, AttrComponent)
		if ev.Component == "" {
			ev.Component = id
		} else if ev.Component != id {
			continue
		}
		p.dispatch(n, ev)
		return
	}

	if ev.Component != "" {
		if bound := p.componentElements(ev.Component, nil); len(bound) > 0 {
			p.log.Debug("event delivered outside its origin's ancestry",
				zap.String("component", ev.Component), zap.String("event", ev.Name))
			p.dispatch(bound[0], ev)
			return
		}
	}
	p.log.Debug("event not claimed by any component",
		zap.String("component", ev.Component), zap.String("event", ev.Name))
	p.done(ev)
}

func (p *Page) done(ev Event) {
	if ev.OnDone != nil {
		ev.OnDone()
	}
}

// Context is handed to local handlers. Its methods run inline with the
// page already locked; do not call Page methods from a handler.
type Context struct {
	p       *Page
	element *html.Node
	event   Event
}

// Element returns the component element that claimed the event.
func (c *Context) Element() *html.Node {
	return c.element
}

// Event returns the dispatched event.
func (c *Context) Event() Event {
	return c.event
}

// Logger returns the page logger.
func (c *Context) Logger() *zap.Logger {
	return c.p.log
}

// Component returns a component handle.
func (c *Context) Component(id string) *Component {
	return c.p.registry.Get(id)
}

// Find returns the descendants of the component element matching sel.
func (c *Context) Find(sel string) ([]*html.Node, error) {
	s, err := c.p.selectors.compile(sel)
	if err != nil {
		return nil, err
	}
	return s.Find(c.element), nil
}

// Value returns a form control's value.
func (c *Context) Value(n *html.Node) string {
	return fieldValue(n)
}

// SetValue sets a form control's value programmatically.
func (c *Context) SetValue(n *html.Node, v string) {
	setFieldValue(n, v)
	c.p.selections[n] = selection{len(v), len(v)}
}

// SetChecked checks or unchecks a checkbox or radio, as Page.SetChecked.
func (c *Context) SetChecked(n *html.Node, on bool) {
	setChecked(c.p.root, n, on)
}

// Dispatch emits a new event from the component element, as a server
// cascade would. An empty component targets the enclosing component.
func (c *Context) Dispatch(component, event string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	c.p.emit(c.element, Event{Component: component, Name: event, Data: copyData(data)})
}

// Trigger fires a custom trigger from origin.
func (c *Context) Trigger(origin *html.Node, name string, data map[string]any) error {
	return c.p.trigger(origin, name, data)
}
