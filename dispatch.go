package bisquit

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/bisquit/wire"
)

// exchange is one remote dispatch from issue to settle.
type exchange struct {
	element   *html.Node
	component *Component
	event     Event
	overlay   *html.Node
}

// dispatch handles an event claimed by el: a local handler short-circuits
// everything; otherwise the event goes to the component's endpoint.
func (p *Page) dispatch(el *html.Node, ev Event) {
	comp := p.registry.Get(ev.Component)

	if h, ok := comp.Handler(ev.Name); ok {
		h(&Context{p: p, element: el, event: ev}, ev.Data)
		p.done(ev)
		return
	}

	x := &exchange{element: el, component: comp, event: ev}
	if !ev.NoOverlay && !ev.LiveTyping {
		target := ev.Overlay
		if target == nil || !attached(p.root, target) {
			target = el
		}
		x.overlay = p.insertOverlay(target)
	}

	endpoint := attr(el, AttrRemote)
	if endpoint == "" {
		p.settle(x, nil, ErrNoEndpoint)
		return
	}

	req := wire.Request{Event: ev.Name, Data: ev.Data}
	p.begin()
	go func() {
		res, err := p.transport.Post(p.ctx, endpoint, req)

		p.mu.Lock()
		defer p.mu.Unlock()
		defer p.end()
		p.settle(x, res, err)
	}()
}

// settle applies a remote answer: patch, cascade, completion callback,
// then overlay cleanup whatever the outcome. Callers hold the page lock.
func (p *Page) settle(x *exchange, res *wire.Response, err error) {
	el := x.element
	ev := x.event

	if err != nil {
		p.log.Warn("remote dispatch failed",
			zap.String("component", ev.Component),
			zap.String("event", ev.Name),
			zap.Error(err))
	} else if res != nil {
		if res.HasMarkup() && !ev.LiveTyping {
			el = p.patch(el, res)
		}
		p.cascade(el, x.component.ID(), res.Trigger)
	}

	p.done(ev)
	p.removeOverlays(el, x.overlay)
}

// cascade emits the follow-up events of a response in order. Each one
// is routed independently from the component element, or from its
// descendants matching the cascade's target.
func (p *Page) cascade(el *html.Node, component string, triggers []wire.Cascade) {
	for _, c := range triggers {
		origins := []*html.Node{el}
		if c.Target != "" {
			sel, err := p.selectors.compile(c.Target)
			if err != nil {
				p.log.Warn("invalid cascade target", zap.String("target", c.Target), zap.Error(err))
				continue
			}
			origins = sel.Find(el)
		}

		id := c.Component
		if id == "" {
			id = component
		}
		for _, o := range origins {
			data := map[string]any{}
			if c.Data != nil {
				data = copyData(c.Data)
			}
			p.emit(o, Event{Component: id, Name: c.Event, Data: data})
		}
	}
}
