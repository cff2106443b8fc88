package bisquit

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

func hasOnMarker(trigger string) func(*html.Node) bool {
	key := OnAttr(trigger)
	return func(n *html.Node) bool { return hasAttr(n, key) }
}

// change handles a committed value change. A change on a text-like input
// is flagged live-typing: its keystrokes already dispatched, so the
// response must not rewrite the field under the user.
func (p *Page) change(target *html.Node) {
	handler := closest(target, hasOnMarker(TriggerChange))
	if handler == nil {
		return
	}
	p.handle(signal{
		trigger:    TriggerChange,
		target:     target,
		handler:    handler,
		liveTyping: isTextAll(target),
	})
}

// click handles a click, asking for confirmation first when the clicked
// marker declares data-confirm.
func (p *Page) click(target *html.Node) {
	handler := closest(target, hasOnMarker(TriggerClick))
	if handler == nil {
		return
	}
	if msg := attr(handler, AttrConfirm); msg != "" && !p.confirm(msg) {
		p.log.Debug("click abandoned at confirmation", zap.String("message", msg))
		return
	}
	p.handle(signal{
		trigger: TriggerClick,
		target:  target,
		handler: handler,
	})
}

// keyUp schedules a debounced live-typing change for text controls inside
// a change marker. The control carries the pending class until the
// dispatch completes.
func (p *Page) keyUp(target *html.Node) {
	if !isTyping(target) || p.closed {
		return
	}
	handler := closest(target.Parent, hasOnMarker(TriggerChange))
	if handler == nil {
		return
	}
	if hasAttr(target, OnAttr(TriggerChange)) {
		handler = target
	}

	addClass(target, PendingClass)
	onDone := func() {
		removeClass(target, PendingClass)
	}
	s := signal{
		trigger:    TriggerChange,
		target:     target,
		handler:    handler,
		liveTyping: true,
		onDone:     onDone,
	}
	p.debounce.schedule(target, p.prepare(s))
}

// trigger handles a programmatic trigger from origin.
func (p *Page) trigger(origin *html.Node, name string, data map[string]any) error {
	if !isElement(origin) {
		return ErrNotElement
	}
	if !attached(p.root, origin) {
		return ErrDetached
	}
	handler := closest(origin, hasOnMarker(name))
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrNoTrigger, OnAttr(name))
	}
	var payload map[string]any
	if data != nil {
		payload = copyData(data)
	}
	p.handle(signal{
		trigger: name,
		target:  handler,
		handler: handler,
		data:    payload,
	})
	return nil
}

// batch is the set of events one signal expands to, all emitted from the
// element the interaction originated on.
type batch struct {
	origin  *html.Node
	handler *html.Node
	events  []Event
}

// emit routes every event. Events without a component prefix take the
// component enclosing the declaring element at this moment.
func (b batch) emit(p *Page) {
	for _, ev := range b.events {
		if ev.Component == "" {
			if root := closest(b.handler, isComponent); root != nil {
				ev.Component = attr(root, AttrComponent)
			}
		}
		p.emit(b.origin, ev)
	}
}

// handle collects a signal's payload and emits its events immediately.
func (p *Page) handle(s signal) {
	p.prepare(s).emit(p)
}

// prepare turns a signal into the events named by its marker, payloads
// collected now.
func (p *Page) prepare(s signal) batch {
	c := p.collect(s)
	value := attr(s.handler, OnAttr(s.trigger))

	var events []Event
	for _, t := range parseTargets(value) {
		events = append(events, Event{
			Component:  t.component,
			Name:       t.event,
			Data:       copyData(c.data),
			LiveTyping: s.liveTyping,
			NoOverlay:  c.noOverlay,
			Overlay:    c.overlay,
			OnDone:     s.onDone,
		})
	}
	if len(events) == 0 {
		p.log.Debug("marker names no events", zap.String("marker", OnAttr(s.trigger)), zap.String("value", value))
		if s.onDone != nil {
			s.onDone()
		}
	}
	return batch{origin: s.target, handler: s.handler, events: events}
}
