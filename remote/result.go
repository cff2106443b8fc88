package remote

import (
	"github.com/a-h/templ"

	"github.com/pthm/bisquit/wire"
)

// Result is returned from handlers to say how the page changes.
//
// Result is a fluent builder: handlers describe markup, follow-up events,
// flash messages and headers without writing to the ResponseWriter. The
// controller renders it into the wire response after the handler returns.
//
//	// Replace the whole component
//	return remote.Replace(cartView(items))
//
//	// Replace only the list inside it
//	return remote.Inner(itemRows(items)).Target(".items")
//
//	// Change nothing, tell the header to refresh
//	return remote.None().TriggerComponent("header", "refresh", nil)
//
//	// Fail through the registry's OnError
//	return remote.Err(err)
type Result struct {
	html     templ.Component
	inner    templ.Component
	target   string
	err      error
	triggers []wire.Cascade
	flashes  []Flash
	headers  map[string]string
	status   int
}

// Replace creates a result replacing the patched region, tag included.
// The markup should render a single element; when it replaces the
// component itself, that element becomes the component from then on.
func Replace(c templ.Component) Result {
	return Result{html: c}
}

// Inner creates a result replacing the patched region's children.
func Inner(c templ.Component) Result {
	return Result{inner: c}
}

// None creates a result that patches nothing. Triggers and flashes
// chained onto it still cascade.
func None() Result {
	return Result{}
}

// Err creates an error result that passes the error to the registry's
// OnError handler. Nothing is patched or cascaded.
func Err(err error) Result {
	return Result{err: err}
}

// Target narrows patching to the component's descendants matching sel
// (a CSS selector, or XPath when it starts with "/", "./" or "xpath:").
func (r Result) Target(sel string) Result {
	r.target = sel
	return r
}

// Trigger cascades an event back to the dispatching component.
func (r Result) Trigger(event string, data map[string]any) Result {
	r.triggers = append(r.triggers, wire.Cascade{Event: event, Data: data})
	return r
}

// TriggerComponent cascades an event to another component. It reaches
// that component through the dispatching element's ancestors or, failing
// that, the component's first element on the page.
func (r Result) TriggerComponent(component, event string, data map[string]any) Result {
	r.triggers = append(r.triggers, wire.Cascade{Component: component, Event: event, Data: data})
	return r
}

// TriggerAt cascades an event from every descendant of the component
// matching sel. An empty component means the dispatching one.
func (r Result) TriggerAt(sel, component, event string, data map[string]any) Result {
	r.triggers = append(r.triggers, wire.Cascade{Component: component, Event: event, Data: data, Target: sel})
	return r
}

// Flash adds a flash message, delivered as a cascade to the toasts
// component after the result's own triggers.
//
//	return remote.None().Flash(remote.FlashSuccess, "Item saved!")
func (r Result) Flash(level, message string) Result {
	r.flashes = append(r.flashes, Flash{Level: level, Message: message})
	return r
}

// Header sets a custom response header.
//
//	return remote.Replace(view).Header("Cache-Control", "no-store")
func (r Result) Header(key, value string) Result {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// Status sets the HTTP status code. The default is 200.
func (r Result) Status(code int) Result {
	r.status = code
	return r
}

// GetErr returns the error from the result.
func (r Result) GetErr() error {
	return r.err
}

// GetTarget returns the patch target selector.
func (r Result) GetTarget() string {
	return r.target
}

// GetFlashes returns the flash messages.
func (r Result) GetFlashes() []Flash {
	return r.flashes
}

// GetHeaders returns the response headers.
func (r Result) GetHeaders() map[string]string {
	return r.headers
}

// GetStatus returns the HTTP status code.
func (r Result) GetStatus() int {
	return r.status
}

// cascades returns the triggers followed by one flash cascade per message.
func (r Result) cascades() []wire.Cascade {
	if len(r.triggers) == 0 && len(r.flashes) == 0 {
		return nil
	}
	out := make([]wire.Cascade, 0, len(r.triggers)+len(r.flashes))
	out = append(out, r.triggers...)
	for _, f := range r.flashes {
		out = append(out, f.cascade())
	}
	return out
}
