package bisquit

import (
	"strings"

	"golang.org/x/net/html"
)

// Event is one routed dispatch, the value the router carries from the
// originating element toward the component that claims it.
type Event struct {
	// Component is the target component id. Empty means the nearest
	// enclosing component claims the event.
	Component string
	// Name is the event name handed to the local handler or sent as _event.
	Name string
	// Data is the payload.
	Data map[string]any
	// LiveTyping marks debounced keystroke dispatches: no overlay, and the
	// response never patches the document.
	LiveTyping bool
	// NoOverlay suppresses the overlay.
	NoOverlay bool
	// Overlay is the element to cover while waiting; nil means the
	// component element.
	Overlay *html.Node
	// OnDone runs once the dispatch completes, local or remote.
	OnDone func()
}

// signal is a raw interaction normalized by the interceptor.
type signal struct {
	trigger    string     // change, click, or a custom trigger name
	target     *html.Node // the element the interaction originated on
	handler    *html.Node // the element declaring data-on-<trigger>
	data       map[string]any
	liveTyping bool
	onDone     func()
}

// eventTarget is one entry of a marker value.
type eventTarget struct {
	component string
	event     string
}

// parseTargets splits a marker value of the form
// [component:]event[;[component:]event...]. Entries without a component
// prefix return an empty component. Everything after the first colon is
// the event name, so event names may contain colons once prefixed.
func parseTargets(value string) []eventTarget {
	var out []eventTarget
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		component, event, found := strings.Cut(part, ":")
		if !found || event == "" {
			out = append(out, eventTarget{event: component})
			continue
		}
		out = append(out, eventTarget{component: component, event: event})
	}
	return out
}

// Target is one entry of a data-on-* marker value.
type Target struct {
	// Component is the named component, empty for the enclosing one.
	Component string
	Event     string
}

// ParseMarker splits a data-on-* value into its targets, in order.
func ParseMarker(value string) []Target {
	targets := parseTargets(value)
	out := make([]Target, len(targets))
	for i, t := range targets {
		out[i] = Target{Component: t.component, Event: t.event}
	}
	return out
}

// copyData deep-copies nested maps and slices of a payload.
func copyData(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}

// mergeData deep-merges src into dst: nested maps merge key by key,
// everything else is overwritten.
func mergeData(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeData(dm, sm)
				continue
			}
			dst[k] = copyData(sm)
			continue
		}
		dst[k] = copyValue(v)
	}
}
