package remote

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/bisquit"
)

// Attrs binds an element to the controller: the component class, the
// component id and the endpoint dispatches are posted to.
//
//	<div { cart.Attrs()... }>...</div>
func (c *Controller) Attrs() templ.Attributes {
	return templ.Attributes{
		"class":                bisquit.ComponentClass,
		bisquit.AttrComponent: c.name,
		bisquit.AttrRemote:    c.endpoint,
	}
}

// StateParam encodes v as a state token parameter, signed or encrypted
// per the controller's sensitivity. Handlers read it back with
// Request.State. The controller must be registered.
func (c *Controller) StateParam(v any) (templ.Attributes, error) {
	token, err := c.State(v)
	if err != nil {
		return nil, err
	}
	return templ.Attributes{bisquit.AttrParamPrefix + StateParam: token}, nil
}

// State encodes v as a state token.
func (c *Controller) State(v any) (string, error) {
	if c.encoder == nil {
		return "", ErrStateMissing
	}
	return c.encoder.Encode(v, c.sensitive)
}

// Event names an event on another component, for use in On targets.
//
//	remote.OnClick(remote.Event("cart", "add"))  // data-on-click="cart:add"
func Event(component, event string) string {
	return component + ":" + event
}

// On declares the events a trigger emits. Each target is an event name
// for the enclosing component or a "component:event" pair; they are sent
// in order.
func On(trigger string, targets ...string) templ.Attributes {
	return templ.Attributes{bisquit.OnAttr(trigger): strings.Join(targets, ";")}
}

// OnClick declares the events a click emits.
func OnClick(targets ...string) templ.Attributes {
	return On(bisquit.TriggerClick, targets...)
}

// OnChange declares the events a change emits. On a container it also
// makes typing in text fields inside it emit after the key-up delay.
func OnChange(targets ...string) templ.Attributes {
	return On(bisquit.TriggerChange, targets...)
}

// Params declares static parameters merged into every event passing
// through the element.
func Params(params map[string]string) templ.Attributes {
	attrs := templ.Attributes{}
	for k, v := range params {
		attrs[bisquit.AttrParamPrefix+k] = v
	}
	return attrs
}

// Scope serializes the fields under the closest match of sel (or the
// element itself for "this") into the event payload.
func Scope(sel string) templ.Attributes {
	return templ.Attributes{bisquit.AttrScope: sel}
}

// Overlay places the pending overlay over the closest match of sel
// instead of over the component.
func Overlay(sel string) templ.Attributes {
	return templ.Attributes{bisquit.AttrOverlay: sel}
}

// NoOverlay suppresses the pending overlay.
func NoOverlay() templ.Attributes {
	return templ.Attributes{bisquit.AttrNoOverlay: "true"}
}

// Confirm asks the user before a click emits anything.
func Confirm(message string) templ.Attributes {
	return templ.Attributes{bisquit.AttrConfirm: message}
}

// Merge combines attribute sets. Later sets win, except class values,
// which are joined.
//
//	<button { remote.Merge(remote.OnClick("save"), remote.Confirm("Save?"))... }>
func Merge(sets ...templ.Attributes) templ.Attributes {
	out := templ.Attributes{}
	for _, set := range sets {
		for k, v := range set {
			if k == "class" {
				if prev, ok := out[k].(string); ok && prev != "" {
					if s, ok := v.(string); ok {
						out[k] = prev + " " + s
						continue
					}
				}
			}
			out[k] = v
		}
	}
	return out
}
