package wire

import "github.com/tidwall/gjson"

// Cascade is a follow-up event declared by a response.
// Component defaults to the dispatching component; Target, when set,
// selects the descendants of that component the event is emitted from.
type Cascade struct {
	Component string         `json:"component,omitempty"`
	Event     string         `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
	Target    string         `json:"target,omitempty"`
}

// IsZero returns true if the cascade names no event.
func (c Cascade) IsZero() bool {
	return c.Event == ""
}

func cascadeFromResult(item gjson.Result) (Cascade, bool) {
	if !item.IsObject() {
		return Cascade{}, false
	}
	c := Cascade{
		Component: item.Get("component").String(),
		Event:     item.Get("event").String(),
		Target:    item.Get("target").String(),
	}
	if c.IsZero() {
		return Cascade{}, false
	}
	if d := item.Get("data"); d.IsObject() {
		if m, ok := d.Value().(map[string]any); ok {
			c.Data = m
		}
	}
	return c, true
}
