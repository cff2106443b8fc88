// Package wire defines the request and response shapes exchanged between a
// bisquit page and a remote controller.
//
// A dispatch is a form POST with two fields:
//
//	_event=<event name>
//	data=<JSON object>
//
// The controller answers with a JSON object. Every field is optional:
//
//	{
//	  "html":    "<div class=\"bsqt-component\" ...>...</div>",
//	  "inner":   "<li>...</li>",
//	  "target":  ".list",
//	  "trigger": [{"event": "refresh"}, {"component": "cart", "event": "reload", "data": {"id": 4}}]
//	}
//
// Missing fields mean "nothing to patch" or "nothing to cascade".
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Form field names of a dispatch request.
const (
	FieldEvent = "_event"
	FieldData  = "data"
)

// RequestedWithHeader is sent on every dispatch so servers can reject
// cross-site form posts.
const (
	RequestedWithHeader = "X-Requested-With"
	RequestedWithValue  = "XMLHttpRequest"
)

// ErrMalformedResponse is returned when a response body is not a JSON object.
var ErrMalformedResponse = errors.New("wire: malformed response")

// ErrMalformedRequest is returned when a request lacks an event name or
// carries undecodable data.
var ErrMalformedRequest = errors.New("wire: malformed request")

// Request is one dispatched event.
type Request struct {
	Event string
	Data  map[string]any
}

// Values encodes the request as form values.
func (r Request) Values() (url.Values, error) {
	data := r.Data
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("wire: encode data: %w", err)
	}
	v := url.Values{}
	v.Set(FieldEvent, r.Event)
	v.Set(FieldData, string(raw))
	return v, nil
}

// ParseRequest reads a dispatch from an HTTP request. It also returns the
// raw JSON of the data field so callers can run path queries against it.
func ParseRequest(r *http.Request) (Request, string, error) {
	if err := r.ParseForm(); err != nil {
		return Request{}, "", fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	event := r.PostForm.Get(FieldEvent)
	if event == "" {
		event = r.Form.Get(FieldEvent)
	}
	if event == "" {
		return Request{}, "", fmt.Errorf("%w: missing %s", ErrMalformedRequest, FieldEvent)
	}

	raw := r.PostForm.Get(FieldData)
	if raw == "" {
		raw = r.Form.Get(FieldData)
	}
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}

	data := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return Request{}, "", fmt.Errorf("%w: data: %v", ErrMalformedRequest, err)
	}
	return Request{Event: event, Data: data}, raw, nil
}

// Response is a controller's answer to a dispatch.
type Response struct {
	// HTML replaces the patched region, tag included.
	HTML string `json:"html,omitempty"`
	// Inner replaces the patched region's children.
	Inner string `json:"inner,omitempty"`
	// Target narrows the patched region to matching descendants.
	Target string `json:"target,omitempty"`
	// Trigger lists follow-up events, dispatched in order after patching.
	Trigger []Cascade `json:"trigger,omitempty"`
}

// HasMarkup reports whether the response carries anything to patch.
func (r *Response) HasMarkup() bool {
	return r != nil && (r.HTML != "" || r.Inner != "")
}

// DecodeResponse parses a response body. Fields of the wrong type are
// ignored rather than rejected; only a body that is not a JSON object is an
// error. An empty body is an empty response.
func DecodeResponse(body []byte) (*Response, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return &Response{}, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, ErrMalformedResponse
	}

	res := &Response{}
	if v := doc.Get("html"); v.Type == gjson.String {
		res.HTML = v.String()
	}
	if v := doc.Get("inner"); v.Type == gjson.String {
		res.Inner = v.String()
	}
	if v := doc.Get("target"); v.Type == gjson.String {
		res.Target = v.String()
	}
	if v := doc.Get("trigger"); v.IsArray() {
		v.ForEach(func(_, item gjson.Result) bool {
			if c, ok := cascadeFromResult(item); ok {
				res.Trigger = append(res.Trigger, c)
			}
			return true
		})
	}
	return res, nil
}
