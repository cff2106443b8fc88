package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/pthm/bisquit/wire"
)

// TestResult holds the decoded answer to a dispatch for testing.
//
// Provides convenience methods for asserting on markup, cascades,
// flashes, headers and status codes.
type TestResult struct {
	Response   *wire.Response
	StatusCode int
	Headers    http.Header
	Body       string
	Flashes    []Flash
}

// TestEvent dispatches an event straight to a controller, the way a page
// would, and decodes the answer.
//
// This tests the full HTTP lifecycle including payload decoding, event
// routing, handler execution and response rendering:
//
//	result, err := remote.TestEvent(cart, "add", map[string]any{"item": "tea"})
//	if !result.HTMLContains("tea") {
//	    t.Fatal("missing item")
//	}
func TestEvent(c *Controller, event string, data map[string]any) (*TestResult, error) {
	return TestEventWithContext(context.Background(), c, event, data)
}

// TestEventWithContext dispatches an event with a custom context.
//
// Use this for testing handlers that read request-scoped values:
//
//	ctx := context.WithValue(context.Background(), userKey, 123)
//	result, err := remote.TestEventWithContext(ctx, cart, "add", data)
func TestEventWithContext(ctx context.Context, c *Controller, event string, data map[string]any) (*TestResult, error) {
	return NewTestRequest(c.Endpoint(), event).
		WithData(data).
		WithContext(ctx).
		Execute(c)
}

// TestRequest builds a dispatch request for tests.
type TestRequest struct {
	endpoint      string
	event         string
	data          map[string]any
	ctx           context.Context
	headers       map[string]string
	requestedWith bool
}

// NewTestRequest starts a dispatch of event to endpoint.
func NewTestRequest(endpoint, event string) *TestRequest {
	return &TestRequest{
		endpoint:      endpoint,
		event:         event,
		data:          map[string]any{},
		ctx:           context.Background(),
		headers:       map[string]string{},
		requestedWith: true,
	}
}

// WithData merges data into the payload.
func (b *TestRequest) WithData(data map[string]any) *TestRequest {
	for k, v := range data {
		b.data[k] = v
	}
	return b
}

// WithContext sets the request context.
func (b *TestRequest) WithContext(ctx context.Context) *TestRequest {
	b.ctx = ctx
	return b
}

// WithHeader sets a request header.
func (b *TestRequest) WithHeader(key, value string) *TestRequest {
	b.headers[key] = value
	return b
}

// WithoutRequestedWith drops the header pages send on every dispatch,
// simulating a cross-site form post.
func (b *TestRequest) WithoutRequestedWith() *TestRequest {
	b.requestedWith = false
	return b
}

// Build returns the HTTP request.
func (b *TestRequest) Build() (*http.Request, error) {
	form, err := wire.Request{Event: b.event, Data: b.data}.Values()
	if err != nil {
		return nil, err
	}
	req := httptest.NewRequest(http.MethodPost, b.endpoint, strings.NewReader(form.Encode()))
	req = req.WithContext(b.ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if b.requestedWith {
		req.Header.Set(wire.RequestedWithHeader, wire.RequestedWithValue)
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Execute serves the request with h and decodes the answer. Responses
// that are not JSON (error pages) leave Response empty.
func (b *TestRequest) Execute(h http.Handler) (*TestResult, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	result := &TestResult{
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Body:       rec.Body.String(),
		Response:   &wire.Response{},
	}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		resp, err := wire.DecodeResponse(rec.Body.Bytes())
		if err != nil {
			return nil, err
		}
		result.Response = resp
	}
	for _, c := range result.Response.Trigger {
		if c.Component == Toasts && c.Event == FlashEvent {
			level, _ := c.Data["level"].(string)
			message, _ := c.Data["message"].(string)
			result.Flashes = append(result.Flashes, Flash{Level: level, Message: message})
		}
	}
	return result, nil
}

// HTMLContains checks if the replacement or inner markup contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.Response.HTML, substr) || strings.Contains(r.Response.Inner, substr)
}

// HTMLContainsAll checks if the markup contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !r.HTMLContains(s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was cascaded, to any component.
func (r *TestResult) HasEvent(event string) bool {
	for _, c := range r.Response.Trigger {
		if c.Event == event {
			return true
		}
	}
	return false
}

// Cascade returns the first cascade of event to component. An empty
// component matches cascades back to the dispatching component.
func (r *TestResult) Cascade(component, event string) (wire.Cascade, bool) {
	for _, c := range r.Response.Trigger {
		if c.Component == component && c.Event == event {
			return c, true
		}
	}
	return wire.Cascade{}, false
}

// Events returns the cascaded event names in order.
func (r *TestResult) Events() []string {
	events := make([]string, 0, len(r.Response.Trigger))
	for _, c := range r.Response.Trigger {
		events = append(events, c.Event)
	}
	return events
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks if any flash message was set with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}
