package remote

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/a-h/templ"

	"github.com/pthm/bisquit/lib/encoding"
	"github.com/pthm/bisquit/wire"
)

// PathPrefix is where registries mount their controllers.
const PathPrefix = "/_bsqt/"

// HandlerFunc answers one dispatched event.
type HandlerFunc func(ctx context.Context, req *Request) Result

// Controller is the server half of a component: it owns the component's
// endpoint and maps event names to handlers.
//
//	c := remote.New("todolist")
//	c.On("add", c.handleAdd)
//	c.On("toggle", c.handleToggle)
//
// Each controller receives a deterministic endpoint based on its name and
// source location (file:line), ensuring uniqueness without manual
// coordination.
type Controller struct {
	name      string
	endpoint  string
	sensitive bool
	handlers  map[string]HandlerFunc
	fallback  HandlerFunc
	encoder   *encoding.Encoder
	onError   func(http.ResponseWriter, *http.Request, error)
}

// New creates a controller for the component id name.
func New(name string) *Controller {
	return &Controller{
		name:     name,
		endpoint: PathPrefix + name + "-" + componentHash(name, 1),
		handlers: make(map[string]HandlerFunc),
	}
}

// Sensitive switches state tokens from signed to encrypted.
//
// Signed mode (default) is debuggable - state is visible in the markup as
// base64 msgpack. Encrypted mode makes it completely opaque.
func (c *Controller) Sensitive() *Controller {
	c.sensitive = true
	return c
}

// Name returns the component id the controller serves.
func (c *Controller) Name() string {
	return c.name
}

// Endpoint returns the controller's URL path.
func (c *Controller) Endpoint() string {
	return c.endpoint
}

// IsSensitive returns whether state tokens are encrypted.
func (c *Controller) IsSensitive() bool {
	return c.sensitive
}

// On registers the handler for an event. Registering an event again
// replaces its handler.
func (c *Controller) On(event string, h HandlerFunc) *Controller {
	c.handlers[event] = h
	return c
}

// Default registers the handler for events without their own handler.
func (c *Controller) Default(h HandlerFunc) *Controller {
	c.fallback = h
	return c
}

// Events returns the registered event names, sorted.
func (c *Controller) Events() []string {
	events := make([]string, 0, len(c.handlers))
	for e := range c.handlers {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}

// SetEncoder sets the state encoder (called by the registry).
func (c *Controller) SetEncoder(enc *encoding.Encoder) {
	c.encoder = enc
}

// Encoder returns the state encoder.
func (c *Controller) Encoder() *encoding.Encoder {
	return c.encoder
}

// ServeHTTP decodes a dispatch, runs its handler and writes the response.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wr, raw, err := wire.ParseRequest(r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	h, ok := c.handlers[wr.Event]
	if !ok {
		h = c.fallback
	}
	if h == nil {
		c.fail(w, r, fmt.Errorf("%w: %s on %s", ErrUnknownEvent, wr.Event, c.name))
		return
	}

	req := &Request{
		Event: wr.Event,
		Data:  wr.Data,
		HTTP:  r,
		raw:   raw,
		ctrl:  c,
	}
	c.write(w, r, h(r.Context(), req))
}

// write renders a Result into the wire response.
func (c *Controller) write(w http.ResponseWriter, r *http.Request, res Result) {
	if res.err != nil {
		c.fail(w, r, res.err)
		return
	}

	resp := wire.Response{Target: res.target}
	var err error
	if res.html != nil {
		if resp.HTML, err = renderString(r.Context(), res.html); err != nil {
			c.fail(w, r, fmt.Errorf("%w: %v", ErrRenderFailed, err))
			return
		}
	}
	if res.inner != nil {
		if resp.Inner, err = renderString(r.Context(), res.inner); err != nil {
			c.fail(w, r, fmt.Errorf("%w: %v", ErrRenderFailed, err))
			return
		}
	}
	resp.Trigger = res.cascades()

	body, err := json.Marshal(resp)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	for k, v := range res.headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	status := res.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write(body)
}

func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error) {
	if c.onError != nil {
		c.onError(w, r, err)
		return
	}
	defaultOnError(w, r, err)
}

func renderString(ctx context.Context, component templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// componentHash generates a deterministic hash based on component name and source location.
// This ensures each controller gets a unique endpoint without manual coordination.
func componentHash(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		// Use base filename only for portability across environments
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4]) // 8 hex chars
}
