package bisquit

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ElementSet locates the elements bound to a component id.
type ElementSet interface {
	// ComponentElements returns the component-marked elements whose
	// data-component equals id, limited to within (inclusive) when
	// within is non-nil.
	ComponentElements(id string, within *html.Node) []*html.Node
}

// Handler is a locally registered event callback. It runs synchronously
// while the page is locked; use the Context for further page access.
type Handler func(c *Context, data map[string]any)

// Component is the handle for one component id.
type Component struct {
	id       string
	set      ElementSet
	mu       sync.RWMutex
	handlers map[string]Handler
}

// ID returns the component id.
func (c *Component) ID() string {
	return c.id
}

// On registers a local handler for an event. Registering the same event
// again replaces the previous handler. A local handler short-circuits the
// remote exchange entirely.
//
//	page.Component("cart").On("toggle", func(c *bisquit.Context, data map[string]any) {
//	    ...
//	})
func (c *Component) On(event string, h Handler) *Component {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = h
	return c
}

// Handler returns the local handler for an event, if any.
func (c *Component) Handler(event string) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[event]
	return h, ok
}

// Elements returns the elements currently bound to the component, limited
// to within when non-nil. It reads the live tree, so call it from a Handler
// or use Page.Elements from other goroutines.
func (c *Component) Elements(within *html.Node) []*html.Node {
	return c.set.ComponentElements(c.id, within)
}

// Registry maps component ids to handles. Handles are created lazily on
// first request and live as long as the registry.
type Registry struct {
	mu         sync.Mutex
	set        ElementSet
	logger     *zap.Logger
	components map[string]*Component
}

// NewRegistry creates a registry that binds handles through set.
func NewRegistry(set ElementSet, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		set:        set,
		logger:     logger,
		components: make(map[string]*Component),
	}
}

// Get returns the handle for id, creating it on first use. A handle whose
// id matches no element is still returned; the mismatch is logged once.
func (reg *Registry) Get(id string) *Component {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c, ok := reg.components[id]; ok {
		return c
	}

	c := &Component{
		id:       id,
		set:      reg.set,
		handlers: make(map[string]Handler),
	}
	if len(reg.set.ComponentElements(id, nil)) == 0 {
		reg.logger.Warn("component not found in the document", zap.String("component", id))
	}
	reg.components[id] = c
	return c
}

// Lookup returns the handle for id without creating it.
func (reg *Registry) Lookup(id string) (*Component, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	c, ok := reg.components[id]
	return c, ok
}

// IDs returns the ids of all handles created so far.
func (reg *Registry) IDs() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ids := make([]string, 0, len(reg.components))
	for id := range reg.components {
		ids = append(ids, id)
	}
	return ids
}
