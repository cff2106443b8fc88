package remote

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/pthm/bisquit/lib/encoding"
)

// Registry manages controller registration and routing.
type Registry struct {
	mu          sync.RWMutex
	mux         *http.ServeMux
	encoder     *encoding.Encoder
	controllers map[string]*Controller // map[endpoint]controller

	// OnError is called when a dispatch fails or a handler returns an error.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// NewRegistry creates a new controller registry with the given state key.
func NewRegistry(key []byte) *Registry {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("remote: failed to create encoder: %v", err))
	}

	return &Registry{
		mux:         http.NewServeMux(),
		encoder:     enc,
		controllers: make(map[string]*Controller),
		OnError:     defaultOnError,
	}
}

// defaultOnError maps errors to plain status responses.
func defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	if IsNotFound(err) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if IsBadRequest(err) {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

// Encoder returns the registry's state encoder.
func (reg *Registry) Encoder() *encoding.Encoder {
	return reg.encoder
}

// Add registers controllers with the registry.
// Panics on an endpoint collision.
func (reg *Registry) Add(controllers ...*Controller) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, c := range controllers {
		if _, exists := reg.controllers[c.endpoint]; exists {
			panic(fmt.Sprintf("remote: endpoint collision for %q", c.endpoint))
		}
		c.SetEncoder(reg.encoder)
		c.onError = func(w http.ResponseWriter, r *http.Request, err error) {
			reg.OnError(w, r, err)
		}
		reg.controllers[c.endpoint] = c
		reg.mux.Handle(c.endpoint, c)
	}
}

// Controller returns the registered controller for a component id.
func (reg *Registry) Controller(name string) (*Controller, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, c := range reg.controllers {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Endpoints returns the registered endpoints, sorted.
func (reg *Registry) Endpoints() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]string, 0, len(reg.controllers))
	for e := range reg.controllers {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Handler returns the HTTP handler for controller routes.
// Mount this at PathPrefix in your application.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require the page's marker header
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if !IsDispatch(r) {
				http.Error(w, "Forbidden: bisquit dispatch required", http.StatusForbidden)
				return
			}
		}

		reg.mux.ServeHTTP(w, r)
	})
}
