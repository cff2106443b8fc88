// Package bisquitecho provides Echo framework integration for bisquit
// controllers.
//
// Mount controllers onto an Echo instance:
//
//	e := echo.New()
//	reg := bisquitecho.Mount(e)
//	reg.Add(cart)
//
// Or mount on a root group to share its middleware:
//
//	g := e.Group("", authMiddleware)
//	reg := bisquitecho.MountGroup(g)
//	reg.Add(cart)
package bisquitecho

import (
	"crypto/rand"
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/bisquit/remote"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	key []byte
}

// WithKey sets the state key for the registry.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// Mount creates a registry and mounts the controller handler on an Echo instance.
//
//	e := echo.New()
//	reg := bisquitecho.Mount(e)
//	reg.Add(cart)
//
//	// With options:
//	reg := bisquitecho.Mount(e, bisquitecho.WithKey(key))
func Mount(e *echo.Echo, opts ...Option) *remote.Registry {
	reg := newRegistry(opts)
	e.Any(remote.PathPrefix+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a registry and mounts the controller handler on an Echo group.
// This allows controllers to share middleware with the group (auth, logging, etc.).
// Controller endpoints are absolute, so the group must not add a path prefix.
//
//	g := e.Group("", authMiddleware)
//	reg := bisquitecho.MountGroup(g)
//	reg.Add(cart)
func MountGroup(g *echo.Group, opts ...Option) *remote.Registry {
	reg := newRegistry(opts)
	g.Any(remote.PathPrefix+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

func newRegistry(opts []Option) *remote.Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("bisquitecho: failed to generate random key: %v", err))
		}
	}

	return remote.NewRegistry(key)
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return bisquitecho.Render(c, page())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
