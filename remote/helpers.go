package remote

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/pthm/bisquit/wire"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use this for the full pages that host components:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    remote.Render(w, r, page())
//	}
//
// Controller handlers don't need this - they return a Result.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsDispatch returns true if the request came from a bisquit page.
//
// Pages send X-Requested-With: XMLHttpRequest on every dispatch.
func IsDispatch(r *http.Request) bool {
	return r.Header.Get(wire.RequestedWithHeader) == wire.RequestedWithValue
}

// EventName returns the dispatched event name without decoding the payload.
//
// Returns empty string for requests that are not dispatches.
func EventName(r *http.Request) string {
	return r.FormValue(wire.FieldEvent)
}
