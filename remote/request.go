package remote

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// StateParam is the parameter key carrying a controller's state token.
const StateParam = "_state"

// Request is one dispatched event as seen by a handler.
type Request struct {
	// Event is the dispatched event name.
	Event string
	// Data is the decoded payload: form fields, parameters and trigger data.
	Data map[string]any
	// HTTP is the underlying request.
	HTTP *http.Request

	raw  string
	ctrl *Controller
}

// Get reads a dotted path from the payload, e.g. "address.city" or
// "items.0.sku".
func (r *Request) Get(path string) gjson.Result {
	return gjson.Get(r.raw, path)
}

// String reads a payload path as a string. Missing paths yield "".
func (r *Request) String(path string) string {
	return r.Get(path).String()
}

// Int reads a payload path as an integer. Numeric strings are converted.
func (r *Request) Int(path string) int64 {
	return r.Get(path).Int()
}

// Bool reads a payload path as a boolean. "true", "1" and true are true.
func (r *Request) Bool(path string) bool {
	return r.Get(path).Bool()
}

// Has reports whether the payload contains path.
func (r *Request) Has(path string) bool {
	return r.Get(path).Exists()
}

// State decodes the state token the page sent back under StateParam.
func (r *Request) State(v any) error {
	token, ok := r.Data[StateParam].(string)
	if !ok || token == "" {
		return fmt.Errorf("%w: no %s parameter", ErrStateMissing, StateParam)
	}
	if r.ctrl == nil || r.ctrl.encoder == nil {
		return fmt.Errorf("%w: controller is not registered", ErrStateMissing)
	}
	if err := r.ctrl.encoder.Decode(token, r.ctrl.sensitive, v); err != nil {
		return wrapEncodingError(err)
	}
	return nil
}
