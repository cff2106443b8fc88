package bisquit

import "errors"

// Sentinel errors for page operations.
var (
	ErrInvalidSelector = errors.New("bisquit: invalid selector")
	ErrNoTrigger       = errors.New("bisquit: no element declares the trigger")
	ErrNoEndpoint      = errors.New("bisquit: component has no remote endpoint")
	ErrNotElement      = errors.New("bisquit: node is not an element")
	ErrDetached        = errors.New("bisquit: node is not part of the document")
)

// IsInvalidSelector checks if err came from a selector that failed to parse.
func IsInvalidSelector(err error) bool {
	return errors.Is(err, ErrInvalidSelector)
}

// IsNoTrigger checks if err came from a trigger signal nobody declares.
func IsNoTrigger(err error) bool {
	return errors.Is(err, ErrNoTrigger)
}
