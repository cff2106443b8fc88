package remote

import (
	"errors"

	"github.com/pthm/bisquit/lib/encoding"
	"github.com/pthm/bisquit/wire"
)

// Sentinel errors for controller operations.
var (
	ErrNotFound         = errors.New("remote: resource not found")
	ErrUnknownEvent     = errors.New("remote: no handler for event")
	ErrRenderFailed     = errors.New("remote: render failed")
	ErrStateMissing     = errors.New("remote: no state token")
	ErrDecryptFailed    = errors.New("remote: state decryption failed")
	ErrSignatureInvalid = errors.New("remote: state signature verification failed")
	ErrInvalidFormat    = errors.New("remote: invalid state format")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownEvent)
}

// IsStateError checks if err comes from a missing or untrustworthy state
// token.
func IsStateError(err error) bool {
	return errors.Is(err, ErrStateMissing) ||
		errors.Is(err, ErrDecryptFailed) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsBadRequest checks if err means the client sent something unusable.
func IsBadRequest(err error) bool {
	return IsStateError(err) || errors.Is(err, wire.ErrMalformedRequest)
}

// wrapEncodingError wraps encoding package errors with remote sentinel errors.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
