package openid2

import (
	"errors"
	"fmt"

	"github.com/go-openid2/openid2/discovery"
)

var (
	// ErrMissingParameters is returned when a mandatory input, such as
	// the user-supplied identifier, is empty.
	ErrMissingParameters = errors.New("missing required parameters")

	// ErrBadResponse is returned for malformed callbacks: a wrong or
	// missing openid.mode, or no identity field at all. No network call
	// is made for such callbacks.
	ErrBadResponse = errors.New("bad openid response")

	// ErrAuthFailed is returned when the provider's direct verification
	// did not confirm the assertion.
	ErrAuthFailed = errors.New("openid authentication failed")

	// ErrNoServerFound mirrors discovery.ErrNoServerFound for callers
	// that only import this package.
	ErrNoServerFound = discovery.ErrNoServerFound
)

// authError handles wrapping a verification transport failure with the
// concrete error ErrAuthFailed. We do not expose this publicly because
// the interface methods of Is and Unwrap should give the user all they
// need.
type authError struct {
	details error
}

// Is allows the error to support equality to ErrAuthFailed.
func (e *authError) Is(target error) bool {
	return target == ErrAuthFailed
}

// Error returns a string representation of the error.
func (e *authError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthFailed, e.details)
}

// Unwrap allows the error to support equality to the underlying error
// and not just ErrAuthFailed.
func (e *authError) Unwrap() error {
	return e.details
}
