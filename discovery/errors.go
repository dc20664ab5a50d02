package discovery

import "errors"

var (
	// ErrNetwork is returned when a discovery request fails, returns a
	// non-success status, or yields a document no resolver can interpret.
	ErrNetwork = errors.New("openid discovery request failed")

	// ErrNoServerFound is returned by Composite when every configured
	// strategy failed.
	ErrNoServerFound = errors.New("no openid server found")
)
