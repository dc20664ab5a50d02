package discovery

import (
	"errors"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`(?i)^https?:`)

// ErrEmptyIdentifier is returned by Normalize for blank input.
var ErrEmptyIdentifier = errors.New("empty identifier")

// Normalize canonicalizes a user-entered identifier into an absolute URL.
//
// The identifier is trimmed and, when it carries no http or https scheme,
// prefixed with "http://". The host is lower-cased, dot segments in the
// path are resolved, an empty path becomes "/", the default port for the
// scheme is dropped, and any fragment is discarded. Query and user-info
// components are preserved.
//
// Callers that can proceed with a rough identifier should fall back to
// the trimmed input when Normalize fails; only blank input is fatal.
func Normalize(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrEmptyIdentifier
	}

	hadScheme := schemePattern.MatchString(id)
	if !hadScheme {
		id = "http://" + id
	}

	u, err := url.Parse(id)
	if err != nil {
		return "", err
	}

	scheme := strings.ToLower(u.Scheme)
	if !hadScheme && u.Port() == "443" {
		scheme = "https"
	}

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}

	p := u.Path
	if p == "" {
		p = "/"
	} else {
		// path.Clean resolves "." and ".." but eats a trailing slash,
		// which is significant in an identifier.
		trailing := strings.HasSuffix(p, "/") && len(p) > 1
		p = path.Clean(p)
		if trailing && p != "/" {
			p += "/"
		}
	}

	out := url.URL{
		Scheme:   scheme,
		User:     u.User,
		Host:     host,
		Path:     p,
		RawQuery: u.RawQuery,
	}
	if port != "" {
		out.Host = host + ":" + port
	}
	return out.String(), nil
}
