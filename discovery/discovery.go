package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Server describes a discovered OpenID provider.
//
// Endpoint is always an absolute URL. Delegate, when non-empty, is the
// identifier the provider wants used as openid.identity in place of the
// claimed identifier.
type Server struct {
	Endpoint string
	Delegate string
}

// Discoverer locates the OpenID provider for an identifier.
type Discoverer interface {
	// DiscoverServer resolves the provider advertised by the
	// identifier's discovery document.
	DiscoverServer(ctx context.Context, identifier string) (*Server, error)

	// DiscoverServerByUser re-derives the provider for a claimed
	// identifier during verification. Implementations must never trust
	// endpoint information supplied by the party being verified.
	DiscoverServerByUser(ctx context.Context, claimedID string) (*Server, error)
}

// Response is a fetched discovery document handed to resolvers.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Resolver inspects a discovery response and optionally yields a Server.
// A nil result is not an error; it means the resolver found nothing and
// the caller should try the next one.
type Resolver interface {
	Resolve(resp *Response) *Server
}

// Discovery documents are small; anything past this is not worth reading.
const maxBodySize = 1 << 20

// Discovery is the default strategy: fetch the identifier's normalized
// URL with a GET and apply the XRDS resolver, then the HTML resolver.
type Discovery struct {
	client    *http.Client
	resolvers []Resolver
}

// Option configures a Discovery.
// Returns an error for validation failures.
type Option func(*Discovery) error

// WithHTTPClient sets the HTTP client used for discovery requests.
//
// Default: &http.Client{Timeout: 30 * time.Second}
func WithHTTPClient(client *http.Client) Option {
	return func(d *Discovery) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		d.client = client
		return nil
	}
}

// WithResolvers replaces the default resolver chain. Order expresses
// priority; the first resolver to yield a server wins.
//
// Default: XRDSResolver, then HTMLResolver.
func WithResolvers(resolvers ...Resolver) Option {
	return func(d *Discovery) error {
		if len(resolvers) == 0 {
			return errors.New("resolver list cannot be empty")
		}
		d.resolvers = resolvers
		return nil
	}
}

// New builds and returns the default discovery strategy.
func New(opts ...Option) (*Discovery, error) {
	d := &Discovery{
		client:    &http.Client{Timeout: 30 * time.Second},
		resolvers: []Resolver{&XRDSResolver{}, &HTMLResolver{}},
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return d, nil
}

// DiscoverServer fetches the identifier's discovery document and applies
// the resolver chain. It fails with ErrNetwork when the fetch fails or
// no resolver can make sense of the document.
func (d *Discovery) DiscoverServer(ctx context.Context, identifier string) (*Server, error) {
	target := discoveryURL(identifier)

	resp, err := fetch(ctx, d.client, target)
	if err != nil {
		return nil, err
	}

	for _, r := range d.resolvers {
		if s := r.Resolve(resp); s != nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: no usable discovery information at %s", ErrNetwork, target)
}

// DiscoverServerByUser runs the same procedure on the claimed identifier.
func (d *Discovery) DiscoverServerByUser(ctx context.Context, claimedID string) (*Server, error) {
	return d.DiscoverServer(ctx, claimedID)
}

// discoveryURL normalizes an identifier into the URL to fetch. A
// syntactically odd but non-empty identifier falls back to its trimmed
// form rather than aborting discovery.
func discoveryURL(identifier string) string {
	if normalized, err := Normalize(identifier); err == nil {
		return normalized
	}
	return strings.TrimSpace(identifier)
}

// fetch issues a discovery GET and wraps any transport or status failure
// in ErrNetwork.
func fetch(ctx context.Context, client *http.Client, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: could not build request for %s: %v", ErrNetwork, target, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrNetwork, target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body from %s: %v", ErrNetwork, target, err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
