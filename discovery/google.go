package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	googleSiteXRDS = "https://www.google.com/accounts/o8/id"
	googleUserXRDS = "https://www.google.com/accounts/o8/user-xrds?uri="
)

// Google discovers endpoints through Google's fixed federated-login XRDS
// documents. Google claimed identifiers do not serve per-user discovery
// markup themselves, so the generic strategy cannot re-derive an
// endpoint from them; this strategy fills that gap and is the default
// fallback behind the generic one.
//
// Only the XRDS resolver applies: these documents are never HTML.
type Google struct {
	client      *http.Client
	siteXRDSURL string
	userXRDSURL string
	resolver    Resolver
}

// GoogleOption configures a Google discovery strategy.
// Returns an error for validation failures.
type GoogleOption func(*Google) error

// WithGoogleHTTPClient sets the HTTP client used for discovery requests.
//
// Default: &http.Client{Timeout: 30 * time.Second}
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(g *Google) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		g.client = client
		return nil
	}
}

// WithGoogleEndpoints overrides the fixed XRDS document URLs.
// userXRDSURL is a prefix; the URL-encoded claimed identifier is
// appended to it. Intended for tests and self-hosted mirrors.
func WithGoogleEndpoints(siteXRDSURL, userXRDSURL string) GoogleOption {
	return func(g *Google) error {
		if siteXRDSURL == "" || userXRDSURL == "" {
			return errors.New("endpoint URLs cannot be empty")
		}
		g.siteXRDSURL = siteXRDSURL
		g.userXRDSURL = userXRDSURL
		return nil
	}
}

// NewGoogle builds and returns a Google discovery strategy.
func NewGoogle(opts ...GoogleOption) (*Google, error) {
	g := &Google{
		client:      &http.Client{Timeout: 30 * time.Second},
		siteXRDSURL: googleSiteXRDS,
		userXRDSURL: googleUserXRDS,
		resolver:    &XRDSResolver{},
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return g, nil
}

// DiscoverServer fetches the fixed site XRDS document. The identifier is
// not consulted; every account behind the hosted provider shares one
// endpoint.
func (g *Google) DiscoverServer(ctx context.Context, _ string) (*Server, error) {
	return g.resolveXRDS(ctx, g.siteXRDSURL)
}

// DiscoverServerByUser fetches the per-user XRDS document for the
// claimed identifier.
func (g *Google) DiscoverServerByUser(ctx context.Context, claimedID string) (*Server, error) {
	return g.resolveXRDS(ctx, g.userXRDSURL+url.QueryEscape(claimedID))
}

func (g *Google) resolveXRDS(ctx context.Context, target string) (*Server, error) {
	resp, err := fetch(ctx, g.client, target)
	if err != nil {
		return nil, err
	}
	if s := g.resolver.Resolve(resp); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: no known XRDS service in document at %s", ErrNetwork, target)
}
