package openid2

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-openid2/openid2/discovery"
)

// Client is an OpenID 2.0 relying-party client. It is immutable after
// construction and safe for concurrent use; every call owns its own
// parameter state.
type Client struct {
	httpClient *http.Client
	discoverer discovery.Discoverer
	logger     Logger
	metrics    Metrics
	tracer     Tracer
}

// New constructs a Client with the supplied options. With no options it
// discovers providers with the generic document/markup strategy first
// and Google's fixed endpoints as a fallback.
//
// Example:
//
//	client, err := openid2.New(
//	    openid2.WithHTTPClient(myHTTPClient),
//	    openid2.WithLogger(openid2.NewLogrusLogger(logrus.StandardLogger())),
//	)
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     &NoopLogger{},
		metrics:    &NoopMetrics{},
		tracer:     &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if c.discoverer == nil {
		d, err := defaultDiscoverer(c.httpClient)
		if err != nil {
			return nil, fmt.Errorf("could not build default discoverer: %w", err)
		}
		c.discoverer = d
	}

	return c, nil
}

func defaultDiscoverer(client *http.Client) (discovery.Discoverer, error) {
	generic, err := discovery.New(discovery.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}
	google, err := discovery.NewGoogle(discovery.WithGoogleHTTPClient(client))
	if err != nil {
		return nil, err
	}
	return discovery.NewComposite(generic, google)
}

// Normalize canonicalizes a user-entered identifier. It is exposed so
// applications can apply allow or deny rules to the canonical form
// before starting a login.
func Normalize(identifier string) (string, error) {
	return discovery.Normalize(identifier)
}

// DefaultRealm derives a scheme-and-host realm from a callback URL. It
// returns an empty string when the callback URL does not parse.
func DefaultRealm(callbackURL string) string {
	u, err := url.Parse(callbackURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
}
