package openid2

import (
	"errors"
	"net/http"

	"github.com/go-openid2/openid2/discovery"
)

// Option configures the Client.
// Returns an error for validation failures.
type Option func(*Client) error

// Sentinel errors for configuration validation.
var (
	ErrHTTPClientNil = errors.New("http client cannot be nil")
	ErrDiscovererNil = errors.New("discoverer cannot be nil")
	ErrLoggerNil     = errors.New("logger cannot be nil")
	ErrMetricsNil    = errors.New("metrics cannot be nil")
	ErrTracerNil     = errors.New("tracer cannot be nil")
)

// WithHTTPClient sets the HTTP client used for the direct-verification
// POST and, unless WithDiscoverer is used, for discovery requests.
//
// Default: &http.Client{Timeout: 30 * time.Second}
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return ErrHTTPClientNil
		}
		c.httpClient = client
		return nil
	}
}

// WithDiscoverer replaces the default discovery chain. The default is a
// composite of the generic document/markup strategy followed by Google's
// fixed-endpoint strategy.
func WithDiscoverer(d discovery.Discoverer) Option {
	return func(c *Client) error {
		if d == nil {
			return ErrDiscovererNil
		}
		c.discoverer = d
		return nil
	}
}

// WithLogger sets an optional logger for the client.
//
// Default: NoopLogger
func WithLogger(logger Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return ErrLoggerNil
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets an optional metrics sink for the client.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(c *Client) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		c.metrics = metrics
		return nil
	}
}

// WithTracer sets an optional tracer for the client.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(c *Client) error {
		if tracer == nil {
			return ErrTracerNil
		}
		c.tracer = tracer
		return nil
	}
}
