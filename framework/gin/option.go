package openidgin

import (
	"github.com/gin-gonic/gin"

	"github.com/go-openid2/openid2"
)

type config struct {
	callbackURL     string
	realm           string
	identifierParam string
	required        []openid2.Attribute
	optional        []openid2.Attribute
	errorHandler    func(*gin.Context, error)
}

// Option configures the handlers.
type Option func(*config)

func newConfig(callbackURL string, opts []Option) *config {
	cfg := &config{
		callbackURL:     callbackURL,
		identifierParam: DefaultIdentifierParam,
		errorHandler:    defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.realm == "" {
		cfg.realm = openid2.DefaultRealm(cfg.callbackURL)
	}
	return cfg
}

// WithRealm overrides the realm sent to the provider. The default is
// derived from the callback URL's scheme and host.
func WithRealm(realm string) Option {
	return func(cfg *config) {
		cfg.realm = realm
	}
}

// WithIdentifierParam sets the form or query parameter carrying the
// user's identifier. Default: DefaultIdentifierParam.
func WithIdentifierParam(name string) Option {
	return func(cfg *config) {
		cfg.identifierParam = name
	}
}

// WithRequiredAttributes requests attribute-exchange values the
// application cannot proceed without.
func WithRequiredAttributes(attrs ...openid2.Attribute) Option {
	return func(cfg *config) {
		cfg.required = attrs
	}
}

// WithOptionalAttributes requests attribute-exchange values the
// application can live without.
func WithOptionalAttributes(attrs ...openid2.Attribute) Option {
	return func(cfg *config) {
		cfg.optional = attrs
	}
}

// WithErrorHandler overrides how handler errors are rendered.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = h
	}
}
